package dump

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Source provides persisted storage of contracts.
type Source interface {
	View(contract util.Uint160) common.Reader
}

// Loader writes raw storage items of contracts.
type Loader interface {
	Load(contract util.Uint160, load func(common.Storage) error) error
}

// Save dumps full storage of the named contracts from src into the directory.
func Save(dir string, id ID, src Source, contracts map[string]util.Uint160) error {
	c, err := NewCreator(dir, id)
	if err != nil {
		return err
	}
	defer c.Close()

	for name, hash := range contracts {
		w := c.AddContract(name, hash)

		src.View(hash).Find(nil, func(k, v []byte) bool {
			err = w.Write(k, v)
			return err == nil
		})
		if err != nil {
			return fmt.Errorf("dump storage of contract '%s': %w", name, err)
		}
	}

	return c.Flush()
}

// Restore replaces storage of every dumped contract in dst with the dumped
// items. Keys the dump doesn't have are removed, so ledger totals match the
// balances after the restore. Each contract is replaced atomically. Dumps
// written by an incompatible version are rejected before anything is loaded.
func (x *Reader) Restore(dst Loader) error {
	if err := x.id.Check(); err != nil {
		return err
	}

	for i := range x.contracts {
		c := &x.contracts[i]

		err := dst.Load(c.Hash, func(s common.Storage) error {
			var stale [][]byte
			s.Find(nil, func(k, _ []byte) bool {
				stale = append(stale, bytes.Clone(k))
				return true
			})

			for _, k := range stale {
				s.Delete(k)
			}

			for _, item := range c.items {
				s.Put(item.k, item.v)
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("restore contract '%s': %w", c.Name, err)
		}
	}

	return nil
}

// Restore finds the newest dump with the given label in dir and restores it
// into dst. ID of the restored dump is returned.
func Restore(dir, label string, dst Loader) (ID, error) {
	r, err := Find(dir, label)
	if err != nil {
		return ID{}, err
	}

	return r.id, r.Restore(dst)
}
