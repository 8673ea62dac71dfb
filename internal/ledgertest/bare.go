package ledgertest

import (
	"bytes"
	"maps"
	"sort"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Bare is a common.Invocation writing straight into a map. Unlike
// host.Environment it never rolls anything back, so ledger methods called
// with it show exactly what they write before failing.
type Bare struct {
	caller util.Uint160
	items  map[string][]byte
	writes int
	events []string
}

// NewBare returns empty Bare invoked by the given caller.
func NewBare(caller util.Uint160) *Bare {
	return &Bare{
		caller: caller,
		items:  make(map[string][]byte),
	}
}

// As switches the caller of subsequent calls.
func (b *Bare) As(caller util.Uint160) *Bare {
	b.caller = caller
	return b
}

// Reset forgets counted writes and notifications, storage is kept.
func (b *Bare) Reset() {
	b.writes = 0
	b.events = nil
}

// Writes returns number of Put and Delete calls since the last Reset.
func (b *Bare) Writes() int {
	return b.writes
}

// Events returns names of notifications since the last Reset.
func (b *Bare) Events() []string {
	return b.events
}

// Snapshot returns a copy of the whole storage.
func (b *Bare) Snapshot() map[string][]byte {
	return maps.Clone(b.items)
}

func (b *Bare) Get(key []byte) []byte {
	return b.items[string(key)]
}

func (b *Bare) Find(prefix []byte, f func(key, value []byte) bool) {
	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !f([]byte(k), b.items[k]) {
			return
		}
	}
}

func (b *Bare) Put(key, value []byte) {
	b.writes++
	b.items[string(key)] = bytes.Clone(value)
}

func (b *Bare) Delete(key []byte) {
	b.writes++
	delete(b.items, string(key))
}

func (b *Bare) Caller() util.Uint160 {
	return b.caller
}

func (b *Bare) Notify(name string, _ ...stackitem.Item) {
	b.events = append(b.events, name)
}
