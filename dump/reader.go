package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

type kv struct{ k, v []byte }

type contractDump struct {
	contractRecord
	items []kv
}

// Reader holds a dump loaded into memory.
type Reader struct {
	id        ID
	contracts []contractDump
}

// ID returns identifier of the dump.
func (x *Reader) ID() ID {
	return x.id
}

// IterateDumps iterates over all dumps made by the Creator in the specified
// directory in ID order, and passes each of them into f. Nested directories
// are not visited.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	ids, err := listDumps(dir)
	if err != nil {
		return err
	}

	for i := range ids {
		r, err := readDump(dir, ids[i])
		if err != nil {
			return err
		}

		f(ids[i], r)
	}

	return nil
}

// Find reads the dump with the given label. If the directory holds several
// versions of the label, the newest one is returned. ErrNotFound is returned
// if there are no such dumps.
func Find(dir, label string) (*Reader, error) {
	ids, err := listDumps(dir)
	if err != nil {
		return nil, err
	}

	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i].Label == label {
			return readDump(dir, ids[i])
		}
	}

	return nil, fmt.Errorf("%w: label '%s' in '%s'", ErrNotFound, label, dir)
}

func listDumps(dir string) ([]ID, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+sep+contractsFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("list dumps: %w", err)
	}

	ids := make([]ID, 0, len(matches))
	for _, m := range matches {
		id, err := parseID(filepath.Base(m))
		if err != nil {
			return nil, fmt.Errorf("decode dump ID from file name '%s': %w", filepath.Base(m), err)
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Label != ids[j].Label {
			return ids[i].Label < ids[j].Label
		}
		return ids[i].Version < ids[j].Version
	})

	return ids, nil
}

func readDump(dir string, id ID) (*Reader, error) {
	files, err := openDumpFiles(dir, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("incomplete dump '%s': %w", id, err)
		}
		return nil, err
	}
	defer files.close()

	r := &Reader{id: id}

	err = r.decode(files.contracts, files.storage)
	if err != nil {
		return nil, fmt.Errorf("read dump '%s': %w", id, err)
	}

	return r, nil
}

func (x *Reader) decode(contracts, storage io.Reader) error {
	var recs []contractRecord

	err := json.NewDecoder(contracts).Decode(&recs)
	if err != nil {
		return fmt.Errorf("decode contract states from JSON: %w", err)
	}

	index := make(map[string]int, len(recs))
	x.contracts = make([]contractDump, len(recs))
	for i := range recs {
		if _, ok := index[recs[i].Name]; ok {
			return fmt.Errorf("duplicated contract '%s'", recs[i].Name)
		}
		index[recs[i].Name] = i
		x.contracts[i].contractRecord = recs[i]
		x.contracts[i].items = make([]kv, 0, recs[i].Items)
	}

	r := csv.NewReader(storage)
	r.FieldsPerRecord = 3

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read next CSV record: %w", err)
		}

		i, ok := index[rec[0]]
		if !ok {
			return fmt.Errorf("storage item of unlisted contract '%s'", rec[0])
		}

		var item kv

		item.k, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		item.v, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.contracts[i].items = append(x.contracts[i].items, item)
	}

	for i := range x.contracts {
		if got, exp := len(x.contracts[i].items), x.contracts[i].Items; got != exp {
			return fmt.Errorf("contract '%s': %d storage items, %d declared", x.contracts[i].Name, got, exp)
		}
	}

	return nil
}

// IterateContracts passes names and hashes of the dumped contracts into f in
// the order they were dumped.
func (x *Reader) IterateContracts(f func(name string, hash util.Uint160)) {
	for i := range x.contracts {
		f(x.contracts[i].Name, x.contracts[i].Hash)
	}
}

// IterateContractStorages passes storage items of the dumped contracts into
// f, contract by contract.
func (x *Reader) IterateContractStorages(f func(name string, key, value []byte)) {
	for i := range x.contracts {
		for _, item := range x.contracts[i].items {
			f(x.contracts[i].Name, item.k, item.v)
		}
	}
}
