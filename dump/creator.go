package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Creator dumps states of the ledger contracts. Output file format:
//
//	'<label>-<version>-contracts.json': JSON array of dumped contracts
//	'<label>-<version>-storage.csv': CSV of contracts' storages
//
// Storage CSV are 'name,key,value' where name stands for contract name and
// binary key-value are base64-encoded.
//
// Use IterateDumps or Find to access existing dumps.
type Creator struct {
	files *dumpFiles

	contracts []*contractRecord

	csv *csv.Writer
}

// NewCreator returns Creator which dumps contracts into given directory. The
// dump is identified by specified ID. Resulting Creator should be closed when
// finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	files, err := createDumpFiles(dir, id)
	if err != nil {
		return nil, err
	}

	return &Creator{
		files: files,
		csv:   csv.NewWriter(files.storage),
	}, nil
}

// AddContract adds the named contract to the resulting dump and returns
// StorageWriter for the contract storage. After all needed contracts are
// added, they should be flushed via Flush method.
func (x *Creator) AddContract(name string, hash util.Uint160) *StorageWriter {
	rec := &contractRecord{Name: name, Hash: hash}
	x.contracts = append(x.contracts, rec)

	return &StorageWriter{
		rec: rec,
		csv: x.csv,
	}
}

// Flush flushes accumulated dump to the file system.
func (x *Creator) Flush() error {
	x.csv.Flush()

	err := x.csv.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	enc := json.NewEncoder(x.files.contracts)
	enc.SetIndent("", " ")

	err = enc.Encode(x.contracts)
	if err != nil {
		return fmt.Errorf("encode contract states to JSON: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.files.close()
}

// StorageWriter writes data into the superior contract's storage dump.
type StorageWriter struct {
	rec *contractRecord
	csv *csv.Writer
}

// Write saves given binary key-value into the contract dump as storage item.
func (x *StorageWriter) Write(key, value []byte) error {
	err := x.csv.Write([]string{
		x.rec.Name,
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	x.rec.Items++

	return nil
}
