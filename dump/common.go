package dump

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrNotFound is returned when the directory holds no dump with the requested
// label.
var ErrNotFound = errors.New("dump not found")

// ID is a unique identifier of the dump prepared according to the model
// described in the current package.
type ID struct {
	// Label of the dump source (e.g. node name, backend).
	Label string
	// Version of the ledger contracts which wrote the state.
	Version uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Version), 10)
}

// Check returns an error if state written by the ID version can't be served
// by the current ledger code.
func (x ID) Check() error {
	if err := common.CheckVersion(int64(x.Version)); err != nil {
		return fmt.Errorf("dump '%s': %w", x, err)
	}
	return nil
}

func (x ID) path(dir, suffix string) string {
	return filepath.Join(dir, x.String()+sep+suffix)
}

// parseID decodes ID from the name of the dump contracts file. Labels may
// contain separators, the version is always the last but one word.
func parseID(fileName string) (ID, error) {
	base, ok := strings.CutSuffix(fileName, sep+contractsFileSuffix)
	if !ok {
		return ID{}, fmt.Errorf("missing '%s' suffix", contractsFileSuffix)
	}

	i := strings.LastIndex(base, sep)
	if i <= 0 {
		return ID{}, fmt.Errorf("expected '<label>%s<version>' prefix", sep)
	}

	n, err := strconv.ParseUint(base[i+1:], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("decode version from '%s': %w", base[i+1:], err)
	}

	return ID{Label: base[:i], Version: uint32(n)}, nil
}

const (
	sep                 = "-"
	contractsFileSuffix = "contracts.json"
	storageFileSuffix   = "storage.csv"
)

// binary keys and values are stored as base64 text.
var _encoding = base64.StdEncoding

// contractRecord is a JSON-encoded information about the dumped ledger.
// Items counts storage records of the ledger and is verified on read.
type contractRecord struct {
	Name  string       `json:"name"`
	Hash  util.Uint160 `json:"hash"`
	Items int          `json:"items"`
}

// dumpFiles groups files of a single dump.
type dumpFiles struct {
	contracts, storage *os.File
}

func (x *dumpFiles) close() {
	_ = x.storage.Close()
	_ = x.contracts.Close()
}

// createDumpFiles creates both files of the dump. Existing dumps are never
// overwritten.
func createDumpFiles(dir string, id ID) (*dumpFiles, error) {
	var (
		res dumpFiles
		err error
	)

	res.storage, err = os.OpenFile(id.path(dir, storageFileSuffix), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("create storage file: %w", err)
	}

	res.contracts, err = os.OpenFile(id.path(dir, contractsFileSuffix), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		_ = res.storage.Close()
		_ = os.Remove(res.storage.Name())
		return nil, fmt.Errorf("create contracts file: %w", err)
	}

	return &res, nil
}

func openDumpFiles(dir string, id ID) (*dumpFiles, error) {
	var (
		res dumpFiles
		err error
	)

	res.storage, err = os.Open(id.path(dir, storageFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}

	res.contracts, err = os.Open(id.path(dir, contractsFileSuffix))
	if err != nil {
		_ = res.storage.Close()
		return nil, fmt.Errorf("open contracts file: %w", err)
	}

	return &res, nil
}
