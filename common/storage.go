package common

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Reader is a read-only view of a contract storage scope. Absent keys read
// as nil.
type Reader interface {
	Get(key []byte) []byte
	// Find calls f for every item with the given key prefix in ascending key
	// order until f returns false. Passed slices must not be retained.
	Find(prefix []byte, f func(key, value []byte) bool)
}

// Storage is a writable contract storage scope.
type Storage interface {
	Reader
	Put(key, value []byte)
	Delete(key []byte)
}

// Key concatenates the prefix byte and parts into a storage key.
func Key(prefix byte, parts ...[]byte) []byte {
	n := 1
	for i := range parts {
		n += len(parts[i])
	}

	key := make([]byte, 1, n)
	key[0] = prefix
	for i := range parts {
		key = append(key, parts[i]...)
	}

	return key
}

// GetInt reads an unsigned integer stored with PutInt. Missing items are
// zero.
func GetInt(r Reader, key []byte) *uint256.Int {
	return DecodeInt(r.Get(key))
}

// DecodeInt decodes an unsigned integer from its storage representation,
// nil data is zero.
func DecodeInt(data []byte) *uint256.Int {
	if data == nil {
		return new(uint256.Int)
	}

	n := bigint.FromBytes(data)
	if n.Sign() < 0 {
		panic("negative integer in storage")
	}

	v, overflow := uint256.FromBig(n)
	if overflow {
		panic("integer in storage exceeds 256 bits")
	}

	return v
}

// PutInt stores v in the NeoVM integer encoding. Zero values are deleted so
// that maps stay sparse.
func PutInt(s Storage, key []byte, v *uint256.Int) {
	if v.IsZero() {
		s.Delete(key)
		return
	}

	s.Put(key, bigint.ToBytes(v.ToBig()))
}

// GetInt64 reads a small signed integer stored with PutInt64.
func GetInt64(r Reader, key []byte) int64 {
	data := r.Get(key)
	if data == nil {
		return 0
	}

	return bigint.FromBytes(data).Int64()
}

// PutInt64 stores a small signed integer such as a version number.
func PutInt64(s Storage, key []byte, v int64) {
	s.Put(key, bigint.ToBytes(big.NewInt(v)))
}

// GetUint160 reads an account stored with PutUint160. Missing or malformed
// items are the null account.
func GetUint160(r Reader, key []byte) util.Uint160 {
	data := r.Get(key)
	if data == nil {
		return util.Uint160{}
	}

	u, err := util.Uint160DecodeBytesBE(data)
	if err != nil {
		return util.Uint160{}
	}

	return u
}

// PutUint160 stores an account under the key.
func PutUint160(s Storage, key []byte, u util.Uint160) {
	s.Put(key, u.BytesBE())
}

// GetBool reports whether the flag under the key is set.
func GetBool(r Reader, key []byte) bool {
	data := r.Get(key)
	return len(data) != 0 && !bytes.Equal(data, []byte{0})
}

// PutBool sets or clears the flag under the key. Cleared flags are deleted.
func PutBool(s Storage, key []byte, v bool) {
	if !v {
		s.Delete(key)
		return
	}

	s.Put(key, []byte{1})
}

// IsNull reports whether the account is the null (zero) account.
func IsNull(u util.Uint160) bool {
	return u.Equals(util.Uint160{})
}

// SetSerialized serializes item and puts it into contract storage.
func SetSerialized(s Storage, key []byte, item stackitem.Item) {
	data, err := stackitem.Serialize(item)
	if err != nil {
		panic(fmt.Errorf("serialize storage item: %w", err))
	}

	s.Put(key, data)
}

// GetSerialized returns deserialized storage item, nil if missing.
func GetSerialized(r Reader, key []byte) stackitem.Item {
	data := r.Get(key)
	if data == nil {
		return nil
	}

	item, err := stackitem.Deserialize(data)
	if err != nil {
		panic(fmt.Errorf("deserialize storage item: %w", err))
	}

	return item
}
