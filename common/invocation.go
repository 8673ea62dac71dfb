package common

import (
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Invocation is the environment of a single state-changing contract call
// provided by the host: the storage scope of the contract, the authenticated
// caller and the notification log.
type Invocation interface {
	Storage

	// Caller returns the identity the call is made on behalf of.
	Caller() util.Uint160

	// Notify emits a notification which becomes visible once the call
	// succeeds.
	Notify(name string, items ...stackitem.Item)
}

// AccountItem converts account into notification argument. The null account
// is represented by Null item as NEP-17 and NEP-11 require for mints and
// burns.
func AccountItem(u util.Uint160) stackitem.Item {
	if IsNull(u) {
		return stackitem.Null{}
	}
	return stackitem.NewByteArray(u.BytesBE())
}
