/*
Package ownership provides the owner guard of administrative ledger
operations.

A single privileged account (the owner) is stored in the contract storage.
Ledgers embed Guard by composition and call RequireOwner at the top of every
administrative entry point.
*/
package ownership

import (
	"fmt"

	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// EventOwnershipTransferred is the name of the notification produced by
// TransferOwnership.
const EventOwnershipTransferred = "OwnershipTransferred"

// Guard gates operations by the owner stored under Key.
type Guard struct {
	Key []byte
}

// New returns Guard storing the owner under the given key.
func New(key []byte) Guard {
	return Guard{Key: key}
}

// Owner returns the current owner, null if the guard was never initialized.
func (g Guard) Owner(r common.Reader) util.Uint160 {
	return common.GetUint160(r, g.Key)
}

// Init makes the caller of the instantiating invocation the owner.
func (g Guard) Init(ic common.Invocation) error {
	caller := ic.Caller()
	if common.IsNull(caller) {
		return fmt.Errorf("%w: null owner", common.ErrInvalidAccount)
	}

	common.PutUint160(ic, g.Key, caller)

	return nil
}

// RequireOwner returns ErrUnauthorized if caller isn't the current owner.
func (g Guard) RequireOwner(r common.Reader, caller util.Uint160) error {
	owner := g.Owner(r)
	if common.IsNull(owner) || !owner.Equals(caller) {
		return fmt.Errorf("%w: owner witness check failed", common.ErrUnauthorized)
	}

	return nil
}

// TransferOwnership replaces the owner with newOwner. Only the current owner
// can do this.
//
// Produces OwnershipTransferred notification.
func (g Guard) TransferOwnership(ic common.Invocation, newOwner util.Uint160) error {
	caller := ic.Caller()

	err := g.RequireOwner(ic, caller)
	if err != nil {
		return err
	}

	if common.IsNull(newOwner) {
		return fmt.Errorf("%w: null new owner", common.ErrInvalidAccount)
	}

	common.PutUint160(ic, g.Key, newOwner)
	ic.Notify(EventOwnershipTransferred, common.AccountItem(caller), common.AccountItem(newOwner))

	return nil
}
