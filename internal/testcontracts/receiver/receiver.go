// Package receiver provides a recording entity.Receiver for tests.
package receiver

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/ledger-contract/entity"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Call is a single acknowledgment request made to a contract account.
type Call struct {
	Operator util.Uint160
	From     util.Uint160
	To       util.Uint160
	TokenID  entity.TokenID
	Amount   *uint256.Int
	Data     []byte
}

// Receiver treats registered accounts as contracts. Such accounts accept
// incoming transfers only when configured so, all other accounts always
// accept.
type Receiver struct {
	mu        sync.Mutex
	contracts map[util.Uint160]bool
	calls     []Call
}

// New returns Receiver without contract accounts.
func New() *Receiver {
	return &Receiver{contracts: make(map[util.Uint160]bool)}
}

// SetContract registers the account as a contract accepting or declining
// incoming transfers.
func (r *Receiver) SetContract(account util.Uint160, accept bool) {
	r.mu.Lock()
	r.contracts[account] = accept
	r.mu.Unlock()
}

// TryNotifyReceiver implements entity.Receiver.
func (r *Receiver) TryNotifyReceiver(operator, from, to util.Uint160, id entity.TokenID, amount *uint256.Int, data []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	accept, ok := r.contracts[to]
	if !ok {
		return true
	}

	r.calls = append(r.calls, Call{
		Operator: operator,
		From:     from,
		To:       to,
		TokenID:  id,
		Amount:   amount.Clone(),
		Data:     data,
	})

	return accept
}

// Calls returns requests made to contract accounts so far.
func (r *Receiver) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}
