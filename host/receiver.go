package host

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/ledger-contract/entity"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Receivers acknowledges entity transfers on behalf of the accounts of the
// environment. Accounts registered as contracts are asked through their
// acknowledgment handler, contracts without one decline every incoming
// transfer. All other accounts accept.
type Receivers struct {
	log *zap.Logger

	mu       sync.RWMutex
	handlers map[util.Uint160]entity.Receiver
}

// NewReceivers returns Receivers treating the given accounts as contracts
// without acknowledgment handlers.
func NewReceivers(log *zap.Logger, contracts ...util.Uint160) *Receivers {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Receivers{
		log:      log,
		handlers: make(map[util.Uint160]entity.Receiver, len(contracts)),
	}

	for i := range contracts {
		r.handlers[contracts[i]] = nil
	}

	return r
}

// Register marks the account as a contract acknowledging incoming transfers
// with h. Nil h makes the contract decline them.
func (r *Receivers) Register(contract util.Uint160, h entity.Receiver) {
	r.mu.Lock()
	r.handlers[contract] = h
	r.mu.Unlock()
}

// IsContract checks whether the account is registered as a contract.
func (r *Receivers) IsContract(account util.Uint160) bool {
	r.mu.RLock()
	_, ok := r.handlers[account]
	r.mu.RUnlock()

	return ok
}

// TryNotifyReceiver implements entity.Receiver.
func (r *Receivers) TryNotifyReceiver(operator, from, to util.Uint160, id entity.TokenID, amount *uint256.Int, data []byte) bool {
	r.mu.RLock()
	h, ok := r.handlers[to]
	r.mu.RUnlock()

	if !ok {
		return true
	}

	if h == nil {
		r.log.Debug("contract can't receive tokens",
			zap.Stringer("contract", to), zap.Uint64("token", uint64(id)))
		return false
	}

	accepted := h.TryNotifyReceiver(operator, from, to, id, amount, data)
	if !accepted {
		r.log.Debug("contract declined tokens",
			zap.Stringer("contract", to), zap.Uint64("token", uint64(id)))
	}

	return accepted
}
