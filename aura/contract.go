package aura

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/ledger-contract/ownership"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Prefixes used for contract data storage.
const (
	// prefixOwner contains the contract owner.
	prefixOwner byte = 0x00
	// prefixTotalSupply contains the total supply of the token.
	prefixTotalSupply byte = 0x01
	// prefixBalance contains map from the account to its balance.
	prefixBalance byte = 0x02
	// prefixAllowance contains map from (owner + spender) to the allowance.
	prefixAllowance byte = 0x03
	// prefixPaused is set while the token is paused.
	prefixPaused byte = 0x04
	// prefixVersion contains the version the state was written with.
	prefixVersion byte = 0x05
)

// Notification names.
const (
	EventTransfer = "Transfer"
	EventApproval = "Approval"
	EventPaused   = "Paused"
	EventUnpaused = "Unpaused"
)

// Default token parameters.
const (
	DefaultSymbol   = "AURA"
	DefaultDecimals = 8
)

// Token is the Aura ledger. Token itself is stateless: all the data lives in
// the contract storage passed to its methods.
type Token struct {
	symbol   string
	decimals int
	guard    ownership.Guard
}

// New returns Token with the given NEP-17 symbol and decimals.
func New(symbol string, decimals int) *Token {
	return &Token{
		symbol:   symbol,
		decimals: decimals,
		guard:    ownership.New([]byte{prefixOwner}),
	}
}

// Deploy instantiates the contract: the caller becomes the owner and the
// total supply is zero.
func (t *Token) Deploy(ic common.Invocation) error {
	if ic.Get([]byte{prefixVersion}) != nil {
		return common.ErrAlreadyDeployed
	}

	err := t.guard.Init(ic)
	if err != nil {
		return err
	}

	common.PutInt64(ic, []byte{prefixVersion}, common.Version)

	return nil
}

// Open checks that persisted state is initialized and can be served by this
// version of the contract.
func (t *Token) Open(r common.Reader) error {
	return common.CheckVersion(common.GetInt64(r, []byte{prefixVersion}))
}

// Version returns the version of the contract.
func (t *Token) Version() int {
	return common.Version
}

// Symbol is a NEP-17 standard method that returns the token symbol.
func (t *Token) Symbol() string {
	return t.symbol
}

// Decimals is a NEP-17 standard method that returns precision of balances.
func (t *Token) Decimals() int {
	return t.decimals
}

// Owner returns the contract owner.
func (t *Token) Owner(r common.Reader) util.Uint160 {
	return t.guard.Owner(r)
}

// TransferOwnership passes contract ownership to newOwner. Can be invoked only
// by the current owner.
//
// Produces OwnershipTransferred notification.
func (t *Token) TransferOwnership(ic common.Invocation, newOwner util.Uint160) error {
	return t.guard.TransferOwnership(ic, newOwner)
}

// TotalSupply is a NEP-17 standard method that returns the amount of tokens
// in circulation.
func (t *Token) TotalSupply(r common.Reader) *uint256.Int {
	return common.GetInt(r, []byte{prefixTotalSupply})
}

// BalanceOf is a NEP-17 standard method that returns the balance of the
// account, zero for unknown accounts.
func (t *Token) BalanceOf(r common.Reader, account util.Uint160) *uint256.Int {
	return common.GetInt(r, balanceKey(account))
}

// Allowance returns the amount spender may still move out of the owner
// balance.
func (t *Token) Allowance(r common.Reader, owner, spender util.Uint160) *uint256.Int {
	return common.GetInt(r, allowanceKey(owner, spender))
}

// Paused reports whether value movement is stopped by the owner.
func (t *Token) Paused(r common.Reader) bool {
	return common.GetBool(r, []byte{prefixPaused})
}

// Balances calls f for each account with non-zero balance until f returns
// false.
func (t *Token) Balances(r common.Reader, f func(account util.Uint160, balance *uint256.Int) bool) {
	r.Find([]byte{prefixBalance}, func(k, v []byte) bool {
		acc, err := util.Uint160DecodeBytesBE(k[1:])
		if err != nil {
			return true
		}
		return f(acc, common.DecodeInt(v))
	})
}

// Transfer is a NEP-17 standard method that moves amount from the caller to
// the given account. Transfers to self are validated and notified but don't
// change balances.
//
// Produces Transfer notification.
func (t *Token) Transfer(ic common.Invocation, to util.Uint160, amount *uint256.Int) error {
	from := ic.Caller()

	err := t.checkTransfer(ic, from, to)
	if err != nil {
		return err
	}

	p, err := common.Prepare(ic, common.Leg{
		From:   balanceKey(from),
		To:     balanceKey(to),
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("can't transfer assets: %w", err)
	}

	p.Commit()
	notifyTransfer(ic, from, to, amount)

	return nil
}

// Approve sets the allowance of spender over the caller balance to amount.
// The previous allowance is replaced, not increased.
//
// Produces Approval notification.
func (t *Token) Approve(ic common.Invocation, spender util.Uint160, amount *uint256.Int) error {
	owner := ic.Caller()

	if common.IsNull(owner) || common.IsNull(spender) {
		return fmt.Errorf("%w: approval requires both owner and spender", common.ErrInvalidAccount)
	}

	if amount == nil {
		return common.ErrInvalidAmount
	}

	common.PutInt(ic, allowanceKey(owner, spender), amount)
	ic.Notify(EventApproval, common.AccountItem(owner), common.AccountItem(spender), amountItem(amount))

	return nil
}

// TransferFrom moves amount from one account to another on behalf of the
// caller using the allowance given by from. Allowance and balance are both
// checked before anything is written.
//
// Produces Transfer notification.
func (t *Token) TransferFrom(ic common.Invocation, from, to util.Uint160, amount *uint256.Int) error {
	spender := ic.Caller()

	err := t.checkTransfer(ic, from, to)
	if err != nil {
		return err
	}

	if amount == nil {
		return common.ErrInvalidAmount
	}

	allowance := common.GetInt(ic, allowanceKey(from, spender))
	if allowance.Lt(amount) {
		return fmt.Errorf("%w: %s < %s", common.ErrInsufficientAllowance, allowance.ToBig(), amount.ToBig())
	}

	p, err := common.Prepare(ic, common.Leg{
		From:   balanceKey(from),
		To:     balanceKey(to),
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("can't transfer assets: %w", err)
	}

	common.PutInt(ic, allowanceKey(from, spender), allowance.Sub(allowance, amount))
	p.Commit()
	notifyTransfer(ic, from, to, amount)

	return nil
}

// Mint creates amount of new tokens on the given account. Can be invoked only
// by the owner.
//
// Produces Transfer notification with null from.
func (t *Token) Mint(ic common.Invocation, to util.Uint160, amount *uint256.Int) error {
	err := t.guard.RequireOwner(ic, ic.Caller())
	if err != nil {
		return err
	}

	if t.Paused(ic) {
		return common.ErrPaused
	}

	if common.IsNull(to) {
		return fmt.Errorf("%w: null receiver", common.ErrInvalidAccount)
	}

	p, err := common.Prepare(ic, common.Leg{
		To:     balanceKey(to),
		Supply: []byte{prefixTotalSupply},
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("can't mint assets: %w", err)
	}

	p.Commit()
	notifyTransfer(ic, util.Uint160{}, to, amount)

	return nil
}

// Burn destroys amount of tokens of the caller.
//
// Produces Transfer notification with null to.
func (t *Token) Burn(ic common.Invocation, amount *uint256.Int) error {
	from := ic.Caller()

	if t.Paused(ic) {
		return common.ErrPaused
	}

	if common.IsNull(from) {
		return fmt.Errorf("%w: null owner", common.ErrInvalidAccount)
	}

	p, err := common.Prepare(ic, common.Leg{
		From:   balanceKey(from),
		Supply: []byte{prefixTotalSupply},
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("can't burn assets: %w", err)
	}

	p.Commit()
	notifyTransfer(ic, from, util.Uint160{}, amount)

	return nil
}

// Pause stops transfers, mints and burns until Unpause. Can be invoked only by
// the owner.
//
// Produces Paused notification.
func (t *Token) Pause(ic common.Invocation) error {
	return t.setPaused(ic, true, EventPaused)
}

// Unpause resumes value movement stopped by Pause. Can be invoked only by the
// owner.
//
// Produces Unpaused notification.
func (t *Token) Unpause(ic common.Invocation) error {
	return t.setPaused(ic, false, EventUnpaused)
}

func (t *Token) setPaused(ic common.Invocation, paused bool, event string) error {
	caller := ic.Caller()

	err := t.guard.RequireOwner(ic, caller)
	if err != nil {
		return err
	}

	common.PutBool(ic, []byte{prefixPaused}, paused)
	ic.Notify(event, common.AccountItem(caller))

	return nil
}

func (t *Token) checkTransfer(r common.Reader, from, to util.Uint160) error {
	if t.Paused(r) {
		return common.ErrPaused
	}

	if common.IsNull(from) || common.IsNull(to) {
		return fmt.Errorf("%w: bad script hashes", common.ErrInvalidAccount)
	}

	return nil
}

func notifyTransfer(ic common.Invocation, from, to util.Uint160, amount *uint256.Int) {
	ic.Notify(EventTransfer, common.AccountItem(from), common.AccountItem(to), amountItem(amount))
}

func amountItem(amount *uint256.Int) stackitem.Item {
	return stackitem.NewBigInteger(amount.ToBig())
}

func balanceKey(account util.Uint160) []byte {
	return common.Key(prefixBalance, account.BytesBE())
}

func allowanceKey(owner, spender util.Uint160) []byte {
	return common.Key(prefixAllowance, owner.BytesBE(), spender.BytesBE())
}
