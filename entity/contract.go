package entity

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

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
	// prefixTotalSupply contains map from token ID to its total supply.
	prefixTotalSupply byte = 0x01
	// prefixBalance contains map from (account + token ID) to the balance.
	prefixBalance byte = 0x02
	// prefixOperator contains set of (account + operator) approvals.
	prefixOperator byte = 0x03
	// prefixToken contains map from token ID to serialized token state, it
	// also marks the token ID as known.
	prefixToken byte = 0x04
	// prefixVersion contains the version the state was written with.
	prefixVersion byte = 0x05
)

// Notification names.
const (
	EventTransferSingle = "TransferSingle"
	EventTransferBatch  = "TransferBatch"
	EventApprovalForAll = "ApprovalForAll"
	EventURI            = "URI"
)

// ErrUnknownToken is returned for operations requiring a created token ID.
var ErrUnknownToken = errors.New("unknown token")

// TokenID identifies a token class.
type TokenID uint64

func (id TokenID) bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func (id TokenID) item() stackitem.Item {
	return stackitem.NewBigInteger(new(big.Int).SetUint64(uint64(id)))
}

// Receiver acknowledges incoming transfers. It is consulted for every
// transfer after validation and before storage is written; the host reports
// true for accounts that are not contracts and asks receiving contracts
// otherwise. False (including a failed call) rejects the transfer.
type Receiver interface {
	TryNotifyReceiver(operator, from, to util.Uint160, id TokenID, amount *uint256.Int, data []byte) bool
}

// ReceiverFunc is a function adapter for Receiver.
type ReceiverFunc func(operator, from, to util.Uint160, id TokenID, amount *uint256.Int, data []byte) bool

// TryNotifyReceiver calls f.
func (f ReceiverFunc) TryNotifyReceiver(operator, from, to util.Uint160, id TokenID, amount *uint256.Int, data []byte) bool {
	return f(operator, from, to, id, amount, data)
}

// AcceptAll is a Receiver of environments without contract accounts.
var AcceptAll Receiver = ReceiverFunc(func(util.Uint160, util.Uint160, util.Uint160, TokenID, *uint256.Int, []byte) bool {
	return true
})

// tokenState is a stored state of a known token ID.
type tokenState struct {
	URI string
}

// ToStackItem implements stackitem.Convertible.
func (s *tokenState) ToStackItem() (stackitem.Item, error) {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte(s.URI)),
	}), nil
}

// FromStackItem implements stackitem.Convertible.
func (s *tokenState) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok || len(arr) != 1 {
		return errors.New("invalid token state")
	}

	uri, err := arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field URI: %w", err)
	}

	s.URI = string(uri)

	return nil
}

// Registry is the Entity ledger. Registry itself holds no ledger data: all of
// it lives in the contract storage passed to its methods.
type Registry struct {
	guard    ownership.Guard
	receiver Receiver
}

// New returns Registry acknowledging transfers with the given receiver. Nil
// receiver accepts every transfer.
func New(receiver Receiver) *Registry {
	if receiver == nil {
		receiver = AcceptAll
	}

	return &Registry{
		guard:    ownership.New([]byte{prefixOwner}),
		receiver: receiver,
	}
}

// Deploy instantiates the contract making the caller its owner.
func (r *Registry) Deploy(ic common.Invocation) error {
	if ic.Get([]byte{prefixVersion}) != nil {
		return common.ErrAlreadyDeployed
	}

	err := r.guard.Init(ic)
	if err != nil {
		return err
	}

	common.PutInt64(ic, []byte{prefixVersion}, common.Version)

	return nil
}

// Open checks that persisted state is initialized and can be served by this
// version of the contract.
func (r *Registry) Open(s common.Reader) error {
	return common.CheckVersion(common.GetInt64(s, []byte{prefixVersion}))
}

// Version returns the version of the contract.
func (r *Registry) Version() int {
	return common.Version
}

// Owner returns the contract owner.
func (r *Registry) Owner(s common.Reader) util.Uint160 {
	return r.guard.Owner(s)
}

// TransferOwnership passes contract ownership to newOwner. Can be invoked only
// by the current owner.
//
// Produces OwnershipTransferred notification.
func (r *Registry) TransferOwnership(ic common.Invocation, newOwner util.Uint160) error {
	return r.guard.TransferOwnership(ic, newOwner)
}

// TotalSupply returns the amount of tokens with the given ID in circulation.
func (r *Registry) TotalSupply(s common.Reader, id TokenID) *uint256.Int {
	return common.GetInt(s, supplyKey(id))
}

// Exists reports whether the token ID was created.
func (r *Registry) Exists(s common.Reader, id TokenID) bool {
	return s.Get(tokenKey(id)) != nil
}

// URI returns metadata URI of the token ID, empty if not set.
func (r *Registry) URI(s common.Reader, id TokenID) string {
	st, ok := getTokenState(s, id)
	if !ok {
		return ""
	}
	return st.URI
}

// BalanceOf returns the balance of the account in the given token, zero for
// unknown pairs.
func (r *Registry) BalanceOf(s common.Reader, account util.Uint160, id TokenID) *uint256.Int {
	return common.GetInt(s, balanceKey(account, id))
}

// BalanceOfBatch returns balances of accounts[i] in ids[i].
func (r *Registry) BalanceOfBatch(s common.Reader, accounts []util.Uint160, ids []TokenID) ([]*uint256.Int, error) {
	if len(accounts) != len(ids) {
		return nil, fmt.Errorf("%w: %d accounts, %d ids", common.ErrLengthMismatch, len(accounts), len(ids))
	}

	res := make([]*uint256.Int, len(ids))
	for i := range ids {
		res[i] = r.BalanceOf(s, accounts[i], ids[i])
	}

	return res, nil
}

// TokensOf calls f for every token the account holds until f returns false.
func (r *Registry) TokensOf(s common.Reader, account util.Uint160, f func(id TokenID, balance *uint256.Int) bool) {
	prefix := common.Key(prefixBalance, account.BytesBE())

	s.Find(prefix, func(k, v []byte) bool {
		if len(k) != len(prefix)+8 {
			return true
		}
		return f(TokenID(binary.BigEndian.Uint64(k[len(prefix):])), common.DecodeInt(v))
	})
}

// IsApprovedForAll reports whether operator may move any token of the account.
func (r *Registry) IsApprovedForAll(s common.Reader, account, operator util.Uint160) bool {
	return common.GetBool(s, operatorKey(account, operator))
}

// SetApprovalForAll grants or revokes the right of operator to move any token
// of the caller. An account can't approve itself.
//
// Produces ApprovalForAll notification.
func (r *Registry) SetApprovalForAll(ic common.Invocation, operator util.Uint160, approved bool) error {
	owner := ic.Caller()

	if common.IsNull(operator) || operator.Equals(owner) {
		return fmt.Errorf("%w: invalid operator", common.ErrInvalidAccount)
	}

	common.PutBool(ic, operatorKey(owner, operator), approved)
	ic.Notify(EventApprovalForAll, common.AccountItem(owner), common.AccountItem(operator), stackitem.NewBool(approved))

	return nil
}

// SafeTransferFrom moves amount of the token from one account to another. The
// caller must be the sender or its approved operator. The receiver must
// acknowledge the transfer.
//
// Produces TransferSingle notification.
func (r *Registry) SafeTransferFrom(ic common.Invocation, from, to util.Uint160, id TokenID, amount *uint256.Int, data []byte) error {
	operator := ic.Caller()

	err := r.checkTransfer(ic, operator, from, to)
	if err != nil {
		return err
	}

	p, err := common.Prepare(ic, common.Leg{
		From:   balanceKey(from, id),
		To:     balanceKey(to, id),
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("can't transfer token %d: %w", id, err)
	}

	if !r.receiver.TryNotifyReceiver(operator, from, to, id, amount, data) {
		return fmt.Errorf("%w: token %d", common.ErrTransferRejected, id)
	}

	p.Commit()
	ic.Notify(EventTransferSingle,
		common.AccountItem(operator), common.AccountItem(from), common.AccountItem(to),
		id.item(), amountItem(amount))

	return nil
}

// SafeBatchTransferFrom moves amounts[i] of ids[i] from one account to
// another. Either every leg is applied or none.
//
// Produces TransferBatch notification.
func (r *Registry) SafeBatchTransferFrom(ic common.Invocation, from, to util.Uint160, ids []TokenID, amounts []*uint256.Int, data []byte) error {
	if len(ids) != len(amounts) {
		return fmt.Errorf("%w: %d ids, %d amounts", common.ErrLengthMismatch, len(ids), len(amounts))
	}

	operator := ic.Caller()

	err := r.checkTransfer(ic, operator, from, to)
	if err != nil {
		return err
	}

	legs := make([]common.Leg, len(ids))
	for i := range ids {
		legs[i] = common.Leg{
			From:   balanceKey(from, ids[i]),
			To:     balanceKey(to, ids[i]),
			Amount: amounts[i],
		}
	}

	p, err := common.Prepare(ic, legs...)
	if err != nil {
		return fmt.Errorf("can't transfer tokens: %w", err)
	}

	for i := range ids {
		if !r.receiver.TryNotifyReceiver(operator, from, to, ids[i], amounts[i], data) {
			return fmt.Errorf("%w: token %d", common.ErrTransferRejected, ids[i])
		}
	}

	p.Commit()
	notifyBatch(ic, operator, from, to, ids, amounts)

	return nil
}

// Create registers a new token ID with the given metadata URI. Can be invoked
// only by the owner.
//
// Produces URI notification.
func (r *Registry) Create(ic common.Invocation, id TokenID, uri string) error {
	err := r.guard.RequireOwner(ic, ic.Caller())
	if err != nil {
		return err
	}

	if r.Exists(ic, id) {
		return fmt.Errorf("%w: %d", common.ErrTokenExists, id)
	}

	putTokenState(ic, id, tokenState{URI: uri})
	ic.Notify(EventURI, stackitem.NewByteArray([]byte(uri)), id.item())

	return nil
}

// SetURI changes metadata URI of the created token ID. Can be invoked only by
// the owner.
//
// Produces URI notification.
func (r *Registry) SetURI(ic common.Invocation, id TokenID, uri string) error {
	err := r.guard.RequireOwner(ic, ic.Caller())
	if err != nil {
		return err
	}

	if !r.Exists(ic, id) {
		return fmt.Errorf("%w: %d", ErrUnknownToken, id)
	}

	putTokenState(ic, id, tokenState{URI: uri})
	ic.Notify(EventURI, stackitem.NewByteArray([]byte(uri)), id.item())

	return nil
}

// Mint creates amount of new tokens with the given ID on the account, the
// token ID is created on the first mint. Can be invoked only by the owner.
//
// Produces TransferSingle notification with null from.
func (r *Registry) Mint(ic common.Invocation, to util.Uint160, id TokenID, amount *uint256.Int) error {
	operator, err := r.mint(ic, to, []TokenID{id}, []*uint256.Int{amount})
	if err != nil {
		return err
	}

	ic.Notify(EventTransferSingle,
		common.AccountItem(operator), common.AccountItem(util.Uint160{}), common.AccountItem(to),
		id.item(), amountItem(amount))

	return nil
}

// MintBatch mints amounts[i] of ids[i] on the account atomically. Can be
// invoked only by the owner.
//
// Produces TransferBatch notification with null from.
func (r *Registry) MintBatch(ic common.Invocation, to util.Uint160, ids []TokenID, amounts []*uint256.Int) error {
	operator, err := r.mint(ic, to, ids, amounts)
	if err != nil {
		return err
	}

	notifyBatch(ic, operator, util.Uint160{}, to, ids, amounts)

	return nil
}

// Burn destroys amount of the caller's tokens with the given ID.
//
// Produces TransferSingle notification with null to.
func (r *Registry) Burn(ic common.Invocation, id TokenID, amount *uint256.Int) error {
	from, err := r.burn(ic, []TokenID{id}, []*uint256.Int{amount})
	if err != nil {
		return err
	}

	ic.Notify(EventTransferSingle,
		common.AccountItem(from), common.AccountItem(from), common.AccountItem(util.Uint160{}),
		id.item(), amountItem(amount))

	return nil
}

// BurnBatch destroys amounts[i] of the caller's ids[i] atomically.
//
// Produces TransferBatch notification with null to.
func (r *Registry) BurnBatch(ic common.Invocation, ids []TokenID, amounts []*uint256.Int) error {
	from, err := r.burn(ic, ids, amounts)
	if err != nil {
		return err
	}

	notifyBatch(ic, from, from, util.Uint160{}, ids, amounts)

	return nil
}

func (r *Registry) mint(ic common.Invocation, to util.Uint160, ids []TokenID, amounts []*uint256.Int) (util.Uint160, error) {
	operator := ic.Caller()

	err := r.guard.RequireOwner(ic, operator)
	if err != nil {
		return operator, err
	}

	if len(ids) != len(amounts) {
		return operator, fmt.Errorf("%w: %d ids, %d amounts", common.ErrLengthMismatch, len(ids), len(amounts))
	}

	if common.IsNull(to) {
		return operator, fmt.Errorf("%w: null receiver", common.ErrInvalidAccount)
	}

	legs := make([]common.Leg, len(ids))
	for i := range ids {
		legs[i] = common.Leg{
			To:     balanceKey(to, ids[i]),
			Supply: supplyKey(ids[i]),
			Amount: amounts[i],
		}
	}

	p, err := common.Prepare(ic, legs...)
	if err != nil {
		return operator, fmt.Errorf("can't mint tokens: %w", err)
	}

	for i := range ids {
		if !r.Exists(ic, ids[i]) {
			putTokenState(ic, ids[i], tokenState{})
		}
	}

	p.Commit()

	return operator, nil
}

func (r *Registry) burn(ic common.Invocation, ids []TokenID, amounts []*uint256.Int) (util.Uint160, error) {
	from := ic.Caller()

	if len(ids) != len(amounts) {
		return from, fmt.Errorf("%w: %d ids, %d amounts", common.ErrLengthMismatch, len(ids), len(amounts))
	}

	if common.IsNull(from) {
		return from, fmt.Errorf("%w: null owner", common.ErrInvalidAccount)
	}

	legs := make([]common.Leg, len(ids))
	for i := range ids {
		legs[i] = common.Leg{
			From:   balanceKey(from, ids[i]),
			Supply: supplyKey(ids[i]),
			Amount: amounts[i],
		}
	}

	p, err := common.Prepare(ic, legs...)
	if err != nil {
		return from, fmt.Errorf("can't burn tokens: %w", err)
	}

	p.Commit()

	return from, nil
}

func (r *Registry) checkTransfer(s common.Reader, operator, from, to util.Uint160) error {
	if !operator.Equals(from) && !r.IsApprovedForAll(s, from, operator) {
		return fmt.Errorf("%w: caller is neither owner nor approved operator", common.ErrUnauthorized)
	}

	if common.IsNull(from) || common.IsNull(to) {
		return fmt.Errorf("%w: bad script hashes", common.ErrInvalidAccount)
	}

	return nil
}

func notifyBatch(ic common.Invocation, operator, from, to util.Uint160, ids []TokenID, amounts []*uint256.Int) {
	idItems := make([]stackitem.Item, len(ids))
	amountItems := make([]stackitem.Item, len(amounts))

	for i := range ids {
		idItems[i] = ids[i].item()
		amountItems[i] = amountItem(amounts[i])
	}

	ic.Notify(EventTransferBatch,
		common.AccountItem(operator), common.AccountItem(from), common.AccountItem(to),
		stackitem.NewArray(idItems), stackitem.NewArray(amountItems))
}

func amountItem(amount *uint256.Int) stackitem.Item {
	return stackitem.NewBigInteger(amount.ToBig())
}

func getTokenState(s common.Reader, id TokenID) (tokenState, bool) {
	var st tokenState

	item := common.GetSerialized(s, tokenKey(id))
	if item == nil {
		return st, false
	}

	err := st.FromStackItem(item)
	if err != nil {
		panic(fmt.Errorf("token %d: %w", id, err))
	}

	return st, true
}

func putTokenState(s common.Storage, id TokenID, st tokenState) {
	item, _ := st.ToStackItem()
	common.SetSerialized(s, tokenKey(id), item)
}

func supplyKey(id TokenID) []byte {
	return common.Key(prefixTotalSupply, id.bytes())
}

func balanceKey(account util.Uint160, id TokenID) []byte {
	return common.Key(prefixBalance, account.BytesBE(), id.bytes())
}

func operatorKey(account, operator util.Uint160) []byte {
	return common.Key(prefixOperator, account.BytesBE(), operator.BytesBE())
}

func tokenKey(id TokenID) []byte {
	return common.Key(prefixToken, id.bytes())
}
