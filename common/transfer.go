package common

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Leg is a single movement of value between two balance keys.
//
// A leg with nil From credits To out of nothing (mint), a leg with nil To
// debits From into nothing (burn). In both cases the Supply key is adjusted
// by the same amount. Supply is ignored for plain transfers.
type Leg struct {
	From   []byte
	To     []byte
	Supply []byte
	Amount *uint256.Int
}

// Plan is a validated set of legs which can be written to storage. Plans are
// made by Prepare.
type Plan struct {
	s     Storage
	order []string
	post  map[string]*uint256.Int
}

// Prepare validates legs against the current storage state without writing
// anything. Legs are applied in order over an overlay, so the same key may
// appear in several legs of one batch. Source balances are always read from
// storage (or the overlay), never from values cached by the caller.
//
// Prepare fails with ErrInsufficientBalance when any debit exceeds the
// balance and with ErrOverflow when any credit would exceed 2^256-1. Errors
// of batches carry the index of the failed leg.
func Prepare(s Storage, legs ...Leg) (*Plan, error) {
	p := &Plan{
		s:    s,
		post: make(map[string]*uint256.Int, 2*len(legs)),
	}

	for i := range legs {
		err := p.apply(legs[i])
		if err != nil {
			if len(legs) > 1 {
				return nil, fmt.Errorf("leg #%d: %w", i, err)
			}
			return nil, err
		}
	}

	return p, nil
}

func (p *Plan) apply(l Leg) error {
	if l.Amount == nil {
		return ErrInvalidAmount
	}

	if l.From != nil {
		if err := p.sub(l.From, l.Amount); err != nil {
			return err
		}
	} else if l.Supply != nil {
		if err := p.add(l.Supply, l.Amount); err != nil {
			return fmt.Errorf("total supply: %w", err)
		}
	}

	if l.To != nil {
		if err := p.add(l.To, l.Amount); err != nil {
			return err
		}
	} else if l.Supply != nil {
		if err := p.sub(l.Supply, l.Amount); err != nil {
			return fmt.Errorf("total supply: %w", err)
		}
	}

	return nil
}

func (p *Plan) value(key []byte) *uint256.Int {
	if v, ok := p.post[string(key)]; ok {
		return v
	}

	v := GetInt(p.s, key)
	p.order = append(p.order, string(key))
	p.post[string(key)] = v

	return v
}

func (p *Plan) sub(key []byte, amount *uint256.Int) error {
	v := p.value(key)
	if v.Lt(amount) {
		return fmt.Errorf("%w: %s < %s", ErrInsufficientBalance, v.ToBig(), amount.ToBig())
	}

	v.Sub(v, amount)

	return nil
}

func (p *Plan) add(key []byte, amount *uint256.Int) error {
	v := p.value(key)

	// keep the stored value intact on failure
	sum, overflow := new(uint256.Int).AddOverflow(v, amount)
	if overflow {
		return ErrOverflow
	}

	v.Set(sum)

	return nil
}

// Post returns the value the key will have once the plan is committed. Keys
// not touched by the plan are read from storage.
func (p *Plan) Post(key []byte) *uint256.Int {
	if v, ok := p.post[string(key)]; ok {
		return v.Clone()
	}

	return GetInt(p.s, key)
}

// Commit writes every touched key in the order it was first touched.
func (p *Plan) Commit() {
	for _, k := range p.order {
		PutInt(p.s, []byte(k), p.post[k])
	}
}
