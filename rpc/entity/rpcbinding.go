// Package entity contains notification bindings of the Entity ledger contract.
package entity

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// TransferSingleEvent represents "TransferSingle" event emitted by the contract.
type TransferSingleEvent struct {
	Operator util.Uint160
	From     util.Uint160
	To       util.Uint160
	ID       *big.Int
	Amount   *big.Int
}

// TransferBatchEvent represents "TransferBatch" event emitted by the contract.
type TransferBatchEvent struct {
	Operator util.Uint160
	From     util.Uint160
	To       util.Uint160
	IDs      []*big.Int
	Amounts  []*big.Int
}

// ApprovalForAllEvent represents "ApprovalForAll" event emitted by the contract.
type ApprovalForAllEvent struct {
	Owner    util.Uint160
	Operator util.Uint160
	Approved bool
}

// URIEvent represents "URI" event emitted by the contract.
type URIEvent struct {
	Value string
	ID    *big.Int
}

// OwnershipTransferredEvent represents "OwnershipTransferred" event emitted by the contract.
type OwnershipTransferredEvent struct {
	PreviousOwner util.Uint160
	NewOwner      util.Uint160
}

// TransferSingleEventsFromApplicationLog retrieves a set of all emitted events
// with "TransferSingle" name from the provided [result.ApplicationLog].
func TransferSingleEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferSingleEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferSingleEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TransferSingle" {
				continue
			}
			event := new(TransferSingleEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferSingleEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferSingleEvent or
// returns an error if it's not possible to do to so.
// Null accounts of mints and burns are decoded as zero [util.Uint160].
func (e *TransferSingleEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Operator, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	index++
	e.From, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// TransferBatchEventsFromApplicationLog retrieves a set of all emitted events
// with "TransferBatch" name from the provided [result.ApplicationLog].
func TransferBatchEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferBatchEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferBatchEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TransferBatch" {
				continue
			}
			event := new(TransferBatchEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferBatchEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferBatchEvent or
// returns an error if it's not possible to do to so.
// Null accounts of mints and burns are decoded as zero [util.Uint160].
func (e *TransferBatchEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Operator, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	index++
	e.From, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.IDs, err = func(item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field IDs: %w", err)
	}

	index++
	e.Amounts, err = func(item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Amounts: %w", err)
	}

	return nil
}

// ApprovalForAllEventsFromApplicationLog retrieves a set of all emitted events
// with "ApprovalForAll" name from the provided [result.ApplicationLog].
func ApprovalForAllEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalForAllEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ApprovalForAllEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ApprovalForAll" {
				continue
			}
			event := new(ApprovalForAllEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ApprovalForAllEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalForAllEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalForAllEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Operator, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	index++
	e.Approved, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Approved: %w", err)
	}

	return nil
}

// URIEventsFromApplicationLog retrieves a set of all emitted events
// with "URI" name from the provided [result.ApplicationLog].
func URIEventsFromApplicationLog(log *result.ApplicationLog) ([]*URIEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*URIEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "URI" {
				continue
			}
			event := new(URIEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize URIEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to URIEvent or
// returns an error if it's not possible to do to so.
func (e *URIEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Value, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	return nil
}

// OwnershipTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnershipTransferred" name from the provided [result.ApplicationLog].
func OwnershipTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnershipTransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OwnershipTransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OwnershipTransferred" {
				continue
			}
			event := new(OwnershipTransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OwnershipTransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OwnershipTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *OwnershipTransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.PreviousOwner, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field PreviousOwner: %w", err)
	}

	index++
	e.NewOwner, err = accountFromStackItem(arr[index])
	if err != nil {
		return fmt.Errorf("field NewOwner: %w", err)
	}

	return nil
}

// accountFromStackItem decodes account argument of notifications. Null
// stands for the null account of mints and burns.
func accountFromStackItem(item stackitem.Item) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
