package aura_test

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	auractr "github.com/nspcc-dev/ledger-contract/aura"
	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/ledger-contract/internal/ledgertest"
	"github.com/nspcc-dev/ledger-contract/rpc/aura"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestEventsFromApplicationLog(t *testing.T) {
	e := ledgertest.NewExecutor(t)
	tok := auractr.New(auractr.DefaultSymbol, auractr.DefaultDecimals)
	owner, acc := ledgertest.NewAccount(t), ledgertest.NewAccount(t)

	c := e.WithSigner(owner)
	c.Invoke(t, "deploy", func(ic *host.Context) error {
		return tok.Deploy(ic)
	})

	res := c.Invoke(t, "mint", func(ic *host.Context) error {
		return tok.Mint(ic, acc, uint256.NewInt(10))
	})

	transfers, err := aura.TransferEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Equal(t, []*aura.TransferEvent{{
		From:   util.Uint160{},
		To:     acc,
		Amount: big.NewInt(10),
	}}, transfers)

	res = e.WithSigner(acc).Invoke(t, "approve", func(ic *host.Context) error {
		return tok.Approve(ic, owner, uint256.NewInt(3))
	})

	approvals, err := aura.ApprovalEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Len(t, approvals, 1)
	require.Equal(t, acc, approvals[0].Owner)
	require.Equal(t, owner, approvals[0].Spender)
	require.EqualValues(t, 3, approvals[0].Amount.Int64())

	transfers, err = aura.TransferEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Empty(t, transfers)

	_, err = aura.TransferEventsFromApplicationLog(nil)
	require.Error(t, err)
}

func TestTransferEventFromStackItem(t *testing.T) {
	var ev aura.TransferEvent

	require.Error(t, ev.FromStackItem(nil))
	require.Error(t, ev.FromStackItem(stackitem.NewArray([]stackitem.Item{stackitem.Null{}})))
	require.Error(t, ev.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray([]byte{1, 2, 3}), stackitem.Null{}, stackitem.Make(1),
	})))

	from := util.Uint160{1, 2, 3}
	require.NoError(t, ev.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(from.BytesBE()), stackitem.Null{}, stackitem.Make(5),
	})))
	require.Equal(t, from, ev.From)
	require.Equal(t, util.Uint160{}, ev.To)
	require.EqualValues(t, 5, ev.Amount.Int64())
}
