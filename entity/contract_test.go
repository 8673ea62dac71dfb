package entity_test

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/ledger-contract/entity"
	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/ledger-contract/internal/ledgertest"
	"github.com/nspcc-dev/ledger-contract/internal/testcontracts/receiver"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type entityInvoker struct {
	*ledgertest.Invoker
	reg  *entity.Registry
	recv *receiver.Receiver
}

func newEntityInvoker(t *testing.T) *entityInvoker {
	e := ledgertest.NewExecutor(t)
	recv := receiver.New()
	reg := entity.New(recv)

	c := &entityInvoker{
		Invoker: e.WithSigner(ledgertest.NewAccount(t)),
		reg:     reg,
		recv:    recv,
	}
	c.Invoke(t, "deploy", func(ic *host.Context) error {
		return reg.Deploy(ic)
	})

	return c
}

func (c *entityInvoker) as(acc util.Uint160) *entityInvoker {
	return &entityInvoker{Invoker: c.WithSigner(acc), reg: c.reg, recv: c.recv}
}

func (c *entityInvoker) balance(acc util.Uint160, id entity.TokenID) uint64 {
	return c.reg.BalanceOf(c.View(), acc, id).Uint64()
}

func (c *entityInvoker) mint(t *testing.T, to util.Uint160, id entity.TokenID, amount uint64) {
	c.Invoke(t, "mint", func(ic *host.Context) error {
		return c.reg.Mint(ic, to, id, uint256.NewInt(amount))
	})
}

func (c *entityInvoker) safeTransferFrom(from, to util.Uint160, id entity.TokenID, amount uint64) func(*host.Context) error {
	return func(ic *host.Context) error {
		return c.reg.SafeTransferFrom(ic, from, to, id, uint256.NewInt(amount), nil)
	}
}

func amounts(vs ...uint64) []*uint256.Int {
	res := make([]*uint256.Int, len(vs))
	for i := range vs {
		res[i] = uint256.NewInt(vs[i])
	}
	return res
}

func integer(v int64) stackitem.Item {
	return stackitem.NewBigInteger(big.NewInt(v))
}

func integers(vs ...int64) stackitem.Item {
	items := make([]stackitem.Item, len(vs))
	for i := range vs {
		items[i] = integer(vs[i])
	}
	return stackitem.NewArray(items)
}

func TestEntityMint(t *testing.T) {
	c := newEntityInvoker(t)
	x := ledgertest.NewAccount(t)

	c.as(x).InvokeFail(t, "unauthorized", "mint", func(ic *host.Context) error {
		return c.reg.Mint(ic, x, 1, uint256.NewInt(50))
	})
	require.True(t, c.reg.TotalSupply(c.View(), 1).IsZero())
	require.False(t, c.reg.Exists(c.View(), 1))

	res := c.Invoke(t, "mint", func(ic *host.Context) error {
		return c.reg.Mint(ic, x, 1, uint256.NewInt(50))
	})
	ledgertest.CheckNotification(t, res, entity.EventTransferSingle,
		ledgertest.Account(c.Signer), stackitem.Null{}, ledgertest.Account(x), integer(1), integer(50))

	require.True(t, c.reg.Exists(c.View(), 1))
	require.EqualValues(t, 50, c.reg.TotalSupply(c.View(), 1).Uint64())
	require.EqualValues(t, 50, c.balance(x, 1))
	require.True(t, c.reg.TotalSupply(c.View(), 2).IsZero())

	t.Run("batch", func(t *testing.T) {
		res := c.Invoke(t, "mintBatch", func(ic *host.Context) error {
			return c.reg.MintBatch(ic, x, []entity.TokenID{1, 2, 2}, amounts(5, 7, 3))
		})
		ledgertest.CheckNotification(t, res, entity.EventTransferBatch,
			ledgertest.Account(c.Signer), stackitem.Null{}, ledgertest.Account(x),
			integers(1, 2, 2), integers(5, 7, 3))

		require.EqualValues(t, 55, c.balance(x, 1))
		require.EqualValues(t, 10, c.balance(x, 2))
		require.EqualValues(t, 10, c.reg.TotalSupply(c.View(), 2).Uint64())
	})

	t.Run("length mismatch", func(t *testing.T) {
		c.InvokeFail(t, "length mismatch", "mintBatch", func(ic *host.Context) error {
			return c.reg.MintBatch(ic, x, []entity.TokenID{1, 2}, amounts(5))
		})
	})

	t.Run("overflow", func(t *testing.T) {
		c.InvokeFail(t, "overflow", "mintBatch", func(ic *host.Context) error {
			return c.reg.MintBatch(ic, x, []entity.TokenID{3, 1}, []*uint256.Int{
				uint256.NewInt(1), new(uint256.Int).SetAllOne(),
			})
		})
		require.False(t, c.reg.Exists(c.View(), 3))
		require.Zero(t, c.balance(x, 3))
	})
}

func TestEntityCreate(t *testing.T) {
	c := newEntityInvoker(t)

	create := func(id entity.TokenID, uri string) func(*host.Context) error {
		return func(ic *host.Context) error {
			return c.reg.Create(ic, id, uri)
		}
	}

	c.as(ledgertest.NewAccount(t)).InvokeFail(t, "unauthorized", "create", create(7, "ipfs://seven"))

	res := c.Invoke(t, "create", create(7, "ipfs://seven"))
	ledgertest.CheckNotification(t, res, entity.EventURI,
		stackitem.NewByteArray([]byte("ipfs://seven")), integer(7))
	require.True(t, c.reg.Exists(c.View(), 7))
	require.Equal(t, "ipfs://seven", c.reg.URI(c.View(), 7))
	require.True(t, c.reg.TotalSupply(c.View(), 7).IsZero())

	c.InvokeFail(t, "token already exists", "create", create(7, "ipfs://other"))

	c.Invoke(t, "setURI", func(ic *host.Context) error {
		return c.reg.SetURI(ic, 7, "ipfs://updated")
	})
	require.Equal(t, "ipfs://updated", c.reg.URI(c.View(), 7))

	c.InvokeFail(t, "unknown token", "setURI", func(ic *host.Context) error {
		return c.reg.SetURI(ic, 8, "ipfs://eight")
	})
	require.Empty(t, c.reg.URI(c.View(), 8))

	// minting into created token keeps its URI
	c.mint(t, c.Signer, 7, 1)
	require.Equal(t, "ipfs://updated", c.reg.URI(c.View(), 7))
}

func TestEntityApprovalForAll(t *testing.T) {
	c := newEntityInvoker(t)
	a, op := ledgertest.NewAccount(t), ledgertest.NewAccount(t)
	cA := c.as(a)

	setApproval := func(operator util.Uint160, approved bool) func(*host.Context) error {
		return func(ic *host.Context) error {
			return c.reg.SetApprovalForAll(ic, operator, approved)
		}
	}

	cA.InvokeFail(t, "invalid account", "setApprovalForAll", setApproval(a, true))
	cA.InvokeFail(t, "invalid account", "setApprovalForAll", setApproval(util.Uint160{}, true))
	require.False(t, c.reg.IsApprovedForAll(c.View(), a, a))

	res := cA.Invoke(t, "setApprovalForAll", setApproval(op, true))
	ledgertest.CheckNotification(t, res, entity.EventApprovalForAll,
		ledgertest.Account(a), ledgertest.Account(op), stackitem.NewBool(true))
	require.True(t, c.reg.IsApprovedForAll(c.View(), a, op))
	require.False(t, c.reg.IsApprovedForAll(c.View(), op, a))

	cA.Invoke(t, "setApprovalForAll", setApproval(op, false))
	require.False(t, c.reg.IsApprovedForAll(c.View(), a, op))
}

func TestEntitySafeTransferFrom(t *testing.T) {
	c := newEntityInvoker(t)
	a, b, op := ledgertest.NewAccount(t), ledgertest.NewAccount(t), ledgertest.NewAccount(t)
	c.mint(t, a, 1, 100)

	cA, cOp := c.as(a), c.as(op)

	res := cA.Invoke(t, "safeTransferFrom", c.safeTransferFrom(a, b, 1, 40))
	ledgertest.CheckNotification(t, res, entity.EventTransferSingle,
		ledgertest.Account(a), ledgertest.Account(a), ledgertest.Account(b), integer(1), integer(40))
	require.EqualValues(t, 60, c.balance(a, 1))
	require.EqualValues(t, 40, c.balance(b, 1))
	require.EqualValues(t, 100, c.reg.TotalSupply(c.View(), 1).Uint64())

	cOp.InvokeFail(t, "unauthorized", "safeTransferFrom", c.safeTransferFrom(a, b, 1, 1))
	cA.InvokeFail(t, "invalid account", "safeTransferFrom", c.safeTransferFrom(a, util.Uint160{}, 1, 1))
	cA.InvokeFail(t, "insufficient balance", "safeTransferFrom", c.safeTransferFrom(a, b, 1, 61))
	cA.InvokeFail(t, "insufficient balance", "safeTransferFrom", c.safeTransferFrom(a, b, 2, 1))

	cA.Invoke(t, "setApprovalForAll", func(ic *host.Context) error {
		return c.reg.SetApprovalForAll(ic, op, true)
	})

	res = cOp.Invoke(t, "safeTransferFrom", c.safeTransferFrom(a, b, 1, 10))
	ledgertest.CheckNotification(t, res, entity.EventTransferSingle,
		ledgertest.Account(op), ledgertest.Account(a), ledgertest.Account(b), integer(1), integer(10))
	require.EqualValues(t, 50, c.balance(a, 1))
	require.EqualValues(t, 50, c.balance(b, 1))

	t.Run("balance batch", func(t *testing.T) {
		bals, err := c.reg.BalanceOfBatch(c.View(), []util.Uint160{a, b, op}, []entity.TokenID{1, 1, 1})
		require.NoError(t, err)
		require.Equal(t, amounts(50, 50, 0), bals)

		_, err = c.reg.BalanceOfBatch(c.View(), []util.Uint160{a}, []entity.TokenID{1, 2})
		require.ErrorIs(t, err, common.ErrLengthMismatch)
	})
}

func TestEntityReceiver(t *testing.T) {
	c := newEntityInvoker(t)
	a := ledgertest.NewAccount(t)
	accepting, declining := ledgertest.NewAccount(t), ledgertest.NewAccount(t)

	c.recv.SetContract(accepting, true)
	c.recv.SetContract(declining, false)
	c.mint(t, a, 1, 10)

	cA := c.as(a)

	cA.InvokeFail(t, "transfer rejected", "safeTransferFrom", c.safeTransferFrom(a, declining, 1, 3))
	require.EqualValues(t, 10, c.balance(a, 1))
	require.Zero(t, c.balance(declining, 1))

	cA.Invoke(t, "safeTransferFrom", func(ic *host.Context) error {
		return c.reg.SafeTransferFrom(ic, a, accepting, 1, uint256.NewInt(3), []byte("payload"))
	})
	require.EqualValues(t, 3, c.balance(accepting, 1))

	calls := c.recv.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, declining, calls[0].To)
	require.Equal(t, receiver.Call{
		Operator: a,
		From:     a,
		To:       accepting,
		TokenID:  1,
		Amount:   uint256.NewInt(3),
		Data:     []byte("payload"),
	}, calls[1])

	t.Run("batch", func(t *testing.T) {
		c.mint(t, a, 2, 10)

		cA.InvokeFail(t, "transfer rejected", "safeBatchTransferFrom", func(ic *host.Context) error {
			return c.reg.SafeBatchTransferFrom(ic, a, declining, []entity.TokenID{1, 2}, amounts(1, 1), nil)
		})
		require.EqualValues(t, 7, c.balance(a, 1))
		require.EqualValues(t, 10, c.balance(a, 2))
	})

	t.Run("mint is not acknowledged", func(t *testing.T) {
		n := len(c.recv.Calls())
		c.mint(t, declining, 1, 1)
		require.EqualValues(t, 1, c.balance(declining, 1))
		require.Len(t, c.recv.Calls(), n)
	})
}

func TestEntityBatchAtomicity(t *testing.T) {
	c := newEntityInvoker(t)
	a, b := ledgertest.NewAccount(t), ledgertest.NewAccount(t)
	ids := []entity.TokenID{1, 2, 3, 4}

	c.Invoke(t, "mintBatch", func(ic *host.Context) error {
		return c.reg.MintBatch(ic, a, ids, amounts(10, 10, 1, 10))
	})

	batch := func(ids []entity.TokenID, vs []*uint256.Int) func(*host.Context) error {
		return func(ic *host.Context) error {
			return c.reg.SafeBatchTransferFrom(ic, a, b, ids, vs, nil)
		}
	}

	cA := c.as(a)

	res := cA.InvokeFail(t, "insufficient balance", "safeBatchTransferFrom", batch(ids, amounts(5, 5, 5, 5)))
	require.Contains(t, res.FaultException, "leg #2")
	for _, id := range ids {
		require.Zero(t, c.balance(b, id))
	}
	require.Equal(t, []uint64{10, 10, 1, 10}, []uint64{c.balance(a, 1), c.balance(a, 2), c.balance(a, 3), c.balance(a, 4)})

	cA.InvokeFail(t, "length mismatch", "safeBatchTransferFrom", batch(ids, amounts(1, 1)))
	c.as(b).InvokeFail(t, "unauthorized", "safeBatchTransferFrom", batch(ids[:1], amounts(1)))

	res = cA.Invoke(t, "safeBatchTransferFrom", batch(ids, amounts(5, 5, 1, 5)))
	require.Len(t, res.Events, 1)
	ledgertest.CheckNotification(t, res, entity.EventTransferBatch,
		ledgertest.Account(a), ledgertest.Account(a), ledgertest.Account(b),
		integers(1, 2, 3, 4), integers(5, 5, 1, 5))

	for _, id := range ids {
		require.EqualValues(t, c.reg.TotalSupply(c.View(), id).Uint64(), c.balance(a, id)+c.balance(b, id))
	}

	t.Run("duplicate ids", func(t *testing.T) {
		cA.InvokeFail(t, "insufficient balance", "safeBatchTransferFrom",
			batch([]entity.TokenID{1, 1}, amounts(3, 3)))
		require.EqualValues(t, 5, c.balance(a, 1))
	})
}

func TestEntityBurn(t *testing.T) {
	c := newEntityInvoker(t)
	a := ledgertest.NewAccount(t)
	c.mint(t, a, 1, 10)
	c.mint(t, a, 2, 10)

	cA := c.as(a)

	cA.InvokeFail(t, "insufficient balance", "burn", func(ic *host.Context) error {
		return c.reg.Burn(ic, 1, uint256.NewInt(11))
	})

	res := cA.Invoke(t, "burn", func(ic *host.Context) error {
		return c.reg.Burn(ic, 1, uint256.NewInt(4))
	})
	ledgertest.CheckNotification(t, res, entity.EventTransferSingle,
		ledgertest.Account(a), ledgertest.Account(a), stackitem.Null{}, integer(1), integer(4))
	require.EqualValues(t, 6, c.balance(a, 1))
	require.EqualValues(t, 6, c.reg.TotalSupply(c.View(), 1).Uint64())

	cA.InvokeFail(t, "insufficient balance", "burnBatch", func(ic *host.Context) error {
		return c.reg.BurnBatch(ic, []entity.TokenID{2, 1}, amounts(10, 7))
	})
	require.EqualValues(t, 10, c.balance(a, 2))

	cA.Invoke(t, "burnBatch", func(ic *host.Context) error {
		return c.reg.BurnBatch(ic, []entity.TokenID{2, 1}, amounts(10, 6))
	})
	require.True(t, c.reg.TotalSupply(c.View(), 1).IsZero())
	require.True(t, c.reg.TotalSupply(c.View(), 2).IsZero())
	require.True(t, c.reg.Exists(c.View(), 1), "burning doesn't forget token IDs")

	var held int
	c.reg.TokensOf(c.View(), a, func(entity.TokenID, *uint256.Int) bool {
		held++
		return true
	})
	require.Zero(t, held)
}

func TestEntityTokensOf(t *testing.T) {
	c := newEntityInvoker(t)
	a := ledgertest.NewAccount(t)

	c.Invoke(t, "mintBatch", func(ic *host.Context) error {
		return c.reg.MintBatch(ic, a, []entity.TokenID{300, 2, 1 << 40}, amounts(3, 2, 1))
	})

	var (
		ids  []entity.TokenID
		bals []uint64
	)
	c.reg.TokensOf(c.View(), a, func(id entity.TokenID, balance *uint256.Int) bool {
		ids = append(ids, id)
		bals = append(bals, balance.Uint64())
		return true
	})
	require.Equal(t, []entity.TokenID{2, 300, 1 << 40}, ids)
	require.Equal(t, []uint64{2, 3, 1}, bals)
}

func TestEntityOwnershipTransfer(t *testing.T) {
	c := newEntityInvoker(t)
	z, x := ledgertest.NewAccount(t), ledgertest.NewAccount(t)

	c.Invoke(t, "transferOwnership", func(ic *host.Context) error {
		return c.reg.TransferOwnership(ic, z)
	})
	require.Equal(t, z, c.reg.Owner(c.View()))

	c.InvokeFail(t, "unauthorized", "mint", func(ic *host.Context) error {
		return c.reg.Mint(ic, x, 1, uint256.NewInt(1))
	})
	c.as(z).mint(t, x, 1, 1)
	require.EqualValues(t, 1, c.balance(x, 1))
}

func TestEntityFailureWritesNothing(t *testing.T) {
	owner, alice, bob := ledgertest.NewAccount(t), ledgertest.NewAccount(t), ledgertest.NewAccount(t)
	vault := ledgertest.NewAccount(t)

	recv := receiver.New()
	recv.SetContract(vault, false)

	reg := entity.New(recv)
	ic := ledgertest.NewBare(owner)

	require.NoError(t, reg.Deploy(ic))
	require.NoError(t, reg.MintBatch(ic, alice, []entity.TokenID{1, 2, 3, 4}, amounts(5, 5, 1, 5)))
	require.NoError(t, reg.Mint(ic, bob, 9, new(uint256.Int).SetAllOne()))

	for _, tc := range []struct {
		name   string
		caller util.Uint160
		err    error
		f      func(common.Invocation) error
	}{
		{"batch with failing third leg", alice, common.ErrInsufficientBalance, func(ic common.Invocation) error {
			return reg.SafeBatchTransferFrom(ic, alice, bob, []entity.TokenID{1, 2, 3, 4}, amounts(5, 5, 2, 5), nil)
		}},
		{"rejected by receiver", alice, common.ErrTransferRejected, func(ic common.Invocation) error {
			return reg.SafeTransferFrom(ic, alice, vault, 1, uint256.NewInt(1), nil)
		}},
		{"batch rejected by receiver", alice, common.ErrTransferRejected, func(ic common.Invocation) error {
			return reg.SafeBatchTransferFrom(ic, alice, vault, []entity.TokenID{1, 2}, amounts(1, 1), nil)
		}},
		{"mint batch overflow", owner, common.ErrOverflow, func(ic common.Invocation) error {
			return reg.MintBatch(ic, bob, []entity.TokenID{7, 9}, amounts(1, 1))
		}},
		{"burn batch over balance", alice, common.ErrInsufficientBalance, func(ic common.Invocation) error {
			return reg.BurnBatch(ic, []entity.TokenID{1, 3}, amounts(1, 2))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			before := ic.Snapshot()
			ic.Reset()

			require.ErrorIs(t, tc.f(ic.As(tc.caller)), tc.err)
			require.Zero(t, ic.Writes())
			require.Empty(t, ic.Events())
			require.Equal(t, before, ic.Snapshot())
		})
	}

	require.False(t, reg.Exists(ic, 7))
	require.EqualValues(t, 1, reg.BalanceOf(ic, alice, 3).Uint64())
}
