package entity_test

import (
	"testing"

	"github.com/holiman/uint256"
	entityctr "github.com/nspcc-dev/ledger-contract/entity"
	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/ledger-contract/internal/ledgertest"
	"github.com/nspcc-dev/ledger-contract/rpc/entity"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestEventsFromApplicationLog(t *testing.T) {
	e := ledgertest.NewExecutor(t)
	reg := entityctr.New(nil)
	owner, acc := ledgertest.NewAccount(t), ledgertest.NewAccount(t)

	c := e.WithSigner(owner)
	c.Invoke(t, "deploy", func(ic *host.Context) error {
		return reg.Deploy(ic)
	})

	res := c.Invoke(t, "create", func(ic *host.Context) error {
		return reg.Create(ic, 5, "ipfs://five")
	})
	uris, err := entity.URIEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Len(t, uris, 1)
	require.Equal(t, "ipfs://five", uris[0].Value)
	require.EqualValues(t, 5, uris[0].ID.Int64())

	res = c.Invoke(t, "mintBatch", func(ic *host.Context) error {
		return reg.MintBatch(ic, acc, []entityctr.TokenID{5, 6}, []*uint256.Int{uint256.NewInt(1), uint256.NewInt(2)})
	})
	batches, err := entity.TransferBatchEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Equal(t, owner, batches[0].Operator)
	require.Equal(t, util.Uint160{}, batches[0].From)
	require.Equal(t, acc, batches[0].To)
	require.Len(t, batches[0].IDs, 2)
	require.EqualValues(t, 6, batches[0].IDs[1].Int64())
	require.EqualValues(t, 2, batches[0].Amounts[1].Int64())

	res = e.WithSigner(acc).Invoke(t, "safeTransferFrom", func(ic *host.Context) error {
		return reg.SafeTransferFrom(ic, acc, owner, 6, uint256.NewInt(2), nil)
	})
	singles, err := entity.TransferSingleEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Len(t, singles, 1)
	require.Equal(t, acc, singles[0].Operator)
	require.Equal(t, owner, singles[0].To)
	require.EqualValues(t, 6, singles[0].ID.Int64())

	res = e.WithSigner(acc).Invoke(t, "setApprovalForAll", func(ic *host.Context) error {
		return reg.SetApprovalForAll(ic, owner, true)
	})
	approvals, err := entity.ApprovalForAllEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Equal(t, []*entity.ApprovalForAllEvent{{Owner: acc, Operator: owner, Approved: true}}, approvals)

	res = c.Invoke(t, "transferOwnership", func(ic *host.Context) error {
		return reg.TransferOwnership(ic, acc)
	})
	owners, err := entity.OwnershipTransferredEventsFromApplicationLog(host.ApplicationLog(res))
	require.NoError(t, err)
	require.Equal(t, []*entity.OwnershipTransferredEvent{{PreviousOwner: owner, NewOwner: acc}}, owners)
}
