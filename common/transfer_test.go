package common

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	keyA      = []byte{2, 'a'}
	keyB      = []byte{2, 'b'}
	keySupply = []byte{1}
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestPrepareTransfer(t *testing.T) {
	s := make(memStorage)
	PutInt(s, keyA, u(100))

	p, err := Prepare(s, Leg{From: keyA, To: keyB, Amount: u(30)})
	require.NoError(t, err)
	require.Equal(t, u(70), p.Post(keyA))
	require.Equal(t, u(30), p.Post(keyB))

	// nothing is written before commit
	require.Equal(t, u(100), GetInt(s, keyA))
	require.True(t, GetInt(s, keyB).IsZero())

	p.Commit()
	require.Equal(t, u(70), GetInt(s, keyA))
	require.Equal(t, u(30), GetInt(s, keyB))
}

func TestPrepareSelfTransfer(t *testing.T) {
	s := make(memStorage)
	PutInt(s, keyA, u(100))

	p, err := Prepare(s, Leg{From: keyA, To: keyA, Amount: u(100)})
	require.NoError(t, err)
	p.Commit()
	require.Equal(t, u(100), GetInt(s, keyA))

	_, err = Prepare(s, Leg{From: keyA, To: keyA, Amount: u(101)})
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestPrepareInsufficient(t *testing.T) {
	s := make(memStorage)
	PutInt(s, keyA, u(10))

	_, err := Prepare(s, Leg{From: keyA, To: keyB, Amount: u(11)})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = Prepare(s, Leg{From: keyA, To: keyB})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPrepareBatch(t *testing.T) {
	s := make(memStorage)
	PutInt(s, keyA, u(10))

	t.Run("legs see previous legs", func(t *testing.T) {
		p, err := Prepare(s,
			Leg{From: keyA, To: keyB, Amount: u(6)},
			Leg{From: keyB, To: keyA, Amount: u(6)},
			Leg{From: keyA, To: keyB, Amount: u(10)},
		)
		require.NoError(t, err)
		p.Commit()
		require.True(t, GetInt(s, keyA).IsZero())
		require.Equal(t, u(10), GetInt(s, keyB))
	})

	t.Run("duplicate debits are summed", func(t *testing.T) {
		_, err := Prepare(s,
			Leg{From: keyB, To: keyA, Amount: u(6)},
			Leg{From: keyB, To: keyA, Amount: u(6)},
		)
		require.ErrorIs(t, err, ErrInsufficientBalance)
		require.ErrorContains(t, err, "leg #1")
		require.Equal(t, u(10), GetInt(s, keyB))
	})
}

func TestPrepareSupply(t *testing.T) {
	s := make(memStorage)

	p, err := Prepare(s, Leg{To: keyA, Supply: keySupply, Amount: u(50)})
	require.NoError(t, err)
	p.Commit()
	require.Equal(t, u(50), GetInt(s, keyA))
	require.Equal(t, u(50), GetInt(s, keySupply))

	p, err = Prepare(s, Leg{From: keyA, Supply: keySupply, Amount: u(50)})
	require.NoError(t, err)
	p.Commit()
	require.Empty(t, s)
}

func TestPrepareOverflow(t *testing.T) {
	s := make(memStorage)
	maxValue := new(uint256.Int).SetAllOne()
	PutInt(s, keyA, maxValue)
	PutInt(s, keyB, u(1))

	_, err := Prepare(s, Leg{From: keyB, To: keyA, Amount: u(1)})
	require.ErrorIs(t, err, ErrOverflow)

	PutInt(s, keySupply, maxValue)
	_, err = Prepare(s, Leg{To: keyB, Supply: keySupply, Amount: u(1)})
	require.ErrorIs(t, err, ErrOverflow)
	require.ErrorContains(t, err, "total supply")

	require.Equal(t, maxValue, GetInt(s, keyA))
	require.Equal(t, u(1), GetInt(s, keyB))
}
