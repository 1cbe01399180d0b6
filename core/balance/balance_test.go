package balance_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/mock/stub"
	"github.com/stretchr/testify/require"
)

const (
	addrA = "addr_a"
	addrB = "addr_b"
)

func newStub(t *testing.T) *stub.Stub {
	st := stub.NewMockStub("balance", nil)
	st.MockTransactionStart("balance")
	t.Cleanup(func() { st.MockTransactionEnd("") })
	return st
}

// TestGetPutRoundTrip - Checking that a stored balance reads back and absence reads as zero
func TestGetPutRoundTrip(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(100)))

	stored, err := balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(100), stored.Int64())

	absent, err := balance.Get(st, balance.BalanceTypeToken, addrA, 2)
	require.NoError(t, err)
	require.Equal(t, int64(0), absent.Int64())

	_, err = balance.Get(st, balance.BalanceTypeToken, "", 1)
	require.ErrorIs(t, err, balance.ErrAddressMustNotBeEmpty)
	err = balance.Put(st, balance.BalanceTypeToken, "", 1, big.NewInt(1))
	require.ErrorIs(t, err, balance.ErrAddressMustNotBeEmpty)
}

// TestPutZeroDeletesEntries - Checking that writing a zero balance removes both index entries
func TestPutZeroDeletesEntries(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(100)))
	require.Len(t, st.State, 2)

	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 1, new(big.Int)))
	require.Empty(t, st.State)

	stored, err := balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), stored.Int64())
}

// TestAddSub - Checking the checked arithmetic over stored balances
func TestAddSub(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.Add(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(100)))
	require.NoError(t, balance.Add(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(50)))
	require.NoError(t, balance.Sub(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(30)))

	stored, err := balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(120), stored.Int64())

	err = balance.Sub(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(1000))
	require.ErrorIs(t, err, balance.ErrInsufficientBalance)

	// the failed debit must not have touched the stored value
	stored, err = balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(120), stored.Int64())

	err = balance.Add(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(-1))
	require.ErrorIs(t, err, balance.ErrAmountMustBeNonNegative)
	err = balance.Sub(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(-1))
	require.ErrorIs(t, err, balance.ErrAmountMustBeNonNegative)
}

// TestMove - Checking that a move debits before crediting and fails atomically
func TestMove(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.Add(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(100)))
	require.NoError(t, balance.Move(st, balance.BalanceTypeToken, addrA, balance.BalanceTypeToken, addrB, 1, big.NewInt(40)))

	fromBalance, err := balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(60), fromBalance.Int64())

	toBalance, err := balance.Get(st, balance.BalanceTypeToken, addrB, 1)
	require.NoError(t, err)
	require.Equal(t, int64(40), toBalance.Int64())

	err = balance.Move(st, balance.BalanceTypeToken, addrA, balance.BalanceTypeToken, addrB, 1, big.NewInt(1000))
	require.ErrorIs(t, err, balance.ErrInsufficientBalance)

	fromBalance, err = balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(60), fromBalance.Int64())

	// moving between balance types of the same address reclassifies the funds
	require.NoError(t, balance.Move(st, balance.BalanceTypeToken, addrA, balance.BalanceTypeTokenLocked, addrA, 1, big.NewInt(25)))

	freeBalance, err := balance.Get(st, balance.BalanceTypeToken, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(35), freeBalance.Int64())

	lockedBalance, err := balance.Get(st, balance.BalanceTypeTokenLocked, addrA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(25), lockedBalance.Int64())
}

// TestTokenCounter - Checking that allocation returns the current id and advances saturating
func TestTokenCounter(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	id, err := balance.LastTokenID(st)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	id, err = balance.NextTokenID(st)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	id, err = balance.LastTokenID(st)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	id, err = balance.NextTokenID(st)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	require.NoError(t, balance.PutLastTokenID(st, math.MaxUint64))

	id, err = balance.NextTokenID(st)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), id)

	id, err = balance.LastTokenID(st)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), id)
}

// TestIssuance - Checking the per token supply records and the clamp on removal
func TestIssuance(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	issuance, err := balance.GetIssuance(st, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), issuance.Int64())

	require.NoError(t, balance.AddIssuance(st, 1, big.NewInt(100)))

	removed, err := balance.SubIssuance(st, 1, big.NewInt(30))
	require.NoError(t, err)
	require.Equal(t, int64(30), removed.Int64())

	issuance, err = balance.GetIssuance(st, 1)
	require.NoError(t, err)
	require.Equal(t, int64(70), issuance.Int64())

	// removing more than is recorded clamps at zero and reports what was removed
	removed, err = balance.SubIssuance(st, 1, big.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, int64(70), removed.Int64())

	issuance, err = balance.GetIssuance(st, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), issuance.Int64())

	err = balance.AddIssuance(st, 1, big.NewInt(-1))
	require.ErrorIs(t, err, balance.ErrAmountMustBeNonNegative)
	_, err = balance.SubIssuance(st, 1, big.NewInt(-1))
	require.ErrorIs(t, err, balance.ErrAmountMustBeNonNegative)
}

// TestListIssuances - Checking that the issuance walk follows composite key order
func TestListIssuances(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.AddIssuance(st, 2, big.NewInt(20)))
	require.NoError(t, balance.AddIssuance(st, 10, big.NewInt(10)))
	require.NoError(t, balance.AddIssuance(st, 1, big.NewInt(100)))

	issuances, err := balance.ListIssuances(st)
	require.NoError(t, err)

	// token ids are rendered as decimal key attributes, so iteration is lexicographic
	require.Len(t, issuances, 3)
	require.Equal(t, uint64(1), issuances[0].Token)
	require.Equal(t, int64(100), issuances[0].Issuance.Int64())
	require.Equal(t, uint64(10), issuances[1].Token)
	require.Equal(t, int64(10), issuances[1].Issuance.Int64())
	require.Equal(t, uint64(2), issuances[2].Token)
	require.Equal(t, int64(20), issuances[2].Issuance.Int64())
}

// TestListBalancesByAddress - Checking that the address walk yields only that holder
func TestListBalancesByAddress(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(11)))
	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 2, big.NewInt(22)))
	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrB, 1, big.NewInt(33)))

	balances, err := balance.ListBalancesByAddress(st, balance.BalanceTypeToken, addrA)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	require.Equal(t, addrA, balances[0].Address)
	require.Equal(t, uint64(1), balances[0].Token)
	require.Equal(t, int64(11), balances[0].Balance.Int64())
	require.Equal(t, uint64(2), balances[1].Token)
	require.Equal(t, int64(22), balances[1].Balance.Int64())
}

// TestListOwnersByToken - Checking the inverse index walk and its lockstep with writes
func TestListOwnersByToken(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrB, 1, big.NewInt(40)))
	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 1, big.NewInt(60)))
	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrA, 2, big.NewInt(99)))

	owners, err := balance.ListOwnersByToken(st, balance.BalanceTypeToken, 1)
	require.NoError(t, err)
	require.Len(t, owners, 2)
	require.Equal(t, addrA, owners[0].Address)
	require.Equal(t, int64(60), owners[0].Balance.Int64())
	require.Equal(t, addrB, owners[1].Address)
	require.Equal(t, int64(40), owners[1].Balance.Int64())

	// zeroing a holder drops it from the index
	require.NoError(t, balance.Put(st, balance.BalanceTypeToken, addrB, 1, new(big.Int)))

	owners, err = balance.ListOwnersByToken(st, balance.BalanceTypeToken, 1)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	require.Equal(t, addrA, owners[0].Address)
}

// TestCreateIndex - Checking that backfilling builds the inverse index for old entries
func TestCreateIndex(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	// simulate an entry written before the inverse index existed
	primaryCompositeKey, err := st.CreateCompositeKey(
		balance.BalanceTypeToken.String(),
		[]string{addrA, balance.TokenKey(1)},
	)
	require.NoError(t, err)
	require.NoError(t, st.PutState(primaryCompositeKey, big.NewInt(77).Bytes()))

	created, err := balance.HasIndexCreatedFlag(st, balance.BalanceTypeToken)
	require.NoError(t, err)
	require.False(t, created)

	owners, err := balance.ListOwnersByToken(st, balance.BalanceTypeToken, 1)
	require.NoError(t, err)
	require.Empty(t, owners)

	require.NoError(t, balance.CreateIndex(st, balance.BalanceTypeToken))

	created, err = balance.HasIndexCreatedFlag(st, balance.BalanceTypeToken)
	require.NoError(t, err)
	require.True(t, created)

	owners, err = balance.ListOwnersByToken(st, balance.BalanceTypeToken, 1)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	require.Equal(t, addrA, owners[0].Address)
	require.Equal(t, int64(77), owners[0].Balance.Int64())
}

// TestBalanceTypeStrings - Checking the state key prefixes and their name mapping
func TestBalanceTypeStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2b", balance.BalanceTypeToken.String())
	require.Equal(t, "2e", balance.BalanceTypeTokenLocked.String())
	require.Equal(t, "30", balance.BalanceTypeIssuance.String())

	name, err := balance.BalanceTypeToStringMapValue(balance.BalanceTypeToken)
	require.NoError(t, err)
	require.Equal(t, "Token", name)

	bt, err := balance.StringToBalanceType("TokenLocked")
	require.NoError(t, err)
	require.Equal(t, balance.BalanceTypeTokenLocked, bt)

	_, err = balance.BalanceTypeToStringMapValue(balance.BalanceType(0x7f))
	require.Error(t, err)
	_, err = balance.StringToBalanceType("NoSuchType")
	require.Error(t, err)
}

// TestTokenKey - Checking the token id key attribute rendering
func TestTokenKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "42", balance.TokenKey(42))

	token, err := balance.ParseTokenKey("42")
	require.NoError(t, err)
	require.Equal(t, uint64(42), token)

	_, err = balance.ParseTokenKey("not-a-token")
	require.Error(t, err)
}
