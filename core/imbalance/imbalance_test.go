package imbalance_test

import (
	"math/big"
	"testing"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/imbalance"
	"github.com/dima-brook/pallet-erc1155/mock/stub"
	"github.com/stretchr/testify/require"
)

const testToken = uint64(1)

func newStub(t *testing.T) *stub.Stub {
	st := stub.NewMockStub("imbalance", nil)
	st.MockTransactionStart("imbalance")
	t.Cleanup(func() { st.MockTransactionEnd("") })
	return st
}

func issuanceShouldBe(t *testing.T, st *stub.Stub, expected int64) {
	issuance, err := balance.GetIssuance(st, testToken)
	require.NoError(t, err)
	require.Equal(t, expected, issuance.Int64())
}

// TestPositiveSettle - Checking that settling a surplus raises the issuance once
func TestPositiveSettle(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	pos := imbalance.NewPositive(st, testToken, big.NewInt(100))

	require.NoError(t, pos.Settle())
	issuanceShouldBe(t, st, 100)

	// a second settle is the deferred backstop and must change nothing
	require.NoError(t, pos.Settle())
	issuanceShouldBe(t, st, 100)
	require.True(t, pos.Consumed())
}

// TestNegativeSettleClamps - Checking that settling a deficit clamps the issuance at zero
func TestNegativeSettleClamps(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	require.NoError(t, balance.AddIssuance(st, testToken, big.NewInt(50)))

	neg := imbalance.NewNegative(st, testToken, big.NewInt(80))
	require.NoError(t, neg.Settle())
	issuanceShouldBe(t, st, 0)
}

// TestZeroSettleWritesNothing - Checking that a zero magnitude settles without touching state
func TestZeroSettleWritesNothing(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	pos := imbalance.NewPositive(st, testToken, new(big.Int))
	require.NoError(t, pos.Settle())

	neg := imbalance.NewNegative(st, testToken, nil)
	require.NoError(t, neg.Settle())

	require.Empty(t, st.State)
}

// TestSplit - Checking that split partitions into min(target, magnitude) and remainder
func TestSplit(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	first, second := imbalance.NewPositive(st, testToken, big.NewInt(100)).Split(big.NewInt(30))
	require.Equal(t, int64(30), first.Peek().Int64())
	require.Equal(t, int64(70), second.Peek().Int64())
	require.Equal(t, testToken, second.Token())
	first.Forgo()
	second.Forgo()

	// a target beyond the magnitude takes everything
	first, second = imbalance.NewPositive(st, testToken, big.NewInt(100)).Split(big.NewInt(150))
	require.Equal(t, int64(100), first.Peek().Int64())
	require.True(t, second.IsZero())
	first.Forgo()
	require.True(t, second.DropZero())
}

// TestMerge - Checking that merge adds magnitudes and consumes the argument
func TestMerge(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	a := imbalance.NewNegative(st, testToken, big.NewInt(30))
	b := imbalance.NewNegative(st, testToken, big.NewInt(70))

	merged := a.Merge(b)
	require.Equal(t, int64(100), merged.Peek().Int64())
	require.Equal(t, testToken, merged.Token())
	require.True(t, b.Consumed())
	merged.Forgo()
}

// TestSubsume - Checking that subsume absorbs the argument in place
func TestSubsume(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	a := imbalance.NewPositive(st, testToken, big.NewInt(1))
	b := imbalance.NewPositive(st, testToken, big.NewInt(2))

	a.Subsume(b)
	require.Equal(t, int64(3), a.Peek().Int64())
	require.True(t, b.Consumed())
	a.Forgo()
}

// TestOffset - Checking the three polarities of netting a surplus against a deficit
func TestOffset(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	sig := imbalance.NewPositive(st, testToken, big.NewInt(100)).
		Offset(imbalance.NewNegative(st, testToken, big.NewInt(30)))
	pos, ok := sig.Positive()
	require.True(t, ok)
	require.Equal(t, int64(70), pos.Peek().Int64())
	pos.Forgo()

	sig = imbalance.NewPositive(st, testToken, big.NewInt(30)).
		Offset(imbalance.NewNegative(st, testToken, big.NewInt(100)))
	neg, ok := sig.Negative()
	require.True(t, ok)
	require.Equal(t, int64(70), neg.Peek().Int64())
	neg.Forgo()

	sig = imbalance.NewPositive(st, testToken, big.NewInt(42)).
		Offset(imbalance.NewNegative(st, testToken, big.NewInt(42)))
	require.True(t, sig.IsEmpty())
	require.Equal(t, int64(0), sig.Peek().Int64())

	// settling an exact cancellation writes nothing
	require.NoError(t, sig.Settle())
	require.Empty(t, st.State)
}

// TestOffsetFromNegative - Checking that offsetting from the deficit side mirrors the polarity
func TestOffsetFromNegative(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	sig := imbalance.NewNegative(st, testToken, big.NewInt(100)).
		Offset(imbalance.NewPositive(st, testToken, big.NewInt(30)))
	neg, ok := sig.Negative()
	require.True(t, ok)
	require.Equal(t, int64(70), neg.Peek().Int64())
	neg.Forgo()
}

// TestConsumedReusePanics - Checking that touching a consumed value is a defect
func TestConsumedReusePanics(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	pos := imbalance.NewPositive(st, testToken, big.NewInt(5))
	require.NoError(t, pos.Settle())

	require.PanicsWithValue(t, "imbalance: consumed value reused", func() { pos.Peek() })
	require.PanicsWithValue(t, "imbalance: consumed value reused", func() { pos.Forgo() })
	require.PanicsWithValue(t, "imbalance: consumed value reused", func() { pos.Split(big.NewInt(1)) })

	neg := imbalance.NewNegative(st, testToken, big.NewInt(5))
	neg.Forgo()
	require.PanicsWithValue(t, "imbalance: consumed value reused", func() { neg.IsZero() })
}

// TestTokenMismatchPanics - Checking that values of different tokens never net
func TestTokenMismatchPanics(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	pos := imbalance.NewPositive(st, testToken, big.NewInt(5))
	neg := imbalance.NewNegative(st, testToken+1, big.NewInt(5))

	require.PanicsWithValue(t, "imbalance: token mismatch", func() { pos.Offset(neg) })
}

// TestNegativeAmountPanics - Checking that magnitudes are non-negative by construction
func TestNegativeAmountPanics(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	require.PanicsWithValue(t, "imbalance: negative amount", func() {
		imbalance.NewPositive(st, testToken, big.NewInt(-1))
	})
}

// TestDropZero - Checking that only a zero magnitude can be dropped
func TestDropZero(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	zero := imbalance.NewPositive(st, testToken, new(big.Int))
	require.True(t, zero.DropZero())
	require.True(t, zero.Consumed())

	nonzero := imbalance.NewNegative(st, testToken, big.NewInt(1))
	require.False(t, nonzero.DropZero())
	require.False(t, nonzero.Consumed())
	nonzero.Forgo()
}

// TestForgoLeavesIssuanceAlone - Checking that forgo discharges without state writes
func TestForgoLeavesIssuanceAlone(t *testing.T) {
	t.Parallel()

	st := newStub(t)
	pos := imbalance.NewPositive(st, testToken, big.NewInt(100))
	pos.Forgo()

	issuanceShouldBe(t, st, 0)
	require.Empty(t, st.State)
}

// TestMustSettleBackstop - Checking that a deferred MustSettle after a normal consume is harmless
func TestMustSettleBackstop(t *testing.T) {
	t.Parallel()

	st := newStub(t)

	func() {
		neg := imbalance.NewNegative(st, testToken, big.NewInt(10))
		defer neg.MustSettle()
		neg.Forgo()
	}()

	issuanceShouldBe(t, st, 0)
}
