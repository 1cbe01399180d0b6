package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSlash - Checking that slash takes what it can and reports the rest
func TestSlash(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.AddBalance(ccName, 1, 100)
	ledger.AddIssuance(ccName, 1, 100)

	t.Run("a covered slash debits exactly the value", func(t *testing.T) {
		resp := user1.Invoke(ccName, "slash", user1.Address(), "1", "30")
		require.Equal(t, `{"slashed":"30","remaining":"0"}`, resp)
		user1.BalanceShouldBe(ccName, 1, 70)
		ledger.IssuanceShouldBe(ccName, 1, 70)

		event := lastTransferEvent(t, ledger)
		require.Equal(t, user1.Address(), event.From)
		require.Equal(t, "", event.To)
		require.Equal(t, "30", event.Amount.String())
	})

	t.Run("an uncovered slash zeroes the balance and reports the full value", func(t *testing.T) {
		resp := user1.Invoke(ccName, "slash", user1.Address(), "1", "100")
		require.Equal(t, `{"slashed":"70","remaining":"100"}`, resp)
		user1.BalanceShouldBe(ccName, 1, 0)
		ledger.IssuanceShouldBe(ccName, 1, 0)

		event := lastTransferEvent(t, ledger)
		require.Equal(t, "70", event.Amount.String())
	})

	t.Run("slashing an empty account takes nothing and emits nothing", func(t *testing.T) {
		ledger.LastEvent(ccName)

		resp := user1.Invoke(ccName, "slash", user1.Address(), "1", "50")
		require.Equal(t, `{"slashed":"0","remaining":"50"}`, resp)
		require.Nil(t, ledger.LastEvent(ccName))
	})

	t.Run("slashing for zero is a no-op", func(t *testing.T) {
		resp := user1.Invoke(ccName, "slash", user1.Address(), "1", "0")
		require.Equal(t, `{"slashed":"0","remaining":"0"}`, resp)
		require.Nil(t, ledger.LastEvent(ccName))
	})

	err := user1.InvokeWithError(ccName, "slash", user1.Address(), "1", "-1")
	require.EqualError(t, err, "amount must be non-negative")
}

// TestCanSlash - Checking that can slash means the whole value gets covered by zeroing
func TestCanSlash(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.AddBalance(ccName, 1, 70)
	ledger.AddIssuance(ccName, 1, 70)

	require.Equal(t, "true", user1.Invoke(ccName, "canSlash", user1.Address(), "1", "70"))
	require.Equal(t, "true", user1.Invoke(ccName, "canSlash", user1.Address(), "1", "100"))
	require.Equal(t, "false", user1.Invoke(ccName, "canSlash", user1.Address(), "1", "30"))
}

// TestWithdraw - Checking the supply level debit
func TestWithdraw(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()
	user2 := ledger.NewWallet()

	user1.AddBalance(ccName, 1, 100)
	ledger.AddIssuance(ccName, 1, 100)

	user1.Invoke(ccName, "withdraw", user1.Address(), "1", "40")
	user1.BalanceShouldBe(ccName, 1, 60)
	ledger.IssuanceShouldBe(ccName, 1, 60)

	err := user1.InvokeWithError(ccName, "withdraw", user1.Address(), "1", "1000")
	require.EqualError(t, err, "out of funds")
	user1.BalanceShouldBe(ccName, 1, 60)
	ledger.IssuanceShouldBe(ccName, 1, 60)

	// withdrawing zero succeeds even for an account the ledger never saw
	user2.Invoke(ccName, "withdraw", user2.Address(), "1", "0")
	user2.BalanceShouldBe(ccName, 1, 0)
	ledger.IssuanceShouldBe(ccName, 1, 60)
}

// TestDepositIntoExisting - Checking that the credit requires an existing account except for zero
func TestDepositIntoExisting(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()
	user2 := ledger.NewWallet()

	user1.AddBalance(ccName, 1, 10)
	ledger.AddIssuance(ccName, 1, 10)

	user1.Invoke(ccName, "depositIntoExisting", user1.Address(), "1", "50")
	user1.BalanceShouldBe(ccName, 1, 60)
	ledger.IssuanceShouldBe(ccName, 1, 60)

	err := user2.InvokeWithError(ccName, "depositIntoExisting", user2.Address(), "1", "50")
	require.EqualError(t, err, "account not found")

	// the zero check comes before the existence check
	user2.Invoke(ccName, "depositIntoExisting", user2.Address(), "1", "0")
	user2.BalanceShouldBe(ccName, 1, 0)
	ledger.IssuanceShouldBe(ccName, 1, 60)
}

// TestDepositCreating - Checking that the credit brings the account into existence
func TestDepositCreating(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.Invoke(ccName, "depositCreating", user1.Address(), "1", "50")
	user1.BalanceShouldBe(ccName, 1, 50)
	ledger.IssuanceShouldBe(ccName, 1, 50)

	user1.Invoke(ccName, "depositCreating", user1.Address(), "1", "25")
	user1.BalanceShouldBe(ccName, 1, 75)
	ledger.IssuanceShouldBe(ccName, 1, 75)
}

// TestMakeFreeBalanceBe - Checking that forcing a balance settles the difference both ways
func TestMakeFreeBalanceBe(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	t.Run("raising an empty balance records the surplus", func(t *testing.T) {
		user1.Invoke(ccName, "makeFreeBalanceBe", user1.Address(), "1", "100")
		user1.BalanceShouldBe(ccName, 1, 100)
		ledger.IssuanceShouldBe(ccName, 1, 100)
	})

	t.Run("lowering the balance records the deficit", func(t *testing.T) {
		user1.Invoke(ccName, "makeFreeBalanceBe", user1.Address(), "1", "30")
		user1.BalanceShouldBe(ccName, 1, 30)
		ledger.IssuanceShouldBe(ccName, 1, 30)
	})

	t.Run("forcing the current value changes nothing", func(t *testing.T) {
		user1.Invoke(ccName, "makeFreeBalanceBe", user1.Address(), "1", "30")
		user1.BalanceShouldBe(ccName, 1, 30)
		ledger.IssuanceShouldBe(ccName, 1, 30)
	})

	err := user1.InvokeWithError(ccName, "makeFreeBalanceBe", user1.Address(), "1", "-1")
	require.EqualError(t, err, "amount must be non-negative")
}

// TestIssue - Checking that issuing mints supply and credits it in one move
func TestIssue(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.Invoke(ccName, "issue", user1.Address(), "1", "50")
	user1.BalanceShouldBe(ccName, 1, 50)
	ledger.IssuanceShouldBe(ccName, 1, 50)
	conservationShouldHold(t, user1, 1)

	user1.Invoke(ccName, "issue", user1.Address(), "1", "0")
	user1.BalanceShouldBe(ccName, 1, 50)
	ledger.IssuanceShouldBe(ccName, 1, 50)
}

// TestBurnIssuance - Checking that burning supply debits the account first
func TestBurnIssuance(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.AddBalance(ccName, 1, 100)
	ledger.AddIssuance(ccName, 1, 100)

	user1.Invoke(ccName, "burnIssuance", user1.Address(), "1", "40")
	user1.BalanceShouldBe(ccName, 1, 60)
	ledger.IssuanceShouldBe(ccName, 1, 60)
	conservationShouldHold(t, user1, 1)

	// the debit fails before the issuance is touched
	err := user1.InvokeWithError(ccName, "burnIssuance", user1.Address(), "1", "1000")
	require.EqualError(t, err, "out of funds")
	user1.BalanceShouldBe(ccName, 1, 60)
	ledger.IssuanceShouldBe(ccName, 1, 60)
}

// TestCurrencyTransfer - Checking the transfer that bypasses the token level authorization
func TestCurrencyTransfer(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()
	user2 := ledger.NewWallet()

	user1.AddBalance(ccName, 1, 100)
	ledger.AddIssuance(ccName, 1, 100)

	user1.TxInvoke(ccName, "currencyTransfer", user2.Address(), "1", "25")
	user1.BalanceShouldBe(ccName, 1, 75)
	user2.BalanceShouldBe(ccName, 1, 25)
	ledger.IssuanceShouldBe(ccName, 1, 100)

	event := lastTransferEvent(t, ledger)
	require.Equal(t, user1.Address(), event.From)
	require.Equal(t, user2.Address(), event.To)
	require.Equal(t, "25", event.Amount.String())

	err := user1.TxInvokeWithError(ccName, "currencyTransfer", user2.Address(), "1", "1000")
	require.EqualError(t, err, "out of funds")
}
