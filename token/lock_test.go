package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLockUnlock - Checking that locking reclassifies funds without leaving the account
func TestLockUnlock(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.TxInvoke(ccName, "mint", user1.Address(), "1", "100")
	ledger.LastEvent(ccName)

	user1.TxInvoke(ccName, "lock", "1", "40")
	user1.BalanceShouldBe(ccName, 1, 60)
	user1.LockedBalanceShouldBe(ccName, 1, 40)
	user1.TotalBalanceShouldBe(ccName, 1, 100)
	ledger.IssuanceShouldBe(ccName, 1, 100)

	// locking is no transfer, nothing is emitted
	require.Nil(t, ledger.LastEvent(ccName))

	user1.TxInvoke(ccName, "unlock", "1", "15")
	user1.BalanceShouldBe(ccName, 1, 75)
	user1.LockedBalanceShouldBe(ccName, 1, 25)
	user1.TotalBalanceShouldBe(ccName, 1, 100)

	err := user1.TxInvokeWithError(ccName, "lock", "1", "1000")
	require.EqualError(t, err, "out of funds")

	err = user1.TxInvokeWithError(ccName, "unlock", "1", "1000")
	require.EqualError(t, err, "out of funds")

	t.Run("locking zero is a no-op", func(t *testing.T) {
		user1.TxInvoke(ccName, "lock", "1", "0")
		user1.BalanceShouldBe(ccName, 1, 75)
		user1.LockedBalanceShouldBe(ccName, 1, 25)
	})
}

// TestTransferSpendsOnlyFree - Checking that locked funds cannot be spent
func TestTransferSpendsOnlyFree(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()
	user2 := ledger.NewWallet()

	user1.TxInvoke(ccName, "mint", user1.Address(), "1", "100")
	user1.TxInvoke(ccName, "lock", "1", "90")

	err := user1.TxInvokeWithError(ccName, "safeTransferFrom", user1.Address(), user2.Address(), "1", "50")
	require.EqualError(t, err, "out of funds")

	user1.TxInvoke(ccName, "safeTransferFrom", user1.Address(), user2.Address(), "1", "10")
	user1.BalanceShouldBe(ccName, 1, 0)
	user1.LockedBalanceShouldBe(ccName, 1, 90)
	user2.BalanceShouldBe(ccName, 1, 10)

	// burn is stopped by the same rule
	err = user1.TxInvokeWithError(ccName, "burn", user1.Address(), "1", "50")
	require.EqualError(t, err, "debiting account: out of funds")
}

// TestLockedBalanceSeeding - Checking the locked balance queries over directly seeded state
func TestLockedBalanceSeeding(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	user1.AddLockedBalance(ccName, 1, 55)
	ledger.AddIssuance(ccName, 1, 55)

	user1.BalanceShouldBe(ccName, 1, 0)
	user1.LockedBalanceShouldBe(ccName, 1, 55)
	user1.TotalBalanceShouldBe(ccName, 1, 55)
	ledger.IssuanceShouldBe(ccName, 1, 55)

	user1.TxInvoke(ccName, "unlock", "1", "55")
	user1.BalanceShouldBe(ccName, 1, 55)
	user1.LockedBalanceShouldBe(ccName, 1, 0)
}
