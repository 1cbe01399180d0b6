package token_test

import (
	"encoding/json"
	"testing"

	"github.com/dima-brook/pallet-erc1155/mock"
	"github.com/dima-brook/pallet-erc1155/token"
	"github.com/stretchr/testify/require"
)

// TestCreateToken - Checking that creating a token hands out the counter value and seeds the books
func TestCreateToken(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()

	require.Equal(t, "1", user1.Invoke(ccName, "lastTokenID"))

	resp := user1.TxInvoke(ccName, "createToken", "500")
	require.Equal(t, "1", resp)
	user1.BalanceShouldBe(ccName, 1, 500)
	ledger.IssuanceShouldBe(ccName, 1, 500)
	require.Equal(t, "2", user1.Invoke(ccName, "lastTokenID"))
	conservationShouldHold(t, user1, 1)

	// seeding the creator is no transfer, nothing is emitted
	require.Nil(t, ledger.LastEvent(ccName))

	resp = user1.TxInvoke(ccName, "createToken", "0")
	require.Equal(t, "2", resp)
	user1.BalanceShouldBe(ccName, 2, 0)
	ledger.IssuanceShouldBe(ccName, 2, 0)
	require.Equal(t, "3", user1.Invoke(ccName, "lastTokenID"))

	err := user1.TxInvokeWithError(ccName, "createToken", "-5")
	require.EqualError(t, err, "amount must be non-negative")
}

// TestURI - Checking the shared metadata template and the counter rule guarding it
func TestURI(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeLedgerConfig(t, testURI))
	require.Empty(t, initMsg)

	user1 := ledger.NewWallet()

	require.Equal(t, `"`+testURI+`"`, user1.Invoke(ccName, "uri", "0"))

	// the counter has not handed out this id yet
	err := user1.InvokeWithError(ccName, "uri", "1")
	require.EqualError(t, err, "token not found")

	user1.TxInvoke(ccName, "createToken", "100")
	require.Equal(t, `"`+testURI+`"`, user1.Invoke(ccName, "uri", "1"))

	user1.TxInvoke(ccName, "setURI", "ipfs://meta/{id}")
	require.Equal(t, `"ipfs://meta/{id}"`, user1.Invoke(ccName, "uri", "1"))
	require.Equal(t, `"ipfs://meta/{id}"`, user1.Invoke(ccName, "uri", "0"))
}

// TestMetadata - Checking the contract summary served to explorers
func TestMetadata(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeLedgerConfig(t, testURI))
	require.Empty(t, initMsg)

	user1 := ledger.NewWallet()

	user1.TxInvoke(ccName, "mint", user1.Address(), "5", "40")
	user1.TxInvoke(ccName, "createToken", "500")

	meta := ledger.Metadata(ccName)
	require.Equal(t, testSymbol, meta.Symbol)
	require.Equal(t, uint64(2), meta.LastTokenID)
	require.Equal(t, testURI, meta.URI)

	require.True(t, meta.MethodExists("mint"))
	require.True(t, meta.MethodExists("safeTransferFrom"))
	require.True(t, meta.MethodExists("makeFreeBalanceBe"))
	require.False(t, meta.MethodExists("emissionAdd"))
	require.Len(t, meta.Methods, 30)

	// issuance rows come sorted by token id
	require.Len(t, meta.Tokens, 2)
	require.Equal(t, uint64(1), meta.Tokens[0].Token)
	require.Equal(t, "500", meta.Tokens[0].Issuance.String())
	require.Equal(t, uint64(5), meta.Tokens[1].Token)
	require.Equal(t, "40", meta.Tokens[1].Issuance.String())
}

// TestApprovalStubs - Checking that the operator approval surface reports itself unsupported
func TestApprovalStubs(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()
	user2 := ledger.NewWallet()

	err := user1.TxInvokeWithError(ccName, "setApprovalForAll", user2.Address(), "true")
	require.EqualError(t, err, "operator approvals are not supported")

	err = user1.InvokeWithError(ccName, "isApprovedForAll", user1.Address(), user2.Address())
	require.EqualError(t, err, "operator approvals are not supported")
}

// TestHolders - Checking that the holder listing follows balances and skips emptied accounts
func TestHolders(t *testing.T) {
	t.Parallel()

	ledger := newTokenLedger(t)
	user1 := ledger.NewWallet()
	user2 := ledger.NewWallet()

	user1.TxInvoke(ccName, "mint", user1.Address(), "1", "60")
	user1.TxInvoke(ccName, "mint", user2.Address(), "1", "40")

	var holders []token.Holder
	resp := user1.Invoke(ccName, "holders", "1")
	require.NoError(t, json.Unmarshal([]byte(resp), &holders))
	require.Len(t, holders, 2)

	byAddress := make(map[string]string, len(holders))
	for _, holder := range holders {
		byAddress[holder.Address] = holder.Balance.String()
	}
	require.Equal(t, "60", byAddress[user1.Address()])
	require.Equal(t, "40", byAddress[user2.Address()])

	user2.TxInvoke(ccName, "burn", user2.Address(), "1", "40")

	holders = nil
	resp = user1.Invoke(ccName, "holders", "1")
	require.NoError(t, json.Unmarshal([]byte(resp), &holders))
	require.Len(t, holders, 1)
	require.Equal(t, user1.Address(), holders[0].Address)
}
