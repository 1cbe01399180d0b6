package core_test

import (
	"encoding/json"
	"testing"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/config"
	"github.com/dima-brook/pallet-erc1155/mock"
	"github.com/dima-brook/pallet-erc1155/token"
	"github.com/stretchr/testify/require"
)

const ccName = "pallet"

func makeConfig(t *testing.T, symbol string, initialID uint64, uri string) string {
	cfgBytes, err := json.Marshal(&config.Config{
		Symbol:       symbol,
		InitialToken: config.InitialToken{ID: initialID},
		URI:          uri,
	})
	require.NoError(t, err)

	return string(cfgBytes)
}

// TestInitGenesis - Checking that instantiation seeds the counter, the issuance and the template
func TestInitGenesis(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 7, "https://tokens.example/{id}.json"))
	require.Empty(t, initMsg)

	user := ledger.NewWallet()

	require.Equal(t, "7", user.Invoke(ccName, "lastTokenID"))
	ledger.IssuanceShouldBe(ccName, 7, 0)
	require.Equal(t, `"https://tokens.example/{id}.json"`, user.Invoke(ccName, "uri", "0"))
}

// TestInitRejectsBadConfig - Checking the Init failure messages for broken configurations
func TestInitRejectsBadConfig(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)

	initMsg := ledger.NewCC("nosymbol", token.New(), `{"initial_token": {"id": 1}}`)
	require.Equal(t,
		"init: validating config: unmarshalling base config data failed: 'symbol' is empty",
		initMsg)

	initMsg = ledger.NewCC("posargs", token.New(), "just-a-string")
	require.Equal(t,
		"init: parsing args old way: required args length is '2' or '3', passed 1",
		initMsg)
}

// TestUpgradeKeepsCounter - Checking that a repeated Init never rewinds handed out ids
func TestUpgradeKeepsCounter(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 1, ""))
	require.Empty(t, initMsg)

	user := ledger.NewWallet()
	require.Equal(t, "1", user.TxInvoke(ccName, "createToken", "100"))
	require.Equal(t, "2", user.Invoke(ccName, "lastTokenID"))

	st := ledger.GetStub(ccName)
	res := st.MockInit("3c210bb3cc4611ee", [][]byte{[]byte(makeConfig(t, "PAL", 99, "ipfs://upgraded/{id}"))})
	require.EqualValues(t, 200, res.GetStatus(), res.GetMessage())

	require.Equal(t, "2", user.Invoke(ccName, "lastTokenID"))
	require.Equal(t, `"ipfs://upgraded/{id}"`, user.Invoke(ccName, "uri", "0"))
}

// TestUnknownMethod - Checking the dispatch error for a selector outside the method table
func TestUnknownMethod(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 1, ""))
	require.Empty(t, initMsg)

	user := ledger.NewWallet()

	err := user.InvokeWithError(ccName, "emissionAdd", user.Address(), "100")
	require.EqualError(t, err, "invoke: finding method: method 'emissionAdd' not found")
}

// TestInvalidTxID - Checking that a transaction id that is not hex is rejected
func TestInvalidTxID(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 1, ""))
	require.Empty(t, initMsg)

	st := ledger.GetStub(ccName)
	res := st.MockInvoke("not-hex", [][]byte{[]byte("lastTokenID")})
	require.EqualValues(t, 500, res.GetStatus())
	require.Contains(t, res.GetMessage(), "invoke: validating transaction ID")
}

// TestQueryLeavesNoTrace - Checking that queries change neither state nor events
func TestQueryLeavesNoTrace(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 1, "https://tokens.example/{id}.json"))
	require.Empty(t, initMsg)

	user := ledger.NewWallet()
	user.TxInvoke(ccName, "mint", user.Address(), "1", "100")
	ledger.LastEvent(ccName)

	st := ledger.GetStub(ccName)
	snapshot := make(map[string][]byte, len(st.State))
	for key, value := range st.State {
		snapshot[key] = value
	}

	user.Invoke(ccName, "balanceOf", user.Address(), "1")
	user.Invoke(ccName, "totalIssuance", "1")
	user.Invoke(ccName, "holders", "1")
	user.Invoke(ccName, "metadata")
	user.Invoke(ccName, "lastTokenID")

	require.Equal(t, snapshot, st.State)
	require.Nil(t, ledger.LastEvent(ccName))
}

// TestArgumentCountGuard - Checking that a wrong argument count is rejected before any work
func TestArgumentCountGuard(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 1, ""))
	require.Empty(t, initMsg)

	user := ledger.NewWallet()

	err := user.InvokeWithError(ccName, "lastTokenID", "extra")
	require.EqualError(t, err, "incorrect number of arguments: 1, expected 0")

	err = user.TxInvokeWithError(ccName, "mint", user.Address(), "1", "100", "extra")
	require.EqualError(t, err, "incorrect number of arguments: 5, expected 4")
}

// TestCreateIndexRoute - Checking the service route that backfills the owner index
func TestCreateIndexRoute(t *testing.T) {
	t.Parallel()

	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeConfig(t, "PAL", 1, ""))
	require.Empty(t, initMsg)

	user := ledger.NewWallet()

	resp := user.Invoke(ccName, "createIndex", "Token")
	require.Equal(t, `{"status": "success"}`, resp)

	created, err := balance.HasIndexCreatedFlag(ledger.GetStub(ccName), balance.BalanceTypeToken)
	require.NoError(t, err)
	require.True(t, created)

	err = user.InvokeWithError(ccName, "createIndex", "Bogus")
	require.EqualError(t, err, "invoke: parsing object type: unknown BalanceType string: Bogus")

	err = user.InvokeWithError(ccName, "createIndex")
	require.EqualError(t, err, "invoke: incorrect number of arguments: 0")
}
