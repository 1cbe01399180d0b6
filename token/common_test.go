package token_test

import (
	"encoding/json"
	"testing"

	"github.com/dima-brook/pallet-erc1155/core/config"
	"github.com/dima-brook/pallet-erc1155/core/types"
	"github.com/dima-brook/pallet-erc1155/mock"
	"github.com/dima-brook/pallet-erc1155/token"
	"github.com/stretchr/testify/require"
)

const (
	ccName     = "pallet"
	testSymbol = "PAL"
	testURI    = "https://tokens.example/{id}.json"
)

func makeLedgerConfig(t *testing.T, uri string) string {
	cfgBytes, err := json.Marshal(&config.Config{
		Symbol:       testSymbol,
		InitialToken: config.InitialToken{ID: 1},
		URI:          uri,
	})
	require.NoError(t, err)

	return string(cfgBytes)
}

func newTokenLedger(t *testing.T) *mock.Ledger {
	ledger := mock.NewLedger(t)
	initMsg := ledger.NewCC(ccName, token.New(), makeLedgerConfig(t, ""))
	require.Empty(t, initMsg)

	return ledger
}

func zeroAddress(t *testing.T) string {
	addr, err := types.AddrFromBytes(make([]byte, types.AddressLength))
	require.NoError(t, err)

	return addr.String()
}

func lastTransferEvent(t *testing.T, ledger *mock.Ledger) *token.TransferSingle {
	event := ledger.LastEvent(ccName)
	require.NotNil(t, event)
	require.Equal(t, token.TransferSingleEvent, event.GetEventName())

	payload := new(token.TransferSingle)
	require.NoError(t, json.Unmarshal(event.GetPayload(), payload))

	return payload
}
