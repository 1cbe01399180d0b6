package token

import (
	"encoding/json"
	"fmt"
	"math/big"

	bignum "github.com/dima-brook/pallet-erc1155/core/types/big"
)

// TransferSingleEvent is the name of the event set for every balance
// movement. The chaincode sets at most one event per transaction, so in
// batch operations the last item wins.
const TransferSingleEvent = "TransferSingle"

// TransferSingle is the payload of the transfer event. An empty From
// marks a mint, an empty To marks a burn or a slash.
type TransferSingle struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Token  uint64      `json:"token"`
	Amount *bignum.Int `json:"amount"`
}

// emitTransferSingle sets the transfer event on the current transaction.
func (t *Ledger1155) emitTransferSingle(from string, to string, token uint64, amount *big.Int) error {
	payload, err := json.Marshal(&TransferSingle{
		From:   from,
		To:     to,
		Token:  token,
		Amount: new(bignum.Int).SetBig(amount),
	})
	if err != nil {
		return fmt.Errorf("marshalling transfer event: %w", err)
	}

	if err = t.GetStub().SetEvent(TransferSingleEvent, payload); err != nil {
		return fmt.Errorf("setting transfer event: %w", err)
	}

	return nil
}
