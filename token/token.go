package token

import (
	"math/big"

	"github.com/dima-brook/pallet-erc1155/core"
	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/types"
)

// Ledger1155 is a chaincode keeping fungible balances for a family of
// tokens identified by uint64 ids. For every token the ledger maintains
// one conservation rule: the recorded issuance equals the sum of all
// account balances of that token. State-changing operations keep the
// rule by construction, either with direct paired writes or by settling
// the imbalance values the currency operations hand out.
//
// Implements core.BaseContractInterface by embedding core.BaseContract.
type Ledger1155 struct {
	core.BaseContract
}

var (
	_ core.BaseContractInterface = &Ledger1155{}
	_ core.Router                = &Ledger1155{}
)

// New returns an empty contract instance ready for configuration.
func New() *Ledger1155 {
	return &Ledger1155{}
}

// Symbol returns the ticker symbol of the ledger
func (t *Ledger1155) Symbol() string {
	return t.ContractConfig().Symbol
}

// freeBalance reads the free balance of an account for a token. An
// absent record reads as zero, so accounts with a zero balance and
// accounts that never held the token are the same thing.
func (t *Ledger1155) freeBalance(address *types.Address, token uint64) (*big.Int, error) {
	return balance.Get(t.GetStub(), balance.BalanceTypeToken, address.String(), token)
}

// accountExists reports whether the account holds a nonzero free
// balance of the token. With absence reading as zero there is no other
// notion of account existence.
func (t *Ledger1155) accountExists(address *types.Address, token uint64) (bool, error) {
	bal, err := t.freeBalance(address, token)
	if err != nil {
		return false, err
	}

	return bal.Sign() != 0, nil
}
