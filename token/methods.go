package token

import (
	"sort"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/types"
	bignum "github.com/dima-brook/pallet-erc1155/core/types/big"
)

// Metadata is a struct for metadata
type Metadata struct {
	Symbol      string      `json:"symbol"`
	LastTokenID uint64      `json:"last_token_id"` //nolint:tagliatelle
	URI         string      `json:"uri"`
	Methods     []string    `json:"methods"`
	Tokens      []TokenInfo `json:"tokens"`
}

// TokenInfo is one row of the issuance table.
type TokenInfo struct {
	Token    uint64      `json:"token"`
	Issuance *bignum.Int `json:"issuance"`
}

// QueryMetadata returns Metadata
func (t *Ledger1155) QueryMetadata() (*Metadata, error) {
	stub := t.GetStub()

	lastID, err := balance.LastTokenID(stub)
	if err != nil {
		return &Metadata{}, err
	}

	uri, err := balance.GetURI(stub)
	if err != nil {
		return &Metadata{}, err
	}

	issuances, err := balance.ListIssuances(stub)
	if err != nil {
		return &Metadata{}, err
	}
	sort.Slice(issuances, func(i, j int) bool { return issuances[i].Token < issuances[j].Token })

	m := &Metadata{
		Symbol:      t.Symbol(),
		LastTokenID: lastID,
		URI:         uri,
		Methods:     t.GetMethods(t),
	}

	for _, iss := range issuances {
		m.Tokens = append(m.Tokens, TokenInfo{
			Token:    iss.Token,
			Issuance: new(bignum.Int).SetBig(iss.Issuance),
		})
	}

	return m, nil
}

// QueryTotalIssuance returns the recorded issuance of the token.
func (t *Ledger1155) QueryTotalIssuance(token uint64) (*bignum.Int, error) {
	issuance, err := t.CurrencyOf(token).TotalIssuance()
	if err != nil {
		return nil, err
	}

	return new(bignum.Int).SetBig(issuance), nil
}

// QueryLastTokenID returns the allocation counter, the next token id to
// hand out.
func (t *Ledger1155) QueryLastTokenID() (uint64, error) {
	return balance.LastTokenID(t.GetStub())
}

// QueryTotalBalance returns the free plus locked balance of the account
// for the token.
func (t *Ledger1155) QueryTotalBalance(owner *types.Address, token uint64) (*bignum.Int, error) {
	total, err := t.CurrencyOf(token).TotalBalance(owner)
	if err != nil {
		return nil, err
	}

	return new(bignum.Int).SetBig(total), nil
}

// QueryCanSlash reports whether slashing the account for value would
// cover the whole value.
func (t *Ledger1155) QueryCanSlash(owner *types.Address, token uint64, value *bignum.Int) (bool, error) {
	return t.CurrencyOf(token).CanSlash(owner, value.BigInt())
}

// Holder is one owner of a token with its free balance.
type Holder struct {
	Address string      `json:"address"`
	Balance *bignum.Int `json:"balance"`
}

// QueryHolders returns every account holding a free balance of the
// token, walking the inverse index.
func (t *Ledger1155) QueryHolders(token uint64) ([]Holder, error) {
	owners, err := balance.ListOwnersByToken(t.GetStub(), balance.BalanceTypeToken, token)
	if err != nil {
		return nil, err
	}

	holders := make([]Holder, 0, len(owners))
	for _, owner := range owners {
		if owner.Balance.Sign() == 0 {
			continue
		}
		holders = append(holders, Holder{
			Address: owner.Address,
			Balance: new(bignum.Int).SetBig(owner.Balance),
		})
	}

	return holders, nil
}
