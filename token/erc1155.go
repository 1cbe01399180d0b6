package token

import (
	"fmt"
	"math/big"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/types"
	bignum "github.com/dima-brook/pallet-erc1155/core/types/big"
)

// TxMint credits amount of token to the account, raising the issuance
// by the same amount. Minting zero writes nothing and emits nothing.
func (t *Ledger1155) TxMint(_ *types.Sender, to *types.Address, token uint64, amount *big.Int) error {
	if to == nil || to.IsZero() {
		return ErrAccountNotFound
	}

	if amount.Sign() < 0 {
		return balance.ErrAmountMustBeNonNegative
	}

	if amount.Sign() == 0 {
		return nil
	}

	pos, err := t.CurrencyOf(token).DepositCreating(to, amount)
	if err != nil {
		return fmt.Errorf("crediting account: %w", err)
	}

	if err = pos.Settle(); err != nil {
		return fmt.Errorf("raising issuance: %w", err)
	}

	return t.emitTransferSingle("", to.String(), token, amount)
}

// TxBurn debits amount of token from the account, lowering the issuance
// by the same amount. Only the account owner may burn. Burning zero
// writes nothing and emits nothing.
func (t *Ledger1155) TxBurn(sender *types.Sender, from *types.Address, token uint64, amount *big.Int) error {
	if !sender.Equal(from) {
		return ErrUnauthorized
	}

	if amount.Sign() < 0 {
		return balance.ErrAmountMustBeNonNegative
	}

	if amount.Sign() == 0 {
		return nil
	}

	neg, err := t.CurrencyOf(token).Withdraw(from, amount)
	if err != nil {
		return fmt.Errorf("debiting account: %w", err)
	}

	if err = neg.Settle(); err != nil {
		return fmt.Errorf("reducing issuance: %w", err)
	}

	return t.emitTransferSingle(from.String(), "", token, amount)
}

// TxSafeTransferFrom moves amount of token between two accounts. Only
// the source account owner may transfer. The issuance is untouched. A
// zero amount or a transfer to self succeeds without writing or
// emitting anything.
func (t *Ledger1155) TxSafeTransferFrom(
	sender *types.Sender,
	from *types.Address,
	to *types.Address,
	token uint64,
	amount *big.Int,
) error {
	if !sender.Equal(from) {
		return ErrUnauthorized
	}

	return t.CurrencyOf(token).Transfer(from, to, amount)
}

// TxMintBatch mints several tokens to one account in list order. The
// lists must zip. The batch stops at the first failing item, items
// before it stay applied.
func (t *Ledger1155) TxMintBatch(sender *types.Sender, to *types.Address, tokens []uint64, amounts []*bignum.Int) error {
	if len(tokens) != len(amounts) {
		return ErrLengthMismatch
	}

	for i, token := range tokens {
		if err := t.TxMint(sender, to, token, amounts[i].BigInt()); err != nil {
			return fmt.Errorf("minting token %d: %w", token, err)
		}
	}

	return nil
}

// TxBurnBatch burns several tokens from one account in list order. The
// lists must zip. The batch stops at the first failing item, items
// before it stay applied.
func (t *Ledger1155) TxBurnBatch(sender *types.Sender, from *types.Address, tokens []uint64, amounts []*bignum.Int) error {
	if len(tokens) != len(amounts) {
		return ErrLengthMismatch
	}

	for i, token := range tokens {
		if err := t.TxBurn(sender, from, token, amounts[i].BigInt()); err != nil {
			return fmt.Errorf("burning token %d: %w", token, err)
		}
	}

	return nil
}

// TxSafeBatchTransferFrom transfers several tokens between two accounts
// in list order. The lists must zip. The batch stops at the first
// failing item, items before it stay applied.
func (t *Ledger1155) TxSafeBatchTransferFrom(
	sender *types.Sender,
	from *types.Address,
	to *types.Address,
	tokens []uint64,
	amounts []*bignum.Int,
) error {
	if len(tokens) != len(amounts) {
		return ErrLengthMismatch
	}

	for i, token := range tokens {
		if err := t.TxSafeTransferFrom(sender, from, to, token, amounts[i].BigInt()); err != nil {
			return fmt.Errorf("transferring token %d: %w", token, err)
		}
	}

	return nil
}

// TxCreateToken allocates a fresh token id and seeds it with
// initialSupply credited to the caller. The whole initial supply enters
// the issuance at once. No transfer event is emitted for the seeding.
func (t *Ledger1155) TxCreateToken(sender *types.Sender, initialSupply *big.Int) (uint64, error) {
	if initialSupply.Sign() < 0 {
		return 0, balance.ErrAmountMustBeNonNegative
	}

	stub := t.GetStub()

	token, err := balance.NextTokenID(stub)
	if err != nil {
		return 0, fmt.Errorf("allocating token id: %w", err)
	}

	if err = balance.Put(stub, balance.BalanceTypeToken, sender.Address().String(), token, initialSupply); err != nil {
		return 0, fmt.Errorf("seeding creator balance: %w", err)
	}

	if err = balance.PutIssuance(stub, token, initialSupply); err != nil {
		return 0, fmt.Errorf("seeding issuance: %w", err)
	}

	return token, nil
}

// TxSetURI replaces the metadata URI template shared by all tokens.
func (t *Ledger1155) TxSetURI(_ *types.Sender, uri string) error {
	return balance.PutURI(t.GetStub(), uri)
}

// QueryURI returns the metadata URI template for the token. The
// template is shared, clients substitute the token id themselves. A
// token the allocation counter has not handed out yet has no URI.
func (t *Ledger1155) QueryURI(token uint64) (string, error) {
	lastID, err := balance.LastTokenID(t.GetStub())
	if err != nil {
		return "", err
	}
	if token >= lastID {
		return "", ErrTokenNotFound
	}

	return balance.GetURI(t.GetStub())
}

// TxSetApprovalForAll is not supported, the ledger has no operator
// model.
func (t *Ledger1155) TxSetApprovalForAll(_ *types.Sender, _ *types.Address, _ bool) error {
	return ErrNotSupported
}

// QueryIsApprovedForAll is not supported, the ledger has no operator
// model.
func (t *Ledger1155) QueryIsApprovedForAll(_ *types.Address, _ *types.Address) (bool, error) {
	return false, ErrNotSupported
}

// QueryBalanceOf returns the free balance of the account for the token.
// Accounts the ledger has never written read as zero.
func (t *Ledger1155) QueryBalanceOf(owner *types.Address, token uint64) (*bignum.Int, error) {
	bal, err := t.freeBalance(owner, token)
	if err != nil {
		return nil, err
	}

	return new(bignum.Int).SetBig(bal), nil
}

// QueryBalanceOfBatch returns free balances for pairwise zipped owner
// and token lists, in list order.
func (t *Ledger1155) QueryBalanceOfBatch(owners []*types.Address, tokens []uint64) ([]*bignum.Int, error) {
	if len(owners) != len(tokens) {
		return nil, ErrLengthMismatch
	}

	balances := make([]*bignum.Int, 0, len(owners))
	for i, owner := range owners {
		bal, err := t.QueryBalanceOf(owner, tokens[i])
		if err != nil {
			return nil, fmt.Errorf("balance of %s for token %d: %w", owner, tokens[i], err)
		}
		balances = append(balances, bal)
	}

	return balances, nil
}
