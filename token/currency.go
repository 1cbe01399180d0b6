package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/imbalance"
	"github.com/dima-brook/pallet-erc1155/core/types"
)

// Currency is a view of the ledger narrowed to a single token. Its
// operations change one side of the conservation rule and hand the
// caller an imbalance value for the other side: the operation is not
// finished until that value is settled, offset or explicitly forgone.
type Currency struct {
	ledger *Ledger1155
	token  uint64
}

// CurrencyOf returns the currency view for one token.
func (t *Ledger1155) CurrencyOf(token uint64) *Currency {
	return &Currency{ledger: t, token: token}
}

// TotalBalance returns the total balance of the account, locked funds
// included.
func (c *Currency) TotalBalance(who *types.Address) (*big.Int, error) {
	free, err := c.FreeBalance(who)
	if err != nil {
		return nil, err
	}

	locked, err := balance.Get(c.ledger.GetStub(), balance.BalanceTypeTokenLocked, who.String(), c.token)
	if err != nil {
		return nil, err
	}

	return new(big.Int).Add(free, locked), nil
}

// FreeBalance returns the spendable balance of the account.
func (c *Currency) FreeBalance(who *types.Address) (*big.Int, error) {
	return c.ledger.freeBalance(who, c.token)
}

// CanSlash reports whether slashing the account for value leaves
// nothing behind, that is the whole value is covered by zeroing the
// balance.
func (c *Currency) CanSlash(who *types.Address, value *big.Int) (bool, error) {
	bal, err := c.FreeBalance(who)
	if err != nil {
		return false, err
	}

	return value.Cmp(bal) >= 0, nil
}

// TotalIssuance returns the recorded issuance of the token.
func (c *Currency) TotalIssuance() (*big.Int, error) {
	return balance.GetIssuance(c.ledger.GetStub(), c.token)
}

// MinimumBalance returns the existential deposit, which this ledger
// does not have.
func (c *Currency) MinimumBalance() *big.Int {
	return new(big.Int)
}

// Burn removes amount from the recorded issuance, clamping at zero, and
// returns a positive imbalance carrying the requested amount. Settling
// the imbalance adds the amount back, so a burn only sticks when the
// result is offset against a matching withdrawal.
func (c *Currency) Burn(amount *big.Int) (*imbalance.Positive, error) {
	if amount.Sign() < 0 {
		return nil, balance.ErrAmountMustBeNonNegative
	}

	if amount.Sign() == 0 {
		return imbalance.NewPositive(c.ledger.GetStub(), c.token, new(big.Int)), nil
	}

	if _, err := balance.SubIssuance(c.ledger.GetStub(), c.token, amount); err != nil {
		return nil, fmt.Errorf("reducing issuance: %w", err)
	}

	return imbalance.NewPositive(c.ledger.GetStub(), c.token, amount), nil
}

// Issue adds amount to the recorded issuance and returns a negative
// imbalance carrying it. Settling the imbalance removes the amount
// again, so an issue only sticks when the result is offset against a
// matching deposit.
func (c *Currency) Issue(amount *big.Int) (*imbalance.Negative, error) {
	if amount.Sign() < 0 {
		return nil, balance.ErrAmountMustBeNonNegative
	}

	if amount.Sign() == 0 {
		return imbalance.NewNegative(c.ledger.GetStub(), c.token, new(big.Int)), nil
	}

	if err := balance.AddIssuance(c.ledger.GetStub(), c.token, amount); err != nil {
		return nil, fmt.Errorf("raising issuance: %w", err)
	}

	return imbalance.NewNegative(c.ledger.GetStub(), c.token, amount), nil
}

// EnsureCanWithdraw checks the account balance against the balance the
// caller expects after the withdrawal.
func (c *Currency) EnsureCanWithdraw(who *types.Address, _ *big.Int, newBalance *big.Int) error {
	bal, err := c.TotalBalance(who)
	if err != nil {
		return err
	}

	if bal.Cmp(newBalance) < 0 {
		return ErrOutOfFunds
	}

	return nil
}

// Transfer moves value between two accounts of the token. A zero value
// or a transfer to self is a no-op that emits nothing and writes
// nothing.
func (c *Currency) Transfer(from *types.Address, to *types.Address, value *big.Int) error {
	if value.Sign() < 0 {
		return balance.ErrAmountMustBeNonNegative
	}

	if to == nil || to.IsZero() {
		return ErrAccountNotFound
	}

	if value.Sign() == 0 || from.Equal(to) {
		return nil
	}

	err := balance.Move(
		c.ledger.GetStub(),
		balance.BalanceTypeToken, from.String(),
		balance.BalanceTypeToken, to.String(),
		c.token, value,
	)
	if err != nil {
		if errors.Is(err, balance.ErrInsufficientBalance) {
			return ErrOutOfFunds
		}
		return fmt.Errorf("moving funds: %w", err)
	}

	return c.ledger.emitTransferSingle(from.String(), to.String(), c.token, value)
}

// Slash removes up to value from the account, zeroing the balance when
// it cannot cover the whole value. It returns the negative imbalance of
// what was actually removed together with the value still uncovered,
// and emits a transfer event to nobody when anything was removed.
//
// When the balance covers only part of the value, the reported
// remainder is the full requested value: the remainder is measured
// against the balance after it was zeroed.
func (c *Currency) Slash(who *types.Address, value *big.Int) (*imbalance.Negative, *big.Int, error) {
	stub := c.ledger.GetStub()

	ret := func(slashed *big.Int, remaining *big.Int) (*imbalance.Negative, *big.Int, error) {
		if slashed.Sign() > 0 {
			if err := c.ledger.emitTransferSingle(who.String(), "", c.token, slashed); err != nil {
				return nil, nil, err
			}
		}

		return imbalance.NewNegative(stub, c.token, slashed), remaining, nil
	}

	if value.Sign() < 0 {
		return nil, nil, balance.ErrAmountMustBeNonNegative
	}

	if value.Sign() == 0 {
		return ret(new(big.Int), new(big.Int))
	}

	bal, err := c.FreeBalance(who)
	if err != nil {
		return nil, nil, err
	}

	if bal.Sign() == 0 {
		return ret(new(big.Int), new(big.Int).Set(value))
	}

	if bal.Cmp(value) < 0 {
		slashed := new(big.Int).Set(bal)
		bal.SetInt64(0)
		if err = balance.Put(stub, balance.BalanceTypeToken, who.String(), c.token, bal); err != nil {
			return nil, nil, err
		}

		return ret(slashed, new(big.Int).Sub(value, bal))
	}

	if err = balance.Put(stub, balance.BalanceTypeToken, who.String(), c.token, bal.Sub(bal, value)); err != nil {
		return nil, nil, err
	}

	return ret(new(big.Int).Set(value), new(big.Int))
}

// DepositIntoExisting credits value to an existing account and returns
// the positive imbalance of the credit. A zero value succeeds before
// the existence check, so depositing nothing into nothing is fine.
func (c *Currency) DepositIntoExisting(who *types.Address, value *big.Int) (*imbalance.Positive, error) {
	if value.Sign() < 0 {
		return nil, balance.ErrAmountMustBeNonNegative
	}

	if value.Sign() == 0 {
		return imbalance.NewPositive(c.ledger.GetStub(), c.token, new(big.Int)), nil
	}

	exists, err := c.ledger.accountExists(who, c.token)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAccountNotFound
	}

	if err = balance.Add(c.ledger.GetStub(), balance.BalanceTypeToken, who.String(), c.token, value); err != nil {
		return nil, fmt.Errorf("crediting account: %w", err)
	}

	return imbalance.NewPositive(c.ledger.GetStub(), c.token, value), nil
}

// DepositCreating credits value to the account, bringing it into
// existence when needed, and returns the positive imbalance of the
// credit.
func (c *Currency) DepositCreating(who *types.Address, value *big.Int) (*imbalance.Positive, error) {
	if value.Sign() < 0 {
		return nil, balance.ErrAmountMustBeNonNegative
	}

	if value.Sign() == 0 {
		return imbalance.NewPositive(c.ledger.GetStub(), c.token, new(big.Int)), nil
	}

	if err := balance.Add(c.ledger.GetStub(), balance.BalanceTypeToken, who.String(), c.token, value); err != nil {
		return nil, fmt.Errorf("crediting account: %w", err)
	}

	return imbalance.NewPositive(c.ledger.GetStub(), c.token, value), nil
}

// Withdraw debits value from the account and returns the negative
// imbalance of the debit. An account that cannot cover the value is out
// of funds and nothing is written.
func (c *Currency) Withdraw(who *types.Address, value *big.Int) (*imbalance.Negative, error) {
	if value.Sign() < 0 {
		return nil, balance.ErrAmountMustBeNonNegative
	}

	bal, err := c.FreeBalance(who)
	if err != nil {
		return nil, err
	}

	if bal.Cmp(value) < 0 {
		return nil, ErrOutOfFunds
	}

	newBalance := new(big.Int).Sub(bal, value)
	if err = c.EnsureCanWithdraw(who, value, newBalance); err != nil {
		return nil, err
	}

	if err = balance.Put(c.ledger.GetStub(), balance.BalanceTypeToken, who.String(), c.token, newBalance); err != nil {
		return nil, fmt.Errorf("debiting account: %w", err)
	}

	return imbalance.NewNegative(c.ledger.GetStub(), c.token, value), nil
}

// MakeFreeBalanceBe forces the free balance of the account to value and
// returns the signed imbalance of the change: positive when the balance
// grew, negative when it shrank.
func (c *Currency) MakeFreeBalanceBe(who *types.Address, value *big.Int) (imbalance.Signed, error) {
	if value.Sign() < 0 {
		return imbalance.Signed{}, balance.ErrAmountMustBeNonNegative
	}

	stub := c.ledger.GetStub()

	bal, err := c.FreeBalance(who)
	if err != nil {
		return imbalance.Signed{}, err
	}

	var sig imbalance.Signed
	if value.Cmp(bal) >= 0 {
		sig = imbalance.SignedPositive(imbalance.NewPositive(stub, c.token, new(big.Int).Sub(value, bal)))
	} else {
		sig = imbalance.SignedNegative(imbalance.NewNegative(stub, c.token, new(big.Int).Sub(bal, value)))
	}

	if err = balance.Put(stub, balance.BalanceTypeToken, who.String(), c.token, value); err != nil {
		return imbalance.Signed{}, err
	}

	return sig, nil
}
