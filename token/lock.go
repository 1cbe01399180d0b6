package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/types"
	bignum "github.com/dima-brook/pallet-erc1155/core/types/big"
)

// TxLock moves amount of the sender's free balance into the locked
// balance. Locked funds stay on the account and keep counting towards
// the issuance, they just cannot be spent. No event is emitted, the
// funds do not change owner.
func (t *Ledger1155) TxLock(sender *types.Sender, token uint64, amount *big.Int) error {
	return t.moveBetweenOwn(sender, balance.BalanceTypeToken, balance.BalanceTypeTokenLocked, token, amount)
}

// TxUnlock moves amount of the sender's locked balance back into the
// free balance.
func (t *Ledger1155) TxUnlock(sender *types.Sender, token uint64, amount *big.Int) error {
	return t.moveBetweenOwn(sender, balance.BalanceTypeTokenLocked, balance.BalanceTypeToken, token, amount)
}

func (t *Ledger1155) moveBetweenOwn(
	sender *types.Sender,
	from balance.BalanceType,
	to balance.BalanceType,
	token uint64,
	amount *big.Int,
) error {
	if amount.Sign() < 0 {
		return balance.ErrAmountMustBeNonNegative
	}

	if amount.Sign() == 0 {
		return nil
	}

	addr := sender.Address().String()

	err := balance.Move(t.GetStub(), from, addr, to, addr, token, amount)
	if err != nil {
		if errors.Is(err, balance.ErrInsufficientBalance) {
			return ErrOutOfFunds
		}
		return fmt.Errorf("moving funds between %s and %s: %w", from, to, err)
	}

	return nil
}

// QueryLockedBalanceOf returns the locked balance of the account for
// the token.
func (t *Ledger1155) QueryLockedBalanceOf(owner *types.Address, token uint64) (*bignum.Int, error) {
	locked, err := balance.Get(t.GetStub(), balance.BalanceTypeTokenLocked, owner.String(), token)
	if err != nil {
		return nil, err
	}

	return new(bignum.Int).SetBig(locked), nil
}
