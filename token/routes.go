package token

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/dima-brook/pallet-erc1155/core"
	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/types"
	bignum "github.com/dima-brook/pallet-erc1155/core/types/big"
)

// Methods declares the dispatch table of the contract. Transactions run
// on the real stub, queries run on a stub that drops writes and events.
// Transaction selectors take the sender address as their first argument.
func (t *Ledger1155) Methods() map[string]core.Method {
	return map[string]core.Method{
		"safeTransferFrom":      {Type: core.MethodTypeTransaction, Fn: t.routeSafeTransferFrom},
		"safeBatchTransferFrom": {Type: core.MethodTypeTransaction, Fn: t.routeSafeBatchTransferFrom},
		"mint":                  {Type: core.MethodTypeTransaction, Fn: t.routeMint},
		"mintBatch":             {Type: core.MethodTypeTransaction, Fn: t.routeMintBatch},
		"burn":                  {Type: core.MethodTypeTransaction, Fn: t.routeBurn},
		"burnBatch":             {Type: core.MethodTypeTransaction, Fn: t.routeBurnBatch},
		"createToken":           {Type: core.MethodTypeTransaction, Fn: t.routeCreateToken},
		"setURI":                {Type: core.MethodTypeTransaction, Fn: t.routeSetURI},
		"lock":                  {Type: core.MethodTypeTransaction, Fn: t.routeLock},
		"unlock":                {Type: core.MethodTypeTransaction, Fn: t.routeUnlock},
		"setApprovalForAll":     {Type: core.MethodTypeTransaction, Fn: t.routeSetApprovalForAll},

		"balanceOf":        {Type: core.MethodTypeQuery, Fn: t.routeBalanceOf},
		"balanceOfBatch":   {Type: core.MethodTypeQuery, Fn: t.routeBalanceOfBatch},
		"totalIssuance":    {Type: core.MethodTypeQuery, Fn: t.routeTotalIssuance},
		"lastTokenID":      {Type: core.MethodTypeQuery, Fn: t.routeLastTokenID},
		"uri":              {Type: core.MethodTypeQuery, Fn: t.routeURI},
		"lockedBalanceOf":  {Type: core.MethodTypeQuery, Fn: t.routeLockedBalanceOf},
		"isApprovedForAll": {Type: core.MethodTypeQuery, Fn: t.routeIsApprovedForAll},
		"metadata":         {Type: core.MethodTypeQuery, Fn: t.routeMetadata},
		"totalBalance":     {Type: core.MethodTypeQuery, Fn: t.routeTotalBalance},
		"canSlash":         {Type: core.MethodTypeQuery, Fn: t.routeCanSlash},
		"holders":          {Type: core.MethodTypeQuery, Fn: t.routeHolders},

		"slash":               {Type: core.MethodTypeTransaction, Fn: t.routeSlash},
		"withdraw":            {Type: core.MethodTypeTransaction, Fn: t.routeWithdraw},
		"depositIntoExisting": {Type: core.MethodTypeTransaction, Fn: t.routeDepositIntoExisting},
		"depositCreating":     {Type: core.MethodTypeTransaction, Fn: t.routeDepositCreating},
		"makeFreeBalanceBe":   {Type: core.MethodTypeTransaction, Fn: t.routeMakeFreeBalanceBe},
		"issue":               {Type: core.MethodTypeTransaction, Fn: t.routeIssue},
		"burnIssuance":        {Type: core.MethodTypeTransaction, Fn: t.routeBurnIssuance},
		"currencyTransfer":    {Type: core.MethodTypeTransaction, Fn: t.routeCurrencyTransfer},
	}
}

func wantArgs(args []string, count int) error {
	if len(args) != count {
		return fmt.Errorf("incorrect number of arguments: %d, expected %d", len(args), count)
	}

	return nil
}

func parseSender(s string) (*types.Sender, error) {
	addr, err := types.AddrFromBase58Check(s)
	if err != nil {
		return nil, fmt.Errorf("parsing sender address: %w", err)
	}

	return types.NewSenderFromAddr(addr), nil
}

func parseAddress(s string) (*types.Address, error) {
	addr, err := types.AddrFromBase58Check(s)
	if err != nil {
		return nil, fmt.Errorf("parsing address %q: %w", s, err)
	}

	return addr, nil
}

func parseToken(s string) (uint64, error) {
	token, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing token id %q: %w", s, err)
	}

	return token, nil
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parsing amount %q", s)
	}
	if amount.Sign() < 0 {
		return nil, balance.ErrAmountMustBeNonNegative
	}

	return amount, nil
}

func parseTokenList(s string) ([]uint64, error) {
	var tokens []uint64
	if err := json.Unmarshal([]byte(s), &tokens); err != nil {
		return nil, fmt.Errorf("parsing token list: %w", err)
	}

	return tokens, nil
}

func parseAmountList(s string) ([]*bignum.Int, error) {
	var amounts []*bignum.Int
	if err := json.Unmarshal([]byte(s), &amounts); err != nil {
		return nil, fmt.Errorf("parsing amount list: %w", err)
	}

	for _, amount := range amounts {
		if amount == nil {
			return nil, fmt.Errorf("parsing amount list: null entry")
		}
		if amount.BigInt().Sign() < 0 {
			return nil, balance.ErrAmountMustBeNonNegative
		}
	}

	return amounts, nil
}

func parseAddressList(s string) ([]*types.Address, error) {
	var raw []string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("parsing address list: %w", err)
	}

	addrs := make([]*types.Address, 0, len(raw))
	for _, one := range raw {
		addr, err := types.AddrFromBase58Check(one)
		if err != nil {
			return nil, fmt.Errorf("parsing address %q: %w", one, err)
		}
		addrs = append(addrs, addr)
	}

	return addrs, nil
}

func (t *Ledger1155) routeSafeTransferFrom(args []string) ([]byte, error) {
	if err := wantArgs(args, 5); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	from, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(args[2])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[3])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[4])
	if err != nil {
		return nil, err
	}

	return nil, t.TxSafeTransferFrom(sender, from, to, token, amount)
}

func (t *Ledger1155) routeSafeBatchTransferFrom(args []string) ([]byte, error) {
	if err := wantArgs(args, 5); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	from, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(args[2])
	if err != nil {
		return nil, err
	}
	tokens, err := parseTokenList(args[3])
	if err != nil {
		return nil, err
	}
	amounts, err := parseAmountList(args[4])
	if err != nil {
		return nil, err
	}

	return nil, t.TxSafeBatchTransferFrom(sender, from, to, tokens, amounts)
}

func (t *Ledger1155) routeMint(args []string) ([]byte, error) {
	if err := wantArgs(args, 4); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[2])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[3])
	if err != nil {
		return nil, err
	}

	return nil, t.TxMint(sender, to, token, amount)
}

func (t *Ledger1155) routeMintBatch(args []string) ([]byte, error) {
	if err := wantArgs(args, 4); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	tokens, err := parseTokenList(args[2])
	if err != nil {
		return nil, err
	}
	amounts, err := parseAmountList(args[3])
	if err != nil {
		return nil, err
	}

	return nil, t.TxMintBatch(sender, to, tokens, amounts)
}

func (t *Ledger1155) routeBurn(args []string) ([]byte, error) {
	if err := wantArgs(args, 4); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	from, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[2])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[3])
	if err != nil {
		return nil, err
	}

	return nil, t.TxBurn(sender, from, token, amount)
}

func (t *Ledger1155) routeBurnBatch(args []string) ([]byte, error) {
	if err := wantArgs(args, 4); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	from, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	tokens, err := parseTokenList(args[2])
	if err != nil {
		return nil, err
	}
	amounts, err := parseAmountList(args[3])
	if err != nil {
		return nil, err
	}

	return nil, t.TxBurnBatch(sender, from, tokens, amounts)
}

func (t *Ledger1155) routeCreateToken(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	initialSupply, err := parseAmount(args[1])
	if err != nil {
		return nil, err
	}

	token, err := t.TxCreateToken(sender, initialSupply)
	if err != nil {
		return nil, err
	}

	return json.Marshal(token)
}

func (t *Ledger1155) routeSetURI(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}

	return nil, t.TxSetURI(sender, args[1])
}

func (t *Ledger1155) routeLock(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	return nil, t.TxLock(sender, token, amount)
}

func (t *Ledger1155) routeUnlock(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	return nil, t.TxUnlock(sender, token, amount)
}

func (t *Ledger1155) routeSetApprovalForAll(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	operator, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	approved, err := strconv.ParseBool(args[2])
	if err != nil {
		return nil, fmt.Errorf("parsing approved flag %q: %w", args[2], err)
	}

	return nil, t.TxSetApprovalForAll(sender, operator, approved)
}

func (t *Ledger1155) routeBalanceOf(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	owner, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}

	bal, err := t.QueryBalanceOf(owner, token)
	if err != nil {
		return nil, err
	}

	return json.Marshal(bal)
}

func (t *Ledger1155) routeBalanceOfBatch(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	owners, err := parseAddressList(args[0])
	if err != nil {
		return nil, err
	}
	tokens, err := parseTokenList(args[1])
	if err != nil {
		return nil, err
	}

	balances, err := t.QueryBalanceOfBatch(owners, tokens)
	if err != nil {
		return nil, err
	}

	return json.Marshal(balances)
}

func (t *Ledger1155) routeTotalIssuance(args []string) ([]byte, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}

	token, err := parseToken(args[0])
	if err != nil {
		return nil, err
	}

	issuance, err := t.QueryTotalIssuance(token)
	if err != nil {
		return nil, err
	}

	return json.Marshal(issuance)
}

func (t *Ledger1155) routeLastTokenID(args []string) ([]byte, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}

	lastID, err := t.QueryLastTokenID()
	if err != nil {
		return nil, err
	}

	return json.Marshal(lastID)
}

func (t *Ledger1155) routeURI(args []string) ([]byte, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}

	token, err := parseToken(args[0])
	if err != nil {
		return nil, err
	}

	uri, err := t.QueryURI(token)
	if err != nil {
		return nil, err
	}

	return json.Marshal(uri)
}

func (t *Ledger1155) routeLockedBalanceOf(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	owner, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}

	locked, err := t.QueryLockedBalanceOf(owner, token)
	if err != nil {
		return nil, err
	}

	return json.Marshal(locked)
}

func (t *Ledger1155) routeIsApprovedForAll(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	owner, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	operator, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}

	approved, err := t.QueryIsApprovedForAll(owner, operator)
	if err != nil {
		return nil, err
	}

	return json.Marshal(approved)
}

func (t *Ledger1155) routeMetadata(args []string) ([]byte, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}

	meta, err := t.QueryMetadata()
	if err != nil {
		return nil, err
	}

	return json.Marshal(meta)
}

func (t *Ledger1155) routeTotalBalance(args []string) ([]byte, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}

	owner, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}

	total, err := t.QueryTotalBalance(owner, token)
	if err != nil {
		return nil, err
	}

	return json.Marshal(total)
}

func (t *Ledger1155) routeCanSlash(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	owner, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	can, err := t.QueryCanSlash(owner, token, new(bignum.Int).SetBig(value))
	if err != nil {
		return nil, err
	}

	return json.Marshal(can)
}

func (t *Ledger1155) routeHolders(args []string) ([]byte, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}

	token, err := parseToken(args[0])
	if err != nil {
		return nil, err
	}

	holders, err := t.QueryHolders(token)
	if err != nil {
		return nil, err
	}

	return json.Marshal(holders)
}

// SlashResult is the payload of the slash selector.
type SlashResult struct {
	Slashed   *bignum.Int `json:"slashed"`
	Remaining *bignum.Int `json:"remaining"`
}

func (t *Ledger1155) routeSlash(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	who, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	neg, remaining, err := t.CurrencyOf(token).Slash(who, value)
	if err != nil {
		return nil, err
	}

	slashed := neg.Peek()
	if err = neg.Settle(); err != nil {
		return nil, fmt.Errorf("settling slashed funds: %w", err)
	}

	return json.Marshal(SlashResult{
		Slashed:   new(bignum.Int).SetBig(slashed),
		Remaining: new(bignum.Int).SetBig(remaining),
	})
}

func (t *Ledger1155) routeWithdraw(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	who, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	neg, err := t.CurrencyOf(token).Withdraw(who, value)
	if err != nil {
		return nil, err
	}

	if err = neg.Settle(); err != nil {
		return nil, fmt.Errorf("reducing issuance: %w", err)
	}

	return nil, nil
}

func (t *Ledger1155) routeDepositIntoExisting(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	who, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	pos, err := t.CurrencyOf(token).DepositIntoExisting(who, value)
	if err != nil {
		return nil, err
	}

	if err = pos.Settle(); err != nil {
		return nil, fmt.Errorf("raising issuance: %w", err)
	}

	return nil, nil
}

func (t *Ledger1155) routeDepositCreating(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	who, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	pos, err := t.CurrencyOf(token).DepositCreating(who, value)
	if err != nil {
		return nil, err
	}

	if err = pos.Settle(); err != nil {
		return nil, fmt.Errorf("raising issuance: %w", err)
	}

	return nil, nil
}

func (t *Ledger1155) routeMakeFreeBalanceBe(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	who, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	sig, err := t.CurrencyOf(token).MakeFreeBalanceBe(who, value)
	if err != nil {
		return nil, err
	}

	if err = sig.Settle(); err != nil {
		return nil, fmt.Errorf("settling balance change: %w", err)
	}

	return nil, nil
}

func (t *Ledger1155) routeIssue(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	to, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	neg, err := t.CurrencyOf(token).Issue(amount)
	if err != nil {
		return nil, err
	}

	pos, err := t.CurrencyOf(token).DepositCreating(to, amount)
	if err != nil {
		// settle the deficit to take the raised issuance back down
		if serr := neg.Settle(); serr != nil {
			return nil, serr
		}
		return nil, err
	}

	pos.Offset(neg).MustSettle()

	return nil, nil
}

func (t *Ledger1155) routeBurnIssuance(args []string) ([]byte, error) {
	if err := wantArgs(args, 3); err != nil {
		return nil, err
	}

	from, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[1])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return nil, err
	}

	// Withdraw before burning: once the debit went through, conservation
	// guarantees the issuance covers the amount and the clamp in Burn
	// cannot fire.
	neg, err := t.CurrencyOf(token).Withdraw(from, amount)
	if err != nil {
		return nil, err
	}

	pos, err := t.CurrencyOf(token).Burn(amount)
	if err != nil {
		// settle the deficit so the issuance follows the debit down
		if serr := neg.Settle(); serr != nil {
			return nil, serr
		}
		return nil, err
	}

	neg.Offset(pos).MustSettle()

	return nil, nil
}

func (t *Ledger1155) routeCurrencyTransfer(args []string) ([]byte, error) {
	if err := wantArgs(args, 4); err != nil {
		return nil, err
	}

	sender, err := parseSender(args[0])
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	token, err := parseToken(args[2])
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(args[3])
	if err != nil {
		return nil, err
	}

	return nil, t.CurrencyOf(token).Transfer(sender.Address(), to, value)
}
