package mock

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/types"
	"github.com/dima-brook/pallet-erc1155/mock/stub"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"
)

// Wallet is a test account: an ed25519 keypair with the derived ledger
// address. Transaction selectors take the sender address as their first
// argument, TxInvoke fills it in.
type Wallet struct {
	ledger *Ledger
	sKey   ed25519.PrivateKey
	pKey   ed25519.PublicKey
	addr   string
}

// NewWallet creates new wallet
func (l *Ledger) NewWallet() *Wallet {
	pKey, sKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(l.t, err)

	hash := sha3.Sum256(pKey)
	return &Wallet{
		ledger: l,
		sKey:   sKey,
		pKey:   pKey,
		addr:   base58.CheckEncode(hash[1:], hash[0]),
	}
}

// NewWalletFromHexKey creates new wallet from hex key
func (l *Ledger) NewWalletFromHexKey(key string) *Wallet {
	decoded, err := hex.DecodeString(key)
	require.NoError(l.t, err)
	sKey := ed25519.PrivateKey(decoded)
	pub, ok := sKey.Public().(ed25519.PublicKey)
	require.True(l.t, ok)
	hash := sha3.Sum256(pub)
	return &Wallet{
		ledger: l,
		sKey:   sKey,
		pKey:   pub,
		addr:   base58.CheckEncode(hash[1:], hash[0]),
	}
}

// Address returns the address of the wallet
func (w *Wallet) Address() string {
	return w.addr
}

// AddressType returns the address as a types.Address
func (w *Wallet) AddressType() *types.Address {
	addr, err := types.AddrFromBase58Check(w.addr)
	require.NoError(w.ledger.t, err)
	return addr
}

func (w *Wallet) addBalance(st *stub.Stub, balanceType balance.BalanceType, token uint64, amount uint64) {
	st.MockTransactionStart(txIDGen())
	defer st.MockTransactionEnd("")

	err := balance.Add(st, balanceType, w.addr, token, new(big.Int).SetUint64(amount))
	require.NoError(w.ledger.t, err)
}

// AddBalance adds free balance of a token to the wallet directly in
// state, without touching the issuance. Pair it with Ledger.AddIssuance
// to keep the books consistent.
func (w *Wallet) AddBalance(ch string, token uint64, amount uint64) {
	w.addBalance(w.ledger.stubs[ch], balance.BalanceTypeToken, token, amount)
}

// AddLockedBalance adds locked balance of a token to the wallet directly
// in state.
func (w *Wallet) AddLockedBalance(ch string, token uint64, amount uint64) {
	w.addBalance(w.ledger.stubs[ch], balance.BalanceTypeTokenLocked, token, amount)
}

// BalanceShouldBe asserts the free balance of the wallet for a token.
func (w *Wallet) BalanceShouldBe(ch string, token uint64, expected uint64) {
	resp := w.Invoke(ch, "balanceOf", w.addr, fmt.Sprintf("%d", token))
	require.Equal(w.ledger.t, fmt.Sprintf("\"%d\"", expected), resp)
}

// LockedBalanceShouldBe asserts the locked balance of the wallet for a
// token.
func (w *Wallet) LockedBalanceShouldBe(ch string, token uint64, expected uint64) {
	resp := w.Invoke(ch, "lockedBalanceOf", w.addr, fmt.Sprintf("%d", token))
	require.Equal(w.ledger.t, fmt.Sprintf("\"%d\"", expected), resp)
}

// TotalBalanceShouldBe asserts the free plus locked balance of the
// wallet for a token.
func (w *Wallet) TotalBalanceShouldBe(ch string, token uint64, expected uint64) {
	resp := w.Invoke(ch, "totalBalance", w.addr, fmt.Sprintf("%d", token))
	require.Equal(w.ledger.t, fmt.Sprintf("\"%d\"", expected), resp)
}

// Invoke invokes a method and requires success
func (w *Wallet) Invoke(ch, fn string, args ...string) string {
	return w.ledger.doInvoke(ch, txIDGen(), fn, args...)
}

// InvokeWithError invokes a method and returns its error, nil on
// success
func (w *Wallet) InvokeWithError(ch, fn string, args ...string) error {
	return w.ledger.doInvokeWithErrorReturned(ch, txIDGen(), fn, args...)
}

// InvokeWithPeerResponse invokes a method and returns the raw peer
// response
func (w *Wallet) InvokeWithPeerResponse(ch, fn string, args ...string) (peer.Response, error) {
	return w.ledger.doInvokeWithPeerResponse(ch, txIDGen(), fn, args...)
}

// TxInvoke invokes a transaction method with the wallet as sender and
// requires success
func (w *Wallet) TxInvoke(ch, fn string, args ...string) string {
	return w.Invoke(ch, fn, append([]string{w.addr}, args...)...)
}

// TxInvokeWithError invokes a transaction method with the wallet as
// sender and returns its error, nil on success
func (w *Wallet) TxInvokeWithError(ch, fn string, args ...string) error {
	return w.InvokeWithError(ch, fn, append([]string{w.addr}, args...)...)
}

// Ledger returns the ledger
func (w *Wallet) Ledger() *Ledger {
	return w.ledger
}
