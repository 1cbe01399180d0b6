// Package imbalance provides single-use accounting values that represent an
// amount not yet folded into a token's recorded issuance. Every balance
// mutation that departs from a plain transfer produces one of these values,
// and each value must be consumed exactly once: settled into issuance,
// forgone, split, merged or offset against an opposite value. Settle is safe
// to defer as a scope-exit backstop because it no-ops on an already consumed
// value; every other terminal operation on a consumed value panics, which
// marks a programming defect rather than expected control flow.
package imbalance

import (
	"math/big"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/dima-brook/pallet-erc1155/core/balance"
)

// Positive is an opaque, single-use value denoting that funds have been
// created without any equal and opposite accounting. Settling it increases
// the token's recorded issuance.
type Positive struct {
	stub     shim.ChaincodeStubInterface
	token    uint64
	amount   *big.Int
	consumed bool
}

// Negative is an opaque, single-use value denoting that funds have been
// destroyed without any equal and opposite accounting. Settling it decreases
// the token's recorded issuance, clamping at zero.
type Negative struct {
	stub     shim.ChaincodeStubInterface
	token    uint64
	amount   *big.Int
	consumed bool
}

// NewPositive creates a surplus of the given magnitude for the token. A nil
// amount is treated as zero. Magnitudes are non-negative by construction;
// a negative one is a defect and panics.
func NewPositive(stub shim.ChaincodeStubInterface, token uint64, amount *big.Int) *Positive {
	return &Positive{stub: stub, token: token, amount: copyAmount(amount)}
}

// NewNegative creates a deficit of the given magnitude for the token. A nil
// amount is treated as zero. Magnitudes are non-negative by construction;
// a negative one is a defect and panics.
func NewNegative(stub shim.ChaincodeStubInterface, token uint64, amount *big.Int) *Negative {
	return &Negative{stub: stub, token: token, amount: copyAmount(amount)}
}

func copyAmount(amount *big.Int) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	if amount.Sign() < 0 {
		panic("imbalance: negative amount")
	}
	return new(big.Int).Set(amount)
}

func mustLive(consumed bool) {
	if consumed {
		panic("imbalance: consumed value reused")
	}
}

func mustSameToken(a, b uint64) {
	if a != b {
		panic("imbalance: token mismatch")
	}
}

// Token returns the token the value belongs to.
func (p *Positive) Token() uint64 { return p.token }

// Peek returns a copy of the magnitude without consuming the value.
func (p *Positive) Peek() *big.Int {
	mustLive(p.consumed)
	return new(big.Int).Set(p.amount)
}

// IsZero reports whether the magnitude is zero.
func (p *Positive) IsZero() bool {
	mustLive(p.consumed)
	return p.amount.Sign() == 0
}

// Consumed reports whether the value has already been discharged.
func (p *Positive) Consumed() bool { return p.consumed }

// DropZero consumes the value with no effect iff the magnitude is zero.
// It reports whether the value was discharged; a non-zero value stays live
// and must still be consumed.
func (p *Positive) DropZero() bool {
	mustLive(p.consumed)
	if p.amount.Sign() != 0 {
		return false
	}
	p.consumed = true
	return true
}

// Split consumes the value and partitions it into
// (min(target, magnitude), remainder), both of the same polarity and token.
// The parts sum to the original exactly, and each must be consumed.
func (p *Positive) Split(target *big.Int) (*Positive, *Positive) {
	mustLive(p.consumed)
	if target.Sign() < 0 {
		panic("imbalance: negative amount")
	}
	p.consumed = true

	first := new(big.Int).Set(target)
	if first.Cmp(p.amount) > 0 {
		first.Set(p.amount)
	}
	second := new(big.Int).Sub(p.amount, first)

	return NewPositive(p.stub, p.token, first), NewPositive(p.stub, p.token, second)
}

// Merge consumes other, absorbs its magnitude and returns the receiver,
// which stays live and now owns both effects.
func (p *Positive) Merge(other *Positive) *Positive {
	p.Subsume(other)
	return p
}

// Subsume absorbs other into the receiver in place; other is consumed.
func (p *Positive) Subsume(other *Positive) {
	mustLive(p.consumed)
	mustLive(other.consumed)
	mustSameToken(p.token, other.token)

	other.consumed = true
	p.amount.Add(p.amount, other.amount)
}

// Offset nets the surplus against a deficit of the same token, consuming
// both. The result carries the polarity of the larger side; an exact
// cancellation yields an empty Signed.
func (p *Positive) Offset(other *Negative) Signed {
	mustLive(p.consumed)
	mustLive(other.consumed)
	mustSameToken(p.token, other.token)

	p.consumed = true
	other.consumed = true

	switch p.amount.Cmp(other.amount) {
	case 1:
		return Signed{pos: NewPositive(p.stub, p.token, new(big.Int).Sub(p.amount, other.amount))}
	case -1:
		return Signed{neg: NewNegative(p.stub, p.token, new(big.Int).Sub(other.amount, p.amount))}
	default:
		return Signed{}
	}
}

// Settle folds the remaining magnitude into the token's recorded issuance
// and consumes the value. Settling an already consumed value is a no-op, so
// a deferred Settle is always a safe backstop. A zero magnitude settles
// without touching state.
func (p *Positive) Settle() error {
	if p.consumed {
		return nil
	}
	p.consumed = true

	if p.amount.Sign() == 0 {
		return nil
	}
	return balance.AddIssuance(p.stub, p.token, p.amount)
}

// MustSettle is Settle for deferred use; a failed state write panics and
// aborts the transaction.
func (p *Positive) MustSettle() {
	if err := p.Settle(); err != nil {
		panic(err)
	}
}

// Forgo consumes the value without touching issuance. It is the explicit
// escape hatch for call sites where the issuance side has already been
// accounted for by a direct storage write.
func (p *Positive) Forgo() {
	mustLive(p.consumed)
	p.consumed = true
}

// Token returns the token the value belongs to.
func (n *Negative) Token() uint64 { return n.token }

// Peek returns a copy of the magnitude without consuming the value.
func (n *Negative) Peek() *big.Int {
	mustLive(n.consumed)
	return new(big.Int).Set(n.amount)
}

// IsZero reports whether the magnitude is zero.
func (n *Negative) IsZero() bool {
	mustLive(n.consumed)
	return n.amount.Sign() == 0
}

// Consumed reports whether the value has already been discharged.
func (n *Negative) Consumed() bool { return n.consumed }

// DropZero consumes the value with no effect iff the magnitude is zero.
// It reports whether the value was discharged; a non-zero value stays live
// and must still be consumed.
func (n *Negative) DropZero() bool {
	mustLive(n.consumed)
	if n.amount.Sign() != 0 {
		return false
	}
	n.consumed = true
	return true
}

// Split consumes the value and partitions it into
// (min(target, magnitude), remainder), both of the same polarity and token.
// The parts sum to the original exactly, and each must be consumed.
func (n *Negative) Split(target *big.Int) (*Negative, *Negative) {
	mustLive(n.consumed)
	if target.Sign() < 0 {
		panic("imbalance: negative amount")
	}
	n.consumed = true

	first := new(big.Int).Set(target)
	if first.Cmp(n.amount) > 0 {
		first.Set(n.amount)
	}
	second := new(big.Int).Sub(n.amount, first)

	return NewNegative(n.stub, n.token, first), NewNegative(n.stub, n.token, second)
}

// Merge consumes other, absorbs its magnitude and returns the receiver,
// which stays live and now owns both effects.
func (n *Negative) Merge(other *Negative) *Negative {
	n.Subsume(other)
	return n
}

// Subsume absorbs other into the receiver in place; other is consumed.
func (n *Negative) Subsume(other *Negative) {
	mustLive(n.consumed)
	mustLive(other.consumed)
	mustSameToken(n.token, other.token)

	other.consumed = true
	n.amount.Add(n.amount, other.amount)
}

// Offset nets the deficit against a surplus of the same token, consuming
// both. The result carries the polarity of the larger side; an exact
// cancellation yields an empty Signed.
func (n *Negative) Offset(other *Positive) Signed {
	mustLive(n.consumed)
	mustLive(other.consumed)
	mustSameToken(n.token, other.token)

	n.consumed = true
	other.consumed = true

	switch n.amount.Cmp(other.amount) {
	case 1:
		return Signed{neg: NewNegative(n.stub, n.token, new(big.Int).Sub(n.amount, other.amount))}
	case -1:
		return Signed{pos: NewPositive(n.stub, n.token, new(big.Int).Sub(other.amount, n.amount))}
	default:
		return Signed{}
	}
}

// Settle folds the remaining magnitude into the token's recorded issuance,
// clamping at zero, and consumes the value. Settling an already consumed
// value is a no-op, so a deferred Settle is always a safe backstop. A zero
// magnitude settles without touching state.
func (n *Negative) Settle() error {
	if n.consumed {
		return nil
	}
	n.consumed = true

	if n.amount.Sign() == 0 {
		return nil
	}
	_, err := balance.SubIssuance(n.stub, n.token, n.amount)
	return err
}

// MustSettle is Settle for deferred use; a failed state write panics and
// aborts the transaction.
func (n *Negative) MustSettle() {
	if err := n.Settle(); err != nil {
		panic(err)
	}
}

// Forgo consumes the value without touching issuance. It is the explicit
// escape hatch for call sites where the issuance side has already been
// accounted for by a direct storage write.
func (n *Negative) Forgo() {
	mustLive(n.consumed)
	n.consumed = true
}
