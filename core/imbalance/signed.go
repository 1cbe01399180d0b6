package imbalance

import "math/big"

// Signed is the outcome of netting a surplus against a deficit. At most one
// side is present; an empty Signed means the pair cancelled exactly and
// nothing remains to discharge.
type Signed struct {
	pos *Positive
	neg *Negative
}

// SignedPositive wraps a surplus as a signed value.
func SignedPositive(p *Positive) Signed { return Signed{pos: p} }

// SignedNegative wraps a deficit as a signed value.
func SignedNegative(n *Negative) Signed { return Signed{neg: n} }

// Positive returns the surplus side if present.
func (s Signed) Positive() (*Positive, bool) { return s.pos, s.pos != nil }

// Negative returns the deficit side if present.
func (s Signed) Negative() (*Negative, bool) { return s.neg, s.neg != nil }

// IsEmpty reports whether neither side is present.
func (s Signed) IsEmpty() bool { return s.pos == nil && s.neg == nil }

// Peek returns a copy of the magnitude of whichever side is present, zero
// when empty.
func (s Signed) Peek() *big.Int {
	switch {
	case s.pos != nil:
		return s.pos.Peek()
	case s.neg != nil:
		return s.neg.Peek()
	default:
		return new(big.Int)
	}
}

// Settle discharges whichever side is present into recorded issuance; an
// empty value settles as a no-op.
func (s Signed) Settle() error {
	switch {
	case s.pos != nil:
		return s.pos.Settle()
	case s.neg != nil:
		return s.neg.Settle()
	default:
		return nil
	}
}

// MustSettle is Settle for deferred use; a failed state write panics and
// aborts the transaction.
func (s Signed) MustSettle() {
	if err := s.Settle(); err != nil {
		panic(err)
	}
}
