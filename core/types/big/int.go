package big

import (
	"math/big"
)

// Int steams math/big/Int with custom Marshall Unmarshall methods,
// which in the byte representation add quotes at the beginning and end of the number.
// Example 123 -> "123".
// Added for nodejs-backend to work with large numbers.
type Int struct {
	big.Int
}

// SetInt64 sets z to x and returns z.
func (z *Int) SetInt64(x int64) *Int {
	z.Int.SetInt64(x)
	return z
}

// SetUint64 sets z to x and returns z.
func (z *Int) SetUint64(x uint64) *Int {
	z.Int.SetUint64(x)
	return z
}

// NewInt allocates and returns a new Int set to x.
func NewInt(x int64) *Int {
	return new(Int).SetInt64(x)
}

// Set sets z to x and returns z.
func (z *Int) Set(x *Int) *Int {
	z.Int.Set(arg(x))
	return z
}

// SetBig sets z to the math/big value x and returns z.
func (z *Int) SetBig(x *big.Int) *Int {
	z.Int.Set(x)
	return z
}

// BigInt returns the underlying math/big value of z.
func (z *Int) BigInt() *big.Int {
	return &z.Int
}

// Add sets z to the sum x+y and returns z.
func (z *Int) Add(x, y *Int) *Int {
	z.Int.Add(arg(x), arg(y))
	return z
}

// Sub sets z to the difference x-y and returns z.
func (z *Int) Sub(x, y *Int) *Int {
	z.Int.Sub(arg(x), arg(y))
	return z
}

// Cmp compares x and y and returns:
//
//	-1 if x <  y
//	 0 if x == y
//	+1 if x >  y
func (z *Int) Cmp(y *Int) (r int) {
	return z.Int.Cmp(arg(y))
}

// SetString sets z to the value of s, interpreted in the given base,
// and returns z and a boolean indicating success. The entire string
// (not just a prefix) must be valid for success. If SetString fails,
// the value of z is undefined but the returned value is nil.
func (z *Int) SetString(s string, base int) (*Int, bool) {
	_, ok := z.Int.SetString(s, base)
	if !ok {
		return nil, ok
	}
	return z, ok
}

// SetBytes interprets buf as the bytes of a big-endian unsigned
// integer, sets z to that value, and returns z.
func (z *Int) SetBytes(buf []byte) *Int {
	z.Int.SetBytes(buf)
	return z
}

// ===================================

// The JSON marshalers are only here for API backward compatibility
// (programs that explicitly look for these two methods). JSON works
// fine with the TextMarshaler only.

// MarshalJSON implements the json.Marshaler interface.
func (z *Int) MarshalJSON() ([]byte, error) {
	out, err := z.MarshalText()
	if err != nil {
		return out, err
	}
	return []byte("\"" + string(out) + "\""), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (z *Int) UnmarshalJSON(text []byte) error {
	// Ignore null, like in the main JSON package.
	text = unquoteIfQuoted(text)
	if string(text) == "null" {
		return nil
	}
	return z.UnmarshalText(text)
}

func unquoteIfQuoted(bytes []byte) []byte {
	if len(bytes) > 2 && bytes[0] == '"' && bytes[len(bytes)-1] == '"' {
		return bytes[1 : len(bytes)-1]
	}
	return bytes
}

func arg(x *Int) *big.Int {
	if x == nil {
		return nil
	}

	return &x.Int
}
