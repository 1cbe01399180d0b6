package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressLength is expected bytes len for an account Address
const AddressLength = 32

// ErrInvalidAddressLength is returned when raw address bytes are not AddressLength long.
var ErrInvalidAddressLength = errors.New("invalid address length")

// Address is an opaque account identifier. The all-zero address is the
// default account: it can never hold funds and is rejected as a
// destination.
type Address struct {
	data []byte
}

// AddrFromBytes creates address from bytes
func AddrFromBytes(in []byte) (*Address, error) {
	if len(in) != AddressLength {
		return nil, ErrInvalidAddressLength
	}
	addrBytes := make([]byte, AddressLength)
	copy(addrBytes, in)
	return &Address{data: addrBytes}, nil
}

// AddrFromBase58Check creates address from base58 string
func AddrFromBase58Check(in string) (*Address, error) {
	value, ver, err := base58.CheckDecode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding base58 '%s' failed, err: %w", in, err)
	}

	return AddrFromBytes(append([]byte{ver}, value...))
}

// Equal compares two addresses
func (a *Address) Equal(b *Address) bool {
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// IsZero reports whether the address is the default (all-zero) account id.
func (a *Address) IsZero() bool {
	if a == nil || len(a.data) == 0 {
		return true
	}
	for _, b := range a.data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Bytes returns address bytes
func (a *Address) Bytes() []byte {
	if a == nil {
		return nil
	}
	return a.data
}

// String returns address string
func (a *Address) String() string {
	return base58.CheckEncode(a.data[1:], a.data[0])
}

// MarshalJSON marshals address to json
func (a *Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON unmarshals address from json
func (a *Address) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	decoded, err := AddrFromBase58Check(tmp)
	if err != nil {
		return err
	}
	a.data = decoded.data
	return nil
}

// Sender is a wrapper for the authenticated tx origin address
type Sender struct {
	addr *Address
}

// NewSenderFromAddr creates sender from address
func NewSenderFromAddr(addr *Address) *Sender {
	return &Sender{addr: addr}
}

// Address returns address
func (s *Sender) Address() *Address {
	return s.addr
}

// Equal compares sender address with b
func (s *Sender) Equal(b *Address) bool {
	return s.addr.Equal(b)
}
