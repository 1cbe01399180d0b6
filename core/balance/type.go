package balance

import (
	"fmt"
	"strconv"
)

// BalanceType represents different types of balance-related state keys in the ledger.
type BalanceType byte

// String returns the hexadecimal string representation of the BalanceType.
func (ot BalanceType) String() string {
	return strconv.FormatUint(uint64(ot), 16)
}

// Constants for different BalanceType values representing various balance state keys.
const (
	BalanceTypeToken       BalanceType = 0x2b
	BalanceTypeTokenLocked BalanceType = 0x2e
	BalanceTypeIssuance    BalanceType = 0x30
)

// BalanceTypeToStringMapValue returns string map value of the BalanceType
func BalanceTypeToStringMapValue(ot BalanceType) (string, error) {
	balanceTypeToStringMap := map[BalanceType]string{
		BalanceTypeToken:       "Token",
		BalanceTypeTokenLocked: "TokenLocked",
	}

	// Look up the BalanceType in the map.
	s, ok := balanceTypeToStringMap[ot]
	if !ok {
		return "", fmt.Errorf("unknown BalanceType: %s", ot.String())
	}

	return s, nil
}

// StringToBalanceType converts a string representation of a balance state key to its corresponding BalanceType.
func StringToBalanceType(s string) (BalanceType, error) {
	stringToBalanceTypeMap := map[string]BalanceType{
		"Token":       BalanceTypeToken,
		"TokenLocked": BalanceTypeTokenLocked,
	}

	// Look up the BalanceType in the map.
	ot, ok := stringToBalanceTypeMap[s]
	if !ok {
		return 0, fmt.Errorf("unknown BalanceType string: %s", s)
	}

	return ot, nil
}

// TokenKey renders a token id as a composite key attribute.
func TokenKey(token uint64) string {
	return strconv.FormatUint(token, 10)
}

// ParseTokenKey parses a composite key attribute back into a token id.
func ParseTokenKey(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
