package balance

import (
	"math/big"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// Issuance entries record the total supply per token. They are keyed by the
// token alone under the BalanceTypeIssuance prefix; an absent entry reads as
// zero. Only imbalance settlement, supply-level issue/burn and genesis are
// expected to write here.

// GetIssuance retrieves the recorded total issuance for the given token.
func GetIssuance(stub shim.ChaincodeStubInterface, token uint64) (*big.Int, error) {
	compositeKey, err := issuanceCompositeKey(stub, token)
	if err != nil {
		return nil, err
	}

	issuanceBytes, err := stub.GetState(compositeKey)
	if err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(issuanceBytes), nil
}

// PutIssuance stores the total issuance for the given token.
func PutIssuance(stub shim.ChaincodeStubInterface, token uint64, value *big.Int) error {
	compositeKey, err := issuanceCompositeKey(stub, token)
	if err != nil {
		return err
	}

	return stub.PutState(compositeKey, value.Bytes())
}

// AddIssuance increases the recorded issuance for the given token by amount.
func AddIssuance(stub shim.ChaincodeStubInterface, token uint64, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrAmountMustBeNonNegative
	}

	currentIssuance, err := GetIssuance(stub, token)
	if err != nil {
		return err
	}

	newIssuance := new(big.Int).Add(currentIssuance, amount)
	return PutIssuance(stub, token, newIssuance)
}

// SubIssuance decreases the recorded issuance for the given token by amount,
// clamping at zero. It returns the amount actually removed, which is smaller
// than the requested amount when the clamp was hit.
func SubIssuance(stub shim.ChaincodeStubInterface, token uint64, amount *big.Int) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, ErrAmountMustBeNonNegative
	}

	currentIssuance, err := GetIssuance(stub, token)
	if err != nil {
		return nil, err
	}

	removed := new(big.Int).Set(amount)
	newIssuance := new(big.Int).Sub(currentIssuance, amount)
	if newIssuance.Sign() < 0 {
		removed.Set(currentIssuance)
		newIssuance.SetInt64(0)
	}

	if err := PutIssuance(stub, token, newIssuance); err != nil {
		return nil, err
	}

	return removed, nil
}

// TokenIssuance represents one recorded issuance entry.
type TokenIssuance struct {
	Token    uint64
	Issuance *big.Int
}

// ListIssuances fetches every recorded issuance entry in token key order.
func ListIssuances(stub shim.ChaincodeStubInterface) ([]TokenIssuance, error) {
	stateIterator, err := stub.GetStateByPartialCompositeKey(BalanceTypeIssuance.String(), []string{})
	if err != nil {
		return nil, err
	}
	defer stateIterator.Close()

	var issuances []TokenIssuance
	for stateIterator.HasNext() {
		response, err := stateIterator.Next()
		if err != nil {
			return nil, err
		}

		_, components, err := stub.SplitCompositeKey(response.GetKey())
		if err != nil {
			return nil, err
		}

		if len(components) < 1 {
			continue
		}

		token, err := ParseTokenKey(components[0])
		if err != nil {
			continue
		}

		issuances = append(issuances, TokenIssuance{
			Token:    token,
			Issuance: new(big.Int).SetBytes(response.GetValue()),
		})
	}

	return issuances, nil
}

func issuanceCompositeKey(stub shim.ChaincodeStubInterface, token uint64) (string, error) {
	return stub.CreateCompositeKey(BalanceTypeIssuance.String(), []string{TokenKey(token)})
}
