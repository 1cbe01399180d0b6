package balance

import (
	"errors"
	"math/big"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// InverseBalanceObjectType is designed for indexing the inverse balance values to retrieve
// a list of token owners.
const InverseBalanceObjectType = "inverse_balance"

var ErrAddressMustNotBeEmpty = errors.New("address must not be empty")

// Get retrieves the balance value for the given address and token, constructing the appropriate composite key.
// An absent entry reads as zero.
//
// Parameters:
//   - stub: shim.ChaincodeStubInterface - The chaincode stub interface for accessing ledger operations.
//   - balanceType: BalanceType - The type of balance to retrieve, which determines the state key's prefix.
//   - address: string - The address associated with the balance.
//   - token: uint64 - The token identifier.
//
// Returns:
//   - *big.Int - The balance value associated with the composite key.
//   - error - An error if the retrieval fails, otherwise nil.
func Get(
	stub shim.ChaincodeStubInterface,
	balanceType BalanceType,
	address string,
	token uint64,
) (*big.Int, error) {
	if address == "" {
		return nil, ErrAddressMustNotBeEmpty
	}

	compositeKey, err := stub.CreateCompositeKey(balanceType.String(), []string{address, TokenKey(token)})
	if err != nil {
		return nil, err
	}

	// Retrieve the balance from the ledger using the composite key.
	balanceBytes, err := stub.GetState(compositeKey)
	if err != nil {
		return nil, err
	}

	// Convert the balance from bytes to *big.Int and return.
	balance := new(big.Int).SetBytes(balanceBytes)
	return balance, nil
}

// Put stores the balance for a given address and token into the ledger and keeps
// the inverse index entry in lockstep.
//
// Parameters:
//   - stub: shim.ChaincodeStubInterface - The chaincode stub interface for accessing ledger operations.
//   - balanceType: BalanceType - The type of balance to store, which determines the state key's prefix.
//   - address: string - The address associated with the balance.
//   - token: uint64 - The token identifier.
//   - value: *big.Int - The balance value to store associated with the address and token.
//
// Returns:
//   - error - An error if the storage fails, otherwise nil.
func Put(
	stub shim.ChaincodeStubInterface,
	balanceType BalanceType,
	address string,
	token uint64,
	value *big.Int,
) error {
	if address == "" {
		return ErrAddressMustNotBeEmpty
	}

	// Create the primary composite key for the balance entry.
	primaryCompositeKey, err := stub.CreateCompositeKey(balanceType.String(), []string{address, TokenKey(token)})
	if err != nil {
		return err
	}

	// Store the balance using the primary composite key.
	if err := stub.PutState(primaryCompositeKey, value.Bytes()); err != nil {
		return err
	}

	// Create the inverse composite key for the balance entry.
	inverseCompositeKey, err := stub.CreateCompositeKey(
		InverseBalanceObjectType,
		[]string{balanceType.String(), TokenKey(token), address},
	)
	if err != nil {
		return err
	}

	// Store the balance using the inverse composite key.
	return stub.PutState(inverseCompositeKey, value.Bytes())
}
