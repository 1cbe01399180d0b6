package balance

import (
	"math"
	"strconv"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// LastTokenIDKey is the state key holding the next token id to allocate.
// The counter is seeded once at genesis and only ever increases.
const LastTokenIDKey = "last_token_id"

// LastTokenID reads the allocation counter. An unset counter reads as zero.
func LastTokenID(stub shim.ChaincodeStubInterface) (uint64, error) {
	idBytes, err := stub.GetState(LastTokenIDKey)
	if err != nil {
		return 0, err
	}
	if len(idBytes) == 0 {
		return 0, nil
	}

	return strconv.ParseUint(string(idBytes), 10, 64)
}

// PutLastTokenID stores the allocation counter.
func PutLastTokenID(stub shim.ChaincodeStubInterface, id uint64) error {
	return stub.PutState(LastTokenIDKey, []byte(strconv.FormatUint(id, 10)))
}

// NextTokenID allocates a token id: it returns the current counter value and
// advances the counter by one, saturating at the maximum so the counter never
// wraps around.
func NextTokenID(stub shim.ChaincodeStubInterface) (uint64, error) {
	id, err := LastTokenID(stub)
	if err != nil {
		return 0, err
	}

	next := id
	if next < math.MaxUint64 {
		next++
	}
	if err := PutLastTokenID(stub, next); err != nil {
		return 0, err
	}

	return id, nil
}
