package balance

import (
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// TokenURIKey is the state key holding the metadata URI template shared by
// all token ids. Clients substitute the id into the template themselves.
const TokenURIKey = "token_uri"

// GetURI reads the metadata URI template. An unset template reads as "".
func GetURI(stub shim.ChaincodeStubInterface) (string, error) {
	uriBytes, err := stub.GetState(TokenURIKey)
	if err != nil {
		return "", err
	}

	return string(uriBytes), nil
}

// PutURI stores the metadata URI template.
func PutURI(stub shim.ChaincodeStubInterface, uri string) error {
	return stub.PutState(TokenURIKey, []byte(uri))
}
