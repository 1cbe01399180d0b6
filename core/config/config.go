package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dima-brook/pallet-erc1155/core/telemetry"
	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// keyConfig is a key for storing a configuration data in json format.
const keyConfig = "__config"

var ErrCfgBytesEmpty = errors.New("config bytes is empty")

// positional args specific errors
var (
	ErrSymbolEmpty = errors.New("'symbol' is empty")
)

// Config carries everything the chaincode needs to bootstrap the ledger.
// The initial token seeds the identifier counter and gets an explicit
// zero issuance record during Init.
type Config struct {
	Symbol                   string                       `json:"symbol"`
	InitialToken             InitialToken                 `json:"initial_token"`
	URI                      string                       `json:"uri,omitempty"`
	TracingCollectorEndpoint *telemetry.CollectorEndpoint `json:"tracing_collector_endpoint,omitempty"`
}

// InitialToken names the token the genesis block starts the ledger with.
// Its identifier also seeds the allocation counter, so tokens created
// later get identifiers following it.
type InitialToken struct {
	ID uint64 `json:"id"`
}

// Validate checks that the configuration carries everything Init needs.
func (cfg *Config) Validate() error {
	if cfg.Symbol == "" {
		return ErrSymbolEmpty
	}

	return nil
}

// Save saves configuration data to the state using the provided State interface.
//
// If the provided cfgBytes slice is empty, the function returns an ErrCfgBytesEmpty error.
//
// If there is an error while saving the data to the state, an error is returned with
// additional information about the error.
func Save(stub shim.ChaincodeStubInterface, cfgBytes []byte) error {
	if len(cfgBytes) == 0 {
		return ErrCfgBytesEmpty
	}

	if err := stub.PutState(keyConfig, cfgBytes); err != nil {
		return fmt.Errorf("putting config data to state: %w", err)
	}

	return nil
}

// Load retrieves and returns the raw configuration data from the state
// using the provided State interface.
//
// The function returns the configuration data as a byte slice and nil error if successful.
//
// If there is an error while loading the data from the state,
// an error is returned with additional information about the error.
//
// If the retrieved configuration data is empty, the function returns an ErrCfgBytesEmpty error.
func Load(stub shim.ChaincodeStubInterface) ([]byte, error) {
	cfgBytes, err := stub.GetState(keyConfig)
	if err != nil {
		return nil, fmt.Errorf("loading raw config: %w", err)
	}

	if len(cfgBytes) == 0 {
		return nil, ErrCfgBytesEmpty
	}

	return cfgBytes, nil
}

// FromBytes parses the provided byte slice containing JSON-encoded configuration
// and returns a pointer to a Config struct.
func FromBytes(cfgBytes []byte) (*Config, error) {
	cfg := new(Config)

	if err := json.Unmarshal(cfgBytes, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsJSON checks if the provided arguments represent a valid JSON configuration.
//
// The function returns true if there is exactly one argument in the initialization args slice,
// and if the content of that argument is a valid JSON.
func IsJSON(args []string) bool {
	return len(args) == 1 && json.Valid([]byte(args[0]))
}
