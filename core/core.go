package core

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"runtime/debug"
	"time"

	"github.com/dima-brook/pallet-erc1155/core/balance"
	"github.com/dima-brook/pallet-erc1155/core/config"
	"github.com/dima-brook/pallet-erc1155/core/telemetry"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// chaincodeExecModeEnv is the environment variable that specifies the execution mode of the chaincode.
	chaincodeExecModeEnv = "CHAINCODE_EXEC_MODE"
	// chaincodeExecModeServer is the value that, when set for the CHAINCODE_EXEC_MODE environment variable,
	// indicates that the chaincode is running in server mode.
	chaincodeExecModeServer = "server"
	// chaincodeCcIDEnv is the environment variable that holds the chaincode ID.
	chaincodeCcIDEnv = "CHAINCODE_ID"

	// chaincodeServerDefaultPort is the default port on which the chaincode server listens if no other port is specified.
	chaincodeServerDefaultPort = "9999"
	// chaincodeServerPortEnv is the environment variable that specifies the port on which the chaincode server listens.
	chaincodeServerPortEnv = "CHAINCODE_SERVER_PORT"

	// TLS environment variables for the chaincode's TLS configuration with files.
	// tlsKeyFileEnv is the environment variable that specifies the private key file for TLS communication.
	tlsKeyFileEnv = "CHAINCODE_TLS_KEY_FILE"
	// tlsCertFileEnv is the environment variable that specifies the public key certificate file for TLS communication.
	tlsCertFileEnv = "CHAINCODE_TLS_CERT_FILE"
	// tlsClientCACertsFileEnv is the environment variable that specifies the client CA certificates file for TLS communication.
	tlsClientCACertsFileEnv = "CHAINCODE_TLS_CLIENT_CA_CERTS_FILE"

	// TLS environment variables for the chaincode's TLS configuration, directly from ENVs.
	// tlsKeyEnv is the environment variable that specifies the private key for TLS communication.
	tlsKeyEnv = "CHAINCODE_TLS_KEY"
	// tlsCertEnv is the environment variable that specifies the public key certificate for TLS communication.
	tlsCertEnv = "CHAINCODE_TLS_CERT"
	// tlsClientCACertsEnv is the environment variable that specifies the client CA certificates for TLS communication.
	tlsClientCACertsEnv = "CHAINCODE_TLS_CLIENT_CA_CERTS"
)

// CreateIndex is a service route building the reverse balance index
// for a balance type. It is not part of the contract method table.
const CreateIndex = "createIndex"

var ErrRouterNotImplemented = errors.New("contract does not implement Router")

// ChaincodeOption represents a function that applies configuration options to
// a chaincodeOptions object.
type ChaincodeOption func(opts *chaincodeOptions) error

// TLS holds the key and certificate data for TLS communication, as well as
// client CA certificates for peer verification if needed.
type TLS struct {
	Key           []byte // Private key for TLS authentication.
	Cert          []byte // Public certificate for TLS authentication.
	ClientCACerts []byte // Optional client CA certificates for verifying connecting peers.
}

// chaincodeOptions is a structure that holds advanced options for configuring
// a ChainCode instance.
type chaincodeOptions struct {
	TLS          *TLS         // TLS contains the TLS configuration for the chaincode.
	ConfigMapper ConfigMapper // ConfigMapper maps the arguments to a config.Config instance.
}

// Chaincode defines the structure for a chaincode instance, with methods,
// configuration, and options for transaction processing.
type Chaincode struct {
	contract     BaseContractInterface // Contract interface containing the chaincode logic.
	tls          shim.TLSProperties    // TLS configuration properties.
	router       Router                // Router with the contract method table.
	configMapper ConfigMapper          // ConfigMapper maps the arguments to a config.Config instance.
}

// Router returns the contract method table.
func (cc *Chaincode) Router() Router {
	if cc.router != nil {
		return cc.router
	}

	// Error is checked in NewCC.
	cc.router, _ = cc.contract.(Router)

	return cc.router
}

// Method finds a routed method by the invoked function name.
func (cc *Chaincode) Method(functionName string) (Method, error) {
	if method, ok := cc.Router().Methods()[functionName]; ok {
		return method, nil
	}

	return Method{}, fmt.Errorf("method '%s' not found", functionName)
}

// WithConfigMapper is a ChaincodeOption that specifies the ConfigMapper for the ChainCode.
func WithConfigMapper(cm ConfigMapper) ChaincodeOption {
	return func(o *chaincodeOptions) error {
		o.ConfigMapper = cm
		return nil
	}
}

// WithConfigMapperFunc is a ChaincodeOption that specifies the ConfigMapper for the ChainCode.
//
// Example:
//
//	chaincode := core.NewCC(cc, core.WithConfigMapperFunc(func(args []string) (*config.Config, error) {
//	    return config.FromArgs(args)
//	}))
func WithConfigMapperFunc(cmf ConfigMapperFunc) ChaincodeOption {
	return func(o *chaincodeOptions) error {
		o.ConfigMapper = cmf
		return nil
	}
}

// WithTLS is a ChaincodeOption that specifies the TLS configuration for the ChainCode.
func WithTLS(tls *TLS) ChaincodeOption {
	return func(o *chaincodeOptions) error {
		o.TLS = tls
		return nil
	}
}

// WithTLSFromFiles returns a ChaincodeOption that sets the TLS configuration
// for the ChainCode from provided file paths. It reads the specified files
// and uses their contents to configure TLS for the chaincode.
//
// clientCACertPath can be left empty if no client CA certificate is needed.
func WithTLSFromFiles(keyPath, certPath, clientCACertPath string) (ChaincodeOption, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.New("failed to read TLS key: " + err.Error())
	}

	cert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, errors.New("failed to read TLS certificate: " + err.Error())
	}

	tls := &TLS{
		Key:  key,
		Cert: cert,
	}

	if clientCACertPath != "" {
		clientCACerts, err := os.ReadFile(clientCACertPath)
		if err != nil {
			return nil, errors.New("failed to read client CA certificates: " + err.Error())
		}
		tls.ClientCACerts = clientCACerts
	}

	return func(o *chaincodeOptions) error {
		o.TLS = tls
		return nil
	}, nil
}

// NewCC creates a new instance of ChainCode with the given contract interface
// and configurable options.
//
// The environmental variables are checked first to configure TLS settings,
// which takes precedence over the settings provided by the ChaincodeOption
// functions. These variables are:
//
// - CHAINCODE_TLS_KEY or CHAINCODE_TLS_KEY_FILE: For the private key in PEM format or file path.
// - CHAINCODE_TLS_CERT or CHAINCODE_TLS_CERT_FILE: For the public key certificate in PEM format or file path.
// - CHAINCODE_TLS_CLIENT_CA_CERTS or CHAINCODE_TLS_CLIENT_CA_CERTS_FILE: For the client CA certificates in PEM format or file path.
//
// If neither are provided, the TLS feature will remain disabled in the
// chaincode configuration.
func NewCC(
	cc BaseContractInterface,
	chOptions ...ChaincodeOption,
) (*Chaincode, error) {
	empty := new(Chaincode) // Empty chaincode result fixes integration tests.

	if _, ok := cc.(Router); !ok {
		return empty, ErrRouterNotImplemented
	}

	// Default TLS properties, disabled unless keys and certs are provided.
	tlsProps := shim.TLSProperties{
		Disabled: true,
	}

	// Try to read TLS configuration from environment variables.
	key, cert, clientCACerts, err := readTLSConfigFromEnv()
	if err != nil {
		return empty, fmt.Errorf("error reading TLS config from environment: %w", err)
	}

	// If TLS configuration is found in environment variables, use it.
	if key != nil && cert != nil {
		tlsProps.Disabled = false
		tlsProps.Key = key
		tlsProps.Cert = cert
		tlsProps.ClientCACerts = clientCACerts
	}

	// Apply chaincode options provided by the caller.
	chOpts := chaincodeOptions{}
	for _, option := range chOptions {
		if option == nil {
			continue
		}
		err = option(&chOpts)
		if err != nil {
			return empty, fmt.Errorf("reading opts: %w", err)
		}
	}

	// If TLS was provided via options, overwrite env vars.
	if chOpts.TLS != nil {
		tlsProps.Disabled = false
		tlsProps.Key = chOpts.TLS.Key
		tlsProps.Cert = chOpts.TLS.Cert
		tlsProps.ClientCACerts = chOpts.TLS.ClientCACerts
	}

	// Set up the ChainCode structure.
	out := &Chaincode{
		contract:     cc,
		tls:          tlsProps,
		configMapper: chOpts.ConfigMapper,
	}

	return out, nil
}

// Init is called during chaincode instantiation to initialize the ledger
// state. Note that upgrade also calls this function to reset or to migrate data.
//
// It accepts either a single JSON config argument or positional parameters,
// saves the config and seeds the genesis records: the token identifier
// counter, an explicit zero issuance record for the initial token and the
// metadata URI template when one is configured.
func (cc *Chaincode) Init(stub shim.ChaincodeStubInterface) peer.Response {
	args := stub.GetStringArgs()

	var (
		cfgBytes []byte
		err      error
	)
	switch {
	case config.IsJSON(args):
		cfgBytes = []byte(args[0])

	case cc.configMapper != nil:
		cfg, err := cc.configMapper.MapConfig(args)
		if err != nil {
			return shim.Error("init: mapping config: " + err.Error())
		}

		cfgBytes, err = json.Marshal(cfg)
		if err != nil {
			return shim.Error("init: marshaling config: " + err.Error())
		}

	default:
		// Handle args as positional parameters and fill the config structure.
		// TODO: Remove this code when all users have moved to JSON-config initialization.
		cfgBytes, err = config.FromInitArgs(args)
		if err != nil {
			return shim.Error(fmt.Sprintf("init: parsing args old way: %s", err))
		}
	}

	if err = cc.contract.ValidateConfig(cfgBytes); err != nil {
		return shim.Error("init: validating config: " + err.Error())
	}

	if err = config.Save(stub, cfgBytes); err != nil {
		return shim.Error("init: saving config: " + err.Error())
	}

	cfg, err := config.FromBytes(cfgBytes)
	if err != nil {
		return shim.Error("init: unmarshalling config: " + err.Error())
	}

	if err = seedGenesis(stub, cfg); err != nil {
		return shim.Error("init: seeding genesis state: " + err.Error())
	}

	return shim.Success(nil)
}

// seedGenesis writes the initial ledger records. Upgrade calls Init again,
// so the counter is seeded only when it is absent: an upgrade must not
// rewind token identifiers.
func seedGenesis(stub shim.ChaincodeStubInterface, cfg *config.Config) error {
	data, err := stub.GetState(balance.LastTokenIDKey)
	if err != nil {
		return fmt.Errorf("reading token counter: %w", err)
	}

	if len(data) == 0 {
		if err = balance.PutLastTokenID(stub, cfg.InitialToken.ID); err != nil {
			return fmt.Errorf("seeding token counter: %w", err)
		}

		if err = balance.PutIssuance(stub, cfg.InitialToken.ID, new(big.Int)); err != nil {
			return fmt.Errorf("seeding initial issuance: %w", err)
		}
	}

	if cfg.URI != "" {
		if err = balance.PutURI(stub, cfg.URI); err != nil {
			return fmt.Errorf("seeding uri template: %w", err)
		}
	}

	return nil
}

// Invoke is called to update or query the ledger in a proposal transaction.
// Given the function name, it delegates the execution to the respective handler.
func (cc *Chaincode) Invoke(stub shim.ChaincodeStubInterface) (r peer.Response) {
	r = shim.Error("panic invoke")
	defer func() {
		if rc := recover(); rc != nil {
			log.Printf("panic invoke\nrc: %v\nstack: %s\n", rc, debug.Stack())
		}
	}()

	start := time.Now()

	// getting contract config
	cfgBytes, err := config.Load(stub)
	if err != nil {
		return shim.Error("invoke: loading raw config: " + err.Error())
	}

	// Apply config on all layers before routing.
	if err = configure(cc.contract, stub, cfgBytes); err != nil {
		return shim.Error("applying configuration: " + err.Error())
	}

	// Getting carrier from transient map and creating tracing span
	traceCtx := cc.contract.TracingHandler().ContextFromStub(stub)
	traceCtx, span := cc.contract.TracingHandler().StartNewSpan(traceCtx, "cc.Invoke")

	// Transaction context.
	span.AddEvent("get transactionID")
	transactionID := stub.GetTxID()

	span.SetAttributes(attribute.String("channel", stub.GetChannelID()))
	span.SetAttributes(attribute.String("tx_id", transactionID))

	span.AddEvent("get function and parameters")
	functionName, arguments := stub.GetFunctionAndParameters()

	span.AddEvent(fmt.Sprintf("begin id: %s, name: %s", transactionID, functionName))
	defer func() {
		span.AddEvent(fmt.Sprintf("end id: %s, name: %s, elapsed time %d ms",
			transactionID,
			functionName,
			time.Since(start).Milliseconds(),
		))

		span.End()
	}()

	span.AddEvent("validating transaction ID")
	if err = cc.ValidateTxID(stub); err != nil {
		errMsg := "invoke: validating transaction ID: " + err.Error()
		span.SetStatus(codes.Error, errMsg)
		return shim.Error(errMsg)
	}

	span.SetAttributes(attribute.String("method", functionName))
	if functionName == CreateIndex { // Creating a reverse index to find token owners.
		return cc.createIndexHandler(traceCtx, stub, arguments)
	}

	method, err := cc.Method(functionName)
	if err != nil {
		errMsg := "invoke: finding method: " + err.Error()
		span.SetStatus(codes.Error, errMsg)
		return shim.Error(errMsg)
	}

	switch method.Type {
	case MethodTypeQuery:
		span.SetAttributes(telemetry.MethodType(telemetry.MethodQuery))
		// Queries must leave no trace in the world state.
		cc.contract.SetStub(newQueryStub(stub))
	case MethodTypeTransaction:
		span.SetAttributes(telemetry.MethodType(telemetry.MethodTx))
	}

	cc.contract.setTraceContext(traceCtx)

	span.AddEvent("calling method")
	resp, err := method.Fn(arguments)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return shim.Error(err.Error())
	}

	span.SetStatus(codes.Ok, "")
	return shim.Success(resp)
}

// ValidateTxID validates the transaction ID to ensure it is correctly formatted.
func (cc *Chaincode) ValidateTxID(stub shim.ChaincodeStubInterface) error {
	_, err := hex.DecodeString(stub.GetTxID())
	if err != nil {
		return fmt.Errorf("incorrect tx id: %w", err)
	}

	return nil
}

// configure applies the stored config to the contract and points it at
// the stub of the current invocation.
func configure(bc BaseContractInterface, stub shim.ChaincodeStubInterface, cfgBytes []byte) error {
	bc.SetStub(stub)

	cfg, err := config.FromBytes(cfgBytes)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return bc.ApplyContractConfig(cfg)
}

// Start begins the chaincode execution based on the environment configuration. It decides whether to
// start the chaincode in the default mode or as a server based on the CHAINCODE_EXEC_MODE environment
// variable. In server mode, it requires the CHAINCODE_ID to be set and uses CHAINCODE_SERVER_PORT for
// the port or defaults to a predefined port if not set. It returns an error if the necessary
// environment variables are not set or if the chaincode fails to start.
func (cc *Chaincode) Start() error {
	// get chaincode execution mode
	execMode := os.Getenv(chaincodeExecModeEnv)
	// if exec mode is not chaincode-as-server or not defined start chaincode as usual
	if execMode != chaincodeExecModeServer {
		return shim.Start(cc)
	}
	// if chaincode exec mode is chaincode-as-server we should propagate variables
	var ccID string
	// if chaincode was set during runtime build, use it
	if ccID = os.Getenv(chaincodeCcIDEnv); ccID == "" {
		return errors.New("need to specify chaincode id if running as server")
	}

	port := os.Getenv(chaincodeServerPortEnv)
	if port == "" {
		port = chaincodeServerDefaultPort
	}

	srv := shim.ChaincodeServer{
		CCID:     ccID,
		Address:  fmt.Sprintf("%s:%s", "0.0.0.0", port),
		CC:       cc,
		TLSProps: cc.tls,
	}
	return srv.Start()
}

// readTLSConfigFromEnv tries to read TLS configuration from environment variables.
func readTLSConfigFromEnv() ([]byte, []byte, []byte, error) {
	var (
		key, cert, clientCACerts []byte
		err                      error
	)

	if keyEnv := os.Getenv(tlsKeyEnv); keyEnv != "" {
		key = []byte(keyEnv)
	} else if keyFile := os.Getenv(tlsKeyFileEnv); keyFile != "" {
		key, err = os.ReadFile(keyFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read TLS key file: %w", err)
		}
	}

	if certEnv := os.Getenv(tlsCertEnv); certEnv != "" {
		cert = []byte(certEnv)
	} else if certFile := os.Getenv(tlsCertFileEnv); certFile != "" {
		cert, err = os.ReadFile(certFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read TLS certificate file: %w", err)
		}
	}

	if caCertsEnv := os.Getenv(tlsClientCACertsEnv); caCertsEnv != "" {
		clientCACerts = []byte(caCertsEnv)
	} else if caCertsFile := os.Getenv(tlsClientCACertsFileEnv); caCertsFile != "" {
		clientCACerts, err = os.ReadFile(caCertsFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read client CA certificates file: %w", err)
		}
	}

	return key, cert, clientCACerts, nil
}

func (cc *Chaincode) createIndexHandler(traceCtx telemetry.TraceContext, stub shim.ChaincodeStubInterface, arguments []string) peer.Response {
	_, span := cc.contract.TracingHandler().StartNewSpan(traceCtx, "chaincode.CreateIndexHandler")
	defer span.End()

	if len(arguments) != 1 {
		errMsg := fmt.Sprintf("invoke: incorrect number of arguments: %d", len(arguments))
		span.SetStatus(codes.Error, errMsg)
		return shim.Error(errMsg)
	}

	balanceType, err := balance.StringToBalanceType(arguments[0])
	if err != nil {
		errMsg := "invoke: parsing object type: " + err.Error()
		span.SetStatus(codes.Error, errMsg)
		return shim.Error(errMsg)
	}

	if err = balance.CreateIndex(stub, balanceType); err != nil {
		errMsg := "invoke: create index: " + err.Error()
		span.SetStatus(codes.Error, errMsg)
		return shim.Error(errMsg)
	}

	span.SetStatus(codes.Ok, "")
	return shim.Success([]byte(`{"status": "success"}`))
}
