package core

import (
	"fmt"
	"sort"

	"github.com/dima-brook/pallet-erc1155/core/config"
	"github.com/dima-brook/pallet-erc1155/core/telemetry"
	"github.com/dima-brook/pallet-erc1155/core/types"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"go.opentelemetry.io/otel"
)

// BaseContract is a base contract for all contracts
type BaseContract struct {
	stub           shim.ChaincodeStubInterface
	config         *config.Config
	traceCtx       telemetry.TraceContext
	tracingHandler *telemetry.TracingHandler
}

var _ BaseContractInterface = &BaseContract{}

// GetStub returns stub
func (bc *BaseContract) GetStub() shim.ChaincodeStubInterface {
	return bc.stub
}

// SetStub sets the stub the contract works against. The chaincode calls
// it on every invocation before routing.
func (bc *BaseContract) SetStub(stub shim.ChaincodeStubInterface) {
	bc.stub = stub
}

// GetMethods returns the sorted list of routed method names.
func (bc *BaseContract) GetMethods(bci BaseContractInterface) []string {
	router, ok := bci.(Router)
	if !ok {
		panic(fmt.Sprintf("contract '%s' does not implement Router", bci.ID()))
	}

	contractMethods := router.Methods()

	methods := make([]string, 0, len(contractMethods))
	for name := range contractMethods {
		methods = append(methods, name)
	}

	sort.Strings(methods)

	return methods
}

func (bc *BaseContract) ID() string {
	return bc.ContractConfig().Symbol
}

// ValidateConfig checks that raw config bytes parse into a valid Config.
func (bc *BaseContract) ValidateConfig(cfgBytes []byte) error {
	if _, err := config.FromBytes(cfgBytes); err != nil {
		return fmt.Errorf("unmarshalling base config data failed: %w", err)
	}

	return nil
}

func (bc *BaseContract) ApplyContractConfig(cfg *config.Config) error {
	bc.config = cfg

	return nil
}

func (bc *BaseContract) ContractConfig() *config.Config {
	if bc.config == nil {
		panic("contract config is not set")
	}

	return bc.config
}

// TxHealthCheck can be called by an administrator of the contract for checking if
// the business logic of the chaincode is still alive.
func (bc *BaseContract) TxHealthCheck(_ *types.Sender) error {
	return nil
}

// setTraceContext sets context for telemetry. For call methods only
func (bc *BaseContract) setTraceContext(traceCtx telemetry.TraceContext) {
	bc.traceCtx = traceCtx
}

// GetTraceContext returns trace context. Using for call methods only
func (bc *BaseContract) GetTraceContext() telemetry.TraceContext {
	return bc.traceCtx
}

// setTracingHandler sets base contract tracingHandler
func (bc *BaseContract) setTracingHandler(th *telemetry.TracingHandler) {
	bc.tracingHandler = th
}

// TracingHandler returns base contract tracingHandler
func (bc *BaseContract) TracingHandler() *telemetry.TracingHandler {
	if bc.tracingHandler == nil {
		bc.setupTracing()
	}

	return bc.tracingHandler
}

// setupTracing lazy telemetry tracing setup.
func (bc *BaseContract) setupTracing() {
	serviceName := "chaincode-" + bc.ID()

	telemetry.InstallTraceProvider(bc.ContractConfig().TracingCollectorEndpoint, serviceName)

	th := &telemetry.TracingHandler{}
	th.Tracer = otel.Tracer(serviceName)
	th.Propagators = otel.GetTextMapPropagator()
	th.TracingInit()

	bc.setTracingHandler(th)
}

// BaseContractInterface represents BaseContract interface
type BaseContractInterface interface {
	// WARNING!
	// Private interface methods can only be implemented in this package.
	// Bad practice. Can only be used to embed the necessary structure
	// and no more. Needs refactoring in the future.

	GetStub() shim.ChaincodeStubInterface
	SetStub(shim.ChaincodeStubInterface)

	ID() string

	ValidateConfig(cfgBytes []byte) error
	ApplyContractConfig(cfg *config.Config) error
	ContractConfig() *config.Config

	setTraceContext(traceCtx telemetry.TraceContext)
	GetTraceContext() telemetry.TraceContext

	setTracingHandler(th *telemetry.TracingHandler)
	TracingHandler() *telemetry.TracingHandler
}
