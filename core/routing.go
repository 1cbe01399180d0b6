package core

import (
	"github.com/dima-brook/pallet-erc1155/core/config"
)

// MethodType splits routed methods into state-changing transactions and
// read-only queries. Queries run on a stub that drops writes and events.
type MethodType int

const (
	// MethodTypeTransaction is a method that changes the world state.
	MethodTypeTransaction MethodType = iota
	// MethodTypeQuery is a read-only method.
	MethodTypeQuery
)

// MethodFunc executes one routed chaincode function. Arguments arrive as
// the raw strings of the invocation, the return value is the payload of
// the peer response.
type MethodFunc func(args []string) ([]byte, error)

// Method describes a single routed chaincode function.
type Method struct {
	Type MethodType
	Fn   MethodFunc
}

// Router is implemented by contracts that declare their own method table.
// The chaincode refuses to start for contracts that do not.
type Router interface {
	Methods() map[string]Method
}

// ConfigMapper maps positional initialization arguments to a Config.
type ConfigMapper interface {
	MapConfig(args []string) (*config.Config, error)
}

// ConfigMapperFunc is an adapter to allow the use of ordinary functions
// as ConfigMapper.
type ConfigMapperFunc func(args []string) (*config.Config, error)

// MapConfig calls f(args).
func (f ConfigMapperFunc) MapConfig(args []string) (*config.Config, error) {
	return f(args)
}
