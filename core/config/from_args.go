// Positional initialization is kept for deploy tools that predate the
// JSON config. New deployments pass a single JSON argument to Init and
// never reach this code path.

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FromArgs configures the Config from positional initialization arguments.
// Args: [symbol, initialTokenID] or [symbol, initialTokenID, uriTemplate]
func FromArgs(args []string) (*Config, error) {
	const (
		minArgsCount = 2
		maxArgsCount = 3
	)
	if len(args) < minArgsCount || len(args) > maxArgsCount {
		return nil, fmt.Errorf("required args length is '%d' or '%d', passed %d",
			minArgsCount, maxArgsCount, len(args))
	}

	symbol := strings.ToUpper(args[0])
	if symbol == "" {
		return nil, ErrSymbolEmpty
	}

	tokenID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing initial token id '%s': %w", args[1], err)
	}

	uri := ""
	if len(args) == maxArgsCount {
		uri = args[2]
	}

	cfg := &Config{
		Symbol: symbol,
		InitialToken: InitialToken{
			ID: tokenID,
		},
		URI: uri,
	}
	return cfg, nil
}

// Deprecated: added only for backward compatibility.
// FromInitArgs parses positional initialization arguments and generates JSON-config of []byte type.
// Marked for deletion after all deploy tools will be switched to JSON-config initialization of chaincodes.
func FromInitArgs(args []string) ([]byte, error) {
	cfg, err := FromArgs(args)
	if err != nil {
		return nil, err
	}

	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}

	return cfgBytes, nil
}
