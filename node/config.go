package node

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"forgechain.dev/node/consensus"
)

// Config is the full set of settings a ledgerd process needs to run:
// which network's consensus parameters to load, where to keep its
// data, and how verbosely to log.
type Config struct {
	Network  string `json:"network"`
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".forgechain"
	}
	return filepath.Join(home, ".forgechain")
}

func DefaultConfig() Config {
	return Config{
		Network:  "mainnet",
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if _, err := ResolveParams(cfg.Network); err != nil {
		return err
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

// ResolveParams maps a network name to its consensus parameters. Only
// "mainnet" exists today; the lookup is a switch on the trimmed,
// lower-cased name, so a devnet or testnet entry is one more case and
// touches no caller.
func ResolveParams(network string) (consensus.Params, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "mainnet":
		return consensus.DefaultMainnetParams(), nil
	default:
		return consensus.Params{}, fmt.Errorf("unknown network %q", network)
	}
}
