package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"forgechain.dev/node/consensus"
	"forgechain.dev/node/node"
	"golang.org/x/crypto/ed25519"
)

var newMinerFn = node.NewMiner

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := node.DefaultConfig()
	cfg := defaults

	fs := flag.NewFlagSet("ledgerd", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Network, "network", defaults.Network, "network name (mainnet)")
	fs.StringVar(&cfg.DataDir, "datadir", defaults.DataDir, "node data directory")
	fs.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "log level: debug|info|warn|error")
	mineBlocks := fs.Int("mine-blocks", 0, "mine N blocks locally after startup")
	mineExit := fs.Bool("mine-exit", false, "exit immediately after local mining")
	dryRun := fs.Bool("dry-run", false, "print effective config and exit")
	paramsFile := fs.String("params-file", "", "path to a network-parameters file overriding -network's built-in defaults")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := node.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Error("datadir create failed", "error", err)
		return 2
	}

	var params consensus.Params
	var err error
	if *paramsFile != "" {
		params, err = node.LoadParamsFile(*paramsFile)
		if err != nil {
			logger.Error("params file load failed", "error", err, "path", *paramsFile)
			return 2
		}
	} else {
		params, err = node.ResolveParams(cfg.Network)
		if err != nil {
			logger.Error("resolve network params failed", "error", err)
			return 2
		}
	}

	blockStore, err := node.OpenBlockStore(cfg.DataDir)
	if err != nil {
		logger.Error("blockstore open failed", "error", err)
		return 2
	}
	defer blockStore.Close()

	chainState, err := node.NewChainState(params, blockStore)
	if err != nil {
		logger.Error("chainstate init failed", "error", err)
		return 2
	}

	height, tipHash, err := chainState.Tip()
	if err != nil {
		logger.Error("chainstate tip read failed", "error", err)
		return 2
	}

	if err := printConfig(stdout, cfg); err != nil {
		logger.Error("config encode failed", "error", err)
		return 1
	}
	logger.Info("chainstate", "height", height, "tip", fmt.Sprintf("%x", tipHash))

	if *dryRun {
		return 0
	}

	if *mineBlocks > 0 {
		rewardAddr, err := devRewardAddress(params)
		if err != nil {
			logger.Error("reward address derivation failed", "error", err)
			return 2
		}
		miner, err := newMinerFn(chainState, params, node.DefaultMinerConfig(rewardAddr))
		if err != nil {
			logger.Error("miner init failed", "error", err)
			return 2
		}
		mined, err := miner.MineN(context.Background(), *mineBlocks, nil)
		if err != nil {
			logger.Error("mining failed", "error", err)
			return 2
		}
		for _, b := range mined {
			logger.Info("mined block", "height", b.Height, "hash", fmt.Sprintf("%x", b.Hash), "timestamp", b.Timestamp, "nonce", b.Nonce, "tx_count", b.TxCount)
		}
		if *mineExit {
			return 0
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("ledgerd running")
	<-ctx.Done()
	logger.Info("ledgerd stopped")
	return 0
}

// devRewardAddress derives a dev-only address for local mining from a
// freshly generated keypair, so each run pays a different address; the
// private key is not kept. A production deployment supplies its own
// reward address from wallet key management, which is out of scope here.
func devRewardAddress(params consensus.Params) ([consensus.AddressSize]byte, error) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		return [consensus.AddressSize]byte{}, err
	}
	return consensus.AddressFromPubkey(pub, params.AddressVersion), nil
}

func printConfig(w io.Writer, cfg node.Config) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
