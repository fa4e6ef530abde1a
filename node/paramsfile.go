package node

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"forgechain.dev/node/consensus"
)

// paramsFile is the on-disk JSON shape of a network-parameters file:
// the same fields consensus.Params carries, with the fixed-width
// pow_limit array hex-encoded so the file stays hand-editable.
type paramsFile struct {
	BlockVersion       uint32 `json:"block_version"`
	AddressVersion     byte   `json:"address_version"`
	MaxBlockSize       uint32 `json:"max_block_size"`
	MaxFutureBlockTime uint32 `json:"max_future_block_time"`
	PowLimit           string `json:"pow_limit"`
	GenesisTimestamp   uint32 `json:"genesis_timestamp"`
	GenesisBits        uint32 `json:"genesis_bits"`
	GenesisNonce       uint32 `json:"genesis_nonce"`
}

// LoadParamsFile reads a network-parameters file from path and decodes
// it into consensus.Params, for deployments that pin their consensus
// parameters to a distributed file rather than the baked-in
// consensus.DefaultMainnetParams — see that function's own doc comment
// on why a production network shouldn't run on a literal.
func LoadParamsFile(path string) (consensus.Params, error) {
	raw, err := readFileByPath(path)
	if err != nil {
		return consensus.Params{}, fmt.Errorf("read params file: %w", err)
	}

	var pf paramsFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return consensus.Params{}, fmt.Errorf("decode params file: %w", err)
	}

	limit, err := hex.DecodeString(pf.PowLimit)
	if err != nil {
		return consensus.Params{}, fmt.Errorf("decode pow_limit: %w", err)
	}
	if len(limit) != consensus.HashSize {
		return consensus.Params{}, fmt.Errorf("pow_limit must be %d bytes, got %d", consensus.HashSize, len(limit))
	}

	var params consensus.Params
	params.BlockVersion = pf.BlockVersion
	params.AddressVersion = pf.AddressVersion
	params.MaxBlockSize = pf.MaxBlockSize
	params.MaxFutureBlockTime = pf.MaxFutureBlockTime
	copy(params.PowLimit[:], limit)
	params.GenesisTimestamp = pf.GenesisTimestamp
	params.GenesisBits = pf.GenesisBits
	params.GenesisNonce = pf.GenesisNonce
	return params, nil
}
