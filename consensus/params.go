package consensus

// Consensus parameters that must be identical across every node on a
// given network. Passed explicitly to every entry point that needs
// them instead of read from a process-wide global — see DESIGN.md's
// note on the teacher's genesis singleton.
type Params struct {
	// BlockVersion is stamped into newly constructed block headers.
	BlockVersion uint32

	// AddressVersion is the single version/network tag byte prepended
	// to every derived address.
	AddressVersion byte

	// MaxBlockSize bounds BLOCK_HEADER_SIZE plus the serialized size of
	// every transaction in a block.
	MaxBlockSize uint32

	// MaxFutureBlockTime is the maximum number of seconds a block's
	// timestamp may sit ahead of wall-clock time.
	MaxFutureBlockTime uint32

	// PowLimit is the loosest (easiest) target any bits field may
	// decode to on this network.
	PowLimit [32]byte

	// Genesis fields. GenesisTimestamp, GenesisNonce and GenesisBits
	// combine with the single genesis transaction to produce the
	// network's first block via Genesis(params).
	GenesisTimestamp uint32
	GenesisBits      uint32
	GenesisNonce     uint32
}

const (
	// HashSize is the width, in bytes, of every consensus hash: txids,
	// block hashes, and Merkle node hashes.
	HashSize = 32

	// AddressHashPrefixSize is the number of SHA-256d bytes retained in
	// an address after the version byte.
	AddressHashPrefixSize = 20

	// AddressSize is the total length of an Address: one version byte
	// plus the hash prefix.
	AddressSize = 1 + AddressHashPrefixSize

	// BlockHeaderSize is the fixed length of the hash preimage produced
	// by SerializeBlockHeader.
	BlockHeaderSize = 4 + 4 + 4 + 4 + 8 + HashSize + HashSize

	// SignatureSize and PublicKeySize are the fixed Ed25519 widths
	// carried, verbatim, by every TxIn's witness part.
	SignatureSize = 64
	PublicKeySize = 32

	// TxCoinbaseVout is the sentinel prev_vout value that, paired with
	// a zero prev_txid, marks a TxIn as a coinbase input.
	TxCoinbaseVout = 0xFFFFFFFF
)

// ZeroHash is the sentinel "no previous transaction" hash used by
// coinbase inputs.
var ZeroHash [HashSize]byte

// DefaultMainnetParams returns the consensus parameters for the
// network's production chain. Values here are illustrative of the
// shape a real network config would take; a node can instead load its
// parameters from a network-parameters file (node.LoadParamsFile),
// which is read as plain JSON with no signature check.
func DefaultMainnetParams() Params {
	limit := [32]byte{}
	for i := range limit {
		limit[i] = 0xFF
	}
	return Params{
		BlockVersion:       1,
		AddressVersion:     0x00,
		MaxBlockSize:       4_000_000,
		MaxFutureBlockTime: 2 * 60 * 60,
		PowLimit:           limit,
		GenesisTimestamp:   1_600_000_000,
		GenesisBits:        0x207fffff,
		GenesisNonce:       1, // first nonce whose genesis hash meets GenesisBits
	}
}
