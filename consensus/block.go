package consensus

import "time"

// BlockHeader is the fixed-width part of a block that feeds both the
// proof-of-work hash and the block's identity. Its hash-preimage order
// (SerializeBlockHeader) is: version, timestamp, nonce, bits,
// cumulative_emission, previous_hash, merkle_root; SerializeBlock's
// wire form uses a different order. previous_hash and merkle_root are
// written raw in the header preimage, with no length prefix —
// BlockHeaderSize (88 bytes) depends on that.
type BlockHeader struct {
	Version            uint32
	Timestamp          uint32
	Nonce              uint32
	Bits               uint32
	CumulativeEmission uint64
	PreviousHash       [HashSize]byte
	MerkleRoot         [HashSize]byte
}

// Block is a header plus its ordered transactions. A Block moves
// through three states as it is built: constructed (fields populated,
// Hash possibly stale), hashed (Hash holds ComputeBlockHash's result),
// and validated (ValidBlock has returned nil). Nothing in this type
// enforces that ordering — callers serialize, hash and validate in the
// sequence their entry point requires.
type Block struct {
	Header       BlockHeader
	Hash         [HashSize]byte
	Transactions []*Transaction
}

// SerializeBlockHeader writes h's hash preimage: exactly
// BlockHeaderSize bytes, with previous_hash and merkle_root unprefixed.
func SerializeBlockHeader(h BlockHeader) []byte {
	out := make([]byte, 0, BlockHeaderSize)
	out = AppendU32LE(out, h.Version)
	out = AppendU32LE(out, h.Timestamp)
	out = AppendU32LE(out, h.Nonce)
	out = AppendU32LE(out, h.Bits)
	out = AppendU64LE(out, h.CumulativeEmission)
	out = append(out, h.PreviousHash[:]...)
	out = append(out, h.MerkleRoot[:]...)
	return out
}

// ParseBlockHeader reads exactly BlockHeaderSize bytes from b as a raw
// (unprefixed) BlockHeader.
func ParseBlockHeader(b []byte) (BlockHeader, error) {
	if len(b) != BlockHeaderSize {
		return BlockHeader{}, newErr(ErrDecode, "block header has wrong size")
	}
	cur := newCursor(b)
	var h BlockHeader
	var err error
	if h.Version, err = cur.readU32LE(); err != nil {
		return BlockHeader{}, err
	}
	if h.Timestamp, err = cur.readU32LE(); err != nil {
		return BlockHeader{}, err
	}
	if h.Nonce, err = cur.readU32LE(); err != nil {
		return BlockHeader{}, err
	}
	if h.Bits, err = cur.readU32LE(); err != nil {
		return BlockHeader{}, err
	}
	if h.CumulativeEmission, err = cur.readU64LE(); err != nil {
		return BlockHeader{}, err
	}
	prev, err := cur.readExact(HashSize)
	if err != nil {
		return BlockHeader{}, err
	}
	copy(h.PreviousHash[:], prev)
	merkle, err := cur.readExact(HashSize)
	if err != nil {
		return BlockHeader{}, err
	}
	copy(h.MerkleRoot[:], merkle)
	return h, nil
}

// ComputeBlockHash returns SHA256d of the header's serialized preimage.
func ComputeBlockHash(h BlockHeader) [HashSize]byte {
	return SHA256d(SerializeBlockHeader(h))
}

// SerializeBlock writes b's storage/wire form: version, previous_hash
// (length-prefixed), hash (length-prefixed), timestamp, nonce, bits,
// cumulative_emission, merkle_root (length-prefixed), transaction
// count (u32 LE), then each transaction via MarshalTransaction.
func SerializeBlock(b *Block) ([]byte, error) {
	out := make([]byte, 0, BlockHeaderSize+64)
	out = AppendU32LE(out, b.Header.Version)
	out = AppendLengthPrefixed(out, b.Header.PreviousHash[:])
	out = AppendLengthPrefixed(out, b.Hash[:])
	out = AppendU32LE(out, b.Header.Timestamp)
	out = AppendU32LE(out, b.Header.Nonce)
	out = AppendU32LE(out, b.Header.Bits)
	out = AppendU64LE(out, b.Header.CumulativeEmission)
	out = AppendLengthPrefixed(out, b.Header.MerkleRoot[:])
	out = AppendU32LE(out, uint32(len(b.Transactions)))

	for _, tx := range b.Transactions {
		txBytes, err := MarshalTransaction(tx)
		if err != nil {
			return nil, err
		}
		out = append(out, txBytes...)
	}
	return out, nil
}

// ParseBlock reads a Block from its SerializeBlock form.
func ParseBlock(b []byte) (*Block, error) {
	cur := newCursor(b)
	blk := &Block{}

	version, err := cur.readU32LE()
	if err != nil {
		return nil, err
	}
	blk.Header.Version = version

	prevHash, err := cur.readFixed(HashSize)
	if err != nil {
		return nil, err
	}
	copy(blk.Header.PreviousHash[:], prevHash)

	hash, err := cur.readFixed(HashSize)
	if err != nil {
		return nil, err
	}
	copy(blk.Hash[:], hash)

	if blk.Header.Timestamp, err = cur.readU32LE(); err != nil {
		return nil, err
	}
	if blk.Header.Nonce, err = cur.readU32LE(); err != nil {
		return nil, err
	}
	if blk.Header.Bits, err = cur.readU32LE(); err != nil {
		return nil, err
	}
	if blk.Header.CumulativeEmission, err = cur.readU64LE(); err != nil {
		return nil, err
	}

	merkleRoot, err := cur.readFixed(HashSize)
	if err != nil {
		return nil, err
	}
	copy(blk.Header.MerkleRoot[:], merkleRoot)

	txCount, err := cur.readU32LE()
	if err != nil {
		return nil, err
	}
	// minTransactionSize is MarshalTransaction's output for a
	// transaction with zero inputs and outputs: a length-prefixed id
	// plus the two count bytes. No declared transaction can be smaller,
	// so a txCount that can't possibly fit in what's left of the buffer
	// is rejected before the allocation below, rather than after it.
	const minTransactionSize = 4 + HashSize + 1 + 1
	if uint64(txCount) > uint64(cur.remaining())/minTransactionSize {
		return nil, newErr(ErrDecode, "transaction count exceeds remaining buffer")
	}

	blk.Transactions = make([]*Transaction, txCount)
	for i := range blk.Transactions {
		tx, err := ParseTransaction(cur)
		if err != nil {
			return nil, err
		}
		blk.Transactions[i] = tx
	}
	return blk, nil
}

// SerializedBlockSize returns the byte size SerializeBlock would
// produce for b, without allocating the output buffer.
func SerializedBlockSize(b *Block) int {
	size := 4 + 4 + HashSize + 4 + HashSize + 4 + 4 + 4 + 8 + 4 + HashSize + 4
	for _, tx := range b.Transactions {
		size += SerializedSize(tx)
	}
	return size
}

// ValidBlock applies the ordered consensus checklist a block must
// satisfy on its own, given the current wall-clock time and an
// external view of which prevouts are known and unspent. It does not
// check transaction signatures — see ValidateBlockSignatures — and it
// does not check PreviousHash against a chain tip; linkage to a
// specific chain is the caller's concern, not this predicate's.
//
//  1. the block is non-empty and under MaxBlockSize
//  2. the first transaction, and only the first, is a coinbase
//  3. timestamp is not more than MaxFutureBlockTime ahead of now
//  4. every transaction satisfies validTransactionStructure
//  5. no two transactions in the block share an id
//  6. non-coinbase inputs reference unspent prevouts, with no prevout
//     spent twice across the whole block
//  7. the Merkle root of the block's txids matches the header
//  8. Hash matches ComputeBlockHash(Header)
//  9. Hash satisfies the proof-of-work target decoded from Bits
func ValidBlock(b *Block, params Params, utxo UTXOView, now time.Time) error {
	if len(b.Transactions) == 0 {
		return newErr(ErrMissingCoinbase, "block has no transactions")
	}
	size := BlockHeaderSize
	for _, tx := range b.Transactions {
		size += SerializedSize(tx)
	}
	if uint32(size) > params.MaxBlockSize {
		return newErr(ErrBlockSize, "block exceeds max block size")
	}

	if !b.Transactions[0].IsCoinbase() {
		return newErr(ErrMissingCoinbase, "first transaction is not a coinbase")
	}
	for _, tx := range b.Transactions[1:] {
		if tx.IsCoinbase() {
			return newErr(ErrMissingCoinbase, "coinbase transaction outside first position")
		}
	}

	maxTimestamp := uint32(now.Unix()) + params.MaxFutureBlockTime
	if b.Header.Timestamp > maxTimestamp {
		return newErr(ErrTimestamp, "block timestamp too far in the future")
	}

	seenTxids := make(map[[HashSize]byte]struct{}, len(b.Transactions))
	spent := make(map[outpointKey]struct{})
	txids := make([][HashSize]byte, len(b.Transactions))

	for i, tx := range b.Transactions {
		if err := validTransactionStructure(tx); err != nil {
			return err
		}
		if _, dup := seenTxids[tx.ID]; dup {
			return newErr(ErrDuplicateTxid, "duplicate transaction id in block")
		}
		seenTxids[tx.ID] = struct{}{}
		txids[i] = tx.ID

		if tx.IsCoinbase() {
			continue
		}
		for _, in := range tx.TxIns {
			key := outpointKey{txid: in.PrevTxid, vout: in.PrevVout}
			if _, dup := spent[key]; dup {
				return newErr(ErrDuplicateSpend, "prevout spent twice in block")
			}
			spent[key] = struct{}{}
			if _, ok := DoTxinsReferenceUnspentTxouts(in, utxo, params.AddressVersion); !ok {
				return newErr(ErrMissingPrevout, "input references missing, spent, or unowned prevout")
			}
		}
	}

	root, err := MerkleRoot(txids)
	if err != nil {
		return err
	}
	if root != b.Header.MerkleRoot {
		return newErr(ErrMerkleMismatch, "merkle root does not match header")
	}

	if ComputeBlockHash(b.Header) != b.Hash {
		return newErr(ErrHashMismatch, "block hash does not match header preimage")
	}

	if !CheckProofOfWork(b.Hash, b.Header.Bits, params.PowLimit) {
		return newErr(ErrPowInvalid, "block hash does not satisfy proof of work target")
	}

	return nil
}

// ValidateBlockSignatures verifies every transaction's signatures,
// independent of ValidBlock. A caller doing header-only sync, or
// checking a block it has already validated structurally, can run
// this separately — or skip it entirely.
func ValidateBlockSignatures(b *Block) error {
	for _, tx := range b.Transactions {
		if err := validTransactionSignatures(tx); err != nil {
			return err
		}
	}
	return nil
}
