package consensus

import "fmt"

// ErrorCode classifies every rejection this package can produce, per
// the four error kinds the block validator distinguishes: decode,
// structural, signature, and missing-prevout.
type ErrorCode string

const (
	// ErrDecode covers truncated input, an oversize length prefix, a
	// fixed-width field of the wrong length, or a transaction count
	// larger than the remaining input could hold. Raised by the Codec;
	// no block or transaction is produced. ParseBlock does not compare
	// the transaction count against MaxBlockSize; ValidBlock's size
	// check applies that bound.
	ErrDecode ErrorCode = "DECODE_ERROR"

	// ErrTimestamp: block.timestamp exceeds now + MaxFutureBlockTime.
	ErrTimestamp ErrorCode = "TIMESTAMP_INVALID"
	// ErrMissingCoinbase: transactions[0] is not a coinbase, a coinbase
	// appears after position 0, or a block has zero transactions.
	ErrMissingCoinbase ErrorCode = "MISSING_COINBASE"
	// ErrDuplicateTxid: two transactions in a block share a txid.
	ErrDuplicateTxid ErrorCode = "DUPLICATE_TXID"
	// ErrDuplicateSpend: two inputs in a block reference the same
	// (prev_txid, prev_vout).
	ErrDuplicateSpend ErrorCode = "DUPLICATE_SPEND"
	// ErrBlockSize: serialized header-plus-transactions size exceeds
	// MaxBlockSize.
	ErrBlockSize ErrorCode = "BLOCK_SIZE_EXCEEDED"
	// ErrHashMismatch: block.hash does not equal SHA256d of the header
	// bytes.
	ErrHashMismatch ErrorCode = "HASH_MISMATCH"
	// ErrPowInvalid: block.hash does not satisfy the PoW target decoded
	// from block.bits.
	ErrPowInvalid ErrorCode = "POW_INVALID"
	// ErrMerkleMismatch: the recomputed Merkle root does not equal
	// block.merkle_root.
	ErrMerkleMismatch ErrorCode = "MERKLE_MISMATCH"
	// ErrTxStructure covers the structural valid_transaction failures:
	// empty txin/txout lists, txid mismatch, or a zero or overflowing
	// amount (and SignTxin's argument errors). A transaction spending
	// the same prevout twice reports ErrDuplicateSpend, and a bad
	// signature reports ErrSignatureInvalid.
	ErrTxStructure ErrorCode = "TX_STRUCTURE_INVALID"

	// ErrSignatureInvalid: a non-coinbase input's signature failed to
	// verify under its stated public key.
	ErrSignatureInvalid ErrorCode = "SIGNATURE_INVALID"

	// ErrMissingPrevout: the UTXO view returned absent for a referenced
	// input, or the output it returned is not addressed to the input's
	// public key. An absent prevout may be transient while syncing,
	// which makes this the only error kind a caller may retry.
	ErrMissingPrevout ErrorCode = "MISSING_PREVOUT"
)

// ValidationError pairs a failure's error code with a human-readable
// reason, so callers get a specific rejection tag instead of a bare
// boolean at debug level.
type ValidationError struct {
	Code   ErrorCode
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reason == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func newErr(code ErrorCode, reason string) error {
	return &ValidationError{Code: code, Reason: reason}
}

// CodeOf extracts the ErrorCode from err if it is a *ValidationError,
// and the empty string otherwise.
func CodeOf(err error) ErrorCode {
	ve, ok := err.(*ValidationError)
	if !ok || ve == nil {
		return ""
	}
	return ve.Code
}
