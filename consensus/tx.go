package consensus

import "golang.org/x/crypto/ed25519"

// TxIn is one input of a transaction: the header part that identifies
// the output being spent, and the witness part that authorizes the
// spend.
type TxIn struct {
	PrevTxid  [32]byte
	PrevVout  uint32
	Signature [SignatureSize]byte
	PublicKey [PublicKeySize]byte
}

// IsCoinbaseInput reports whether in is the coinbase sentinel: a zero
// prev_txid paired with prev_vout == 0xFFFFFFFF.
func (in TxIn) IsCoinbaseInput() bool {
	return in.PrevTxid == ZeroHash && in.PrevVout == TxCoinbaseVout
}

// TxOut is one output of a transaction: an amount, in the smallest
// indivisible unit, paid to an address.
type TxOut struct {
	Amount  uint64
	Address [AddressSize]byte
}

// Transaction is the full transaction entity: its derived id, and its
// ordered inputs and outputs. The lengths of TxIns and TxOuts are each
// bounded to 255 by the wire format (an 8-bit count field);
// MarshalTransaction rejects more.
type Transaction struct {
	ID     [32]byte
	TxIns  []TxIn
	TxOuts []TxOut
}

// IsCoinbase reports whether tx is a coinbase (generation) transaction:
// exactly one input, and that input is the coinbase sentinel.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.TxIns) == 1 && tx.TxIns[0].IsCoinbaseInput()
}

// txinHeaderBytes writes one TxIn's sign-preimage header: prev_txid (32B)
// followed by prev_vout (u32 LE). 36 bytes total.
func txinHeaderBytes(dst []byte, in TxIn) []byte {
	dst = append(dst, in.PrevTxid[:]...)
	dst = AppendU32LE(dst, in.PrevVout)
	return dst
}

// txoutHeaderBytes writes one TxOut's header: amount (u64 LE) followed
// by the address, unprefixed.
func txoutHeaderBytes(dst []byte, out TxOut) []byte {
	dst = AppendU64LE(dst, out.Amount)
	dst = append(dst, out.Address[:]...)
	return dst
}

// SignPreimage builds the transaction's sign preimage: every TxIn
// header, in order, followed by every TxOut header, in order.
// Signatures and public keys never enter this preimage, which is what
// lets every input of a transaction share one preimage to sign, and
// lets compute_txid remain stable across re-signing.
func SignPreimage(tx *Transaction) []byte {
	out := make([]byte, 0, len(tx.TxIns)*36+len(tx.TxOuts)*(8+AddressSize))
	for _, in := range tx.TxIns {
		out = txinHeaderBytes(out, in)
	}
	for _, o := range tx.TxOuts {
		out = txoutHeaderBytes(out, o)
	}
	return out
}

// ComputeTxid returns SHA256d of tx's sign preimage — the
// transaction's identity, independent of any input's signature or
// public key.
func ComputeTxid(tx *Transaction) [32]byte {
	return SHA256d(SignPreimage(tx))
}

// SignTxin signs inputIndex's preimage with seckey and stamps pubkey
// into the selected input. All inputs of a transaction share the same
// preimage (SignPreimage), so signing one input does not depend on
// any other input already being signed.
func SignTxin(tx *Transaction, inputIndex int, pubkey ed25519.PublicKey, seckey ed25519.PrivateKey) error {
	if inputIndex < 0 || inputIndex >= len(tx.TxIns) {
		return newErr(ErrTxStructure, "sign_txin: input_index out of range")
	}
	if len(pubkey) != PublicKeySize {
		return newErr(ErrTxStructure, "sign_txin: public key has wrong size")
	}
	sig := ed25519.Sign(seckey, SignPreimage(tx))
	copy(tx.TxIns[inputIndex].Signature[:], sig)
	copy(tx.TxIns[inputIndex].PublicKey[:], pubkey)
	return nil
}

// validTransactionStructure applies every rule ValidTransaction does
// except signature verification: (1) non-empty txin/txout lists, (2)
// stored id matches ComputeTxid, (3) every output amount is > 0, (4)
// the amount sum does not overflow u64, and (6) for a non-coinbase tx,
// no two inputs share (prev_txid, prev_vout).
//
// This is what the block validator's per-transaction check (spec.md
// §4.6, item 4) actually runs — signature checking is pulled out into
// ValidateBlockSignatures so that valid_block and
// validate_block_signatures can disagree, as spec.md §8's "tampered
// signature" scenario requires: flipping a signature bit must fail
// validate_block_signatures while valid_block still passes.
func validTransactionStructure(tx *Transaction) error {
	if len(tx.TxIns) == 0 || len(tx.TxOuts) == 0 {
		return newErr(ErrTxStructure, "transaction must have at least one input and one output")
	}
	if ComputeTxid(tx) != tx.ID {
		return newErr(ErrTxStructure, "txid does not match computed preimage hash")
	}

	var sum uint64
	for _, out := range tx.TxOuts {
		if out.Amount == 0 {
			return newErr(ErrTxStructure, "output amount must be positive")
		}
		var err error
		sum, err = addU64(sum, out.Amount)
		if err != nil {
			return err
		}
	}

	if tx.IsCoinbase() {
		return nil
	}

	seen := make(map[outpointKey]struct{}, len(tx.TxIns))
	for _, in := range tx.TxIns {
		key := outpointKey{txid: in.PrevTxid, vout: in.PrevVout}
		if _, dup := seen[key]; dup {
			return newErr(ErrDuplicateSpend, "transaction spends the same prevout twice")
		}
		seen[key] = struct{}{}
	}
	return nil
}

// validTransactionSignatures verifies, for a non-coinbase transaction,
// that every input's signature verifies under its stated public key
// over the transaction's sign preimage. Coinbase inputs are skipped —
// their witness bytes are serialized but never inspected.
func validTransactionSignatures(tx *Transaction) error {
	if tx.IsCoinbase() {
		return nil
	}
	preimage := SignPreimage(tx)
	for _, in := range tx.TxIns {
		if !ed25519.Verify(in.PublicKey[:], preimage, in.Signature[:]) {
			return newErr(ErrSignatureInvalid, "txin signature does not verify")
		}
	}
	return nil
}

// ValidTransaction is the full predicate spec.md §4.3 describes: every
// structural rule plus, for a non-coinbase tx, signature verification
// on every input. Use this to validate a standalone transaction (e.g.
// on mempool admission); the block validator uses the structural and
// signature checks separately — see valid_block's item 4 and
// ValidateBlockSignatures.
func ValidTransaction(tx *Transaction) error {
	if err := validTransactionStructure(tx); err != nil {
		return err
	}
	return validTransactionSignatures(tx)
}

type outpointKey struct {
	txid [32]byte
	vout uint32
}
