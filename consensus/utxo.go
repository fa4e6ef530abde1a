package consensus

// UTXOView is the external, caller-supplied view of which outputs are
// known to exist and have not yet been spent. The consensus package
// never stores or mutates this view itself; node.BlockStore is the
// bbolt-backed implementation a running node actually consults.
type UTXOView interface {
	// Lookup returns the output identified by (prevTxid, prevVout) and
	// whether it is currently unspent. A txout that was never created,
	// or that has already been spent, both report ok == false.
	Lookup(prevTxid [HashSize]byte, prevVout uint32) (TxOut, bool)
}

// DoTxinsReferenceUnspentTxouts reports whether in's prevout is known
// to utxo, currently unspent, and addressed to in's public key under
// addressVersion, returning the referenced output when all three hold.
// The address check is what makes the signature meaningful: without
// it, a valid self-consistent signature over any keypair would be
// enough to spend an output it does not own.
func DoTxinsReferenceUnspentTxouts(in TxIn, utxo UTXOView, addressVersion byte) (TxOut, bool) {
	out, ok := utxo.Lookup(in.PrevTxid, in.PrevVout)
	if !ok {
		return TxOut{}, false
	}
	if AddressFromPubkey(in.PublicKey[:], addressVersion) != out.Address {
		return TxOut{}, false
	}
	return out, true
}
