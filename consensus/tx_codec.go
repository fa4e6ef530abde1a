package consensus

// MarshalTransaction serializes tx into its canonical wire/storage
// form: id (length-prefixed 32B), txin_count (u8), txout_count (u8),
// then each TxIn followed by each TxOut, in order.
func MarshalTransaction(tx *Transaction) ([]byte, error) {
	if len(tx.TxIns) > 255 {
		return nil, newErr(ErrTxStructure, "txin_count exceeds 255")
	}
	if len(tx.TxOuts) > 255 {
		return nil, newErr(ErrTxStructure, "txout_count exceeds 255")
	}

	out := make([]byte, 0, 4+32+2+len(tx.TxIns)*140+len(tx.TxOuts)*60)
	out = AppendLengthPrefixed(out, tx.ID[:])
	out = append(out, byte(len(tx.TxIns)))
	out = append(out, byte(len(tx.TxOuts)))

	for _, in := range tx.TxIns {
		out = AppendLengthPrefixed(out, in.PrevTxid[:])
		out = AppendU32LE(out, in.PrevVout)
		out = AppendLengthPrefixed(out, in.Signature[:])
		out = AppendLengthPrefixed(out, in.PublicKey[:])
	}
	for _, o := range tx.TxOuts {
		out = AppendU64LE(out, o.Amount)
		out = AppendLengthPrefixed(out, o.Address[:])
	}
	return out, nil
}

// ParseTransaction reads one Transaction from cur, advancing cur past
// it. Decoding fails on short
// input, an oversize length prefix, or a txin/txout count whose
// declared length prefixes do not match the fixed field widths.
func ParseTransaction(cur *cursor) (*Transaction, error) {
	idBytes, err := cur.readFixed(HashSize)
	if err != nil {
		return nil, err
	}
	txinCount, err := cur.readU8()
	if err != nil {
		return nil, err
	}
	txoutCount, err := cur.readU8()
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		TxIns:  make([]TxIn, txinCount),
		TxOuts: make([]TxOut, txoutCount),
	}
	copy(tx.ID[:], idBytes)

	for i := range tx.TxIns {
		prevTxid, err := cur.readFixed(HashSize)
		if err != nil {
			return nil, err
		}
		prevVout, err := cur.readU32LE()
		if err != nil {
			return nil, err
		}
		sig, err := cur.readFixed(SignatureSize)
		if err != nil {
			return nil, err
		}
		pub, err := cur.readFixed(PublicKeySize)
		if err != nil {
			return nil, err
		}
		copy(tx.TxIns[i].PrevTxid[:], prevTxid)
		tx.TxIns[i].PrevVout = prevVout
		copy(tx.TxIns[i].Signature[:], sig)
		copy(tx.TxIns[i].PublicKey[:], pub)
	}

	for i := range tx.TxOuts {
		amount, err := cur.readU64LE()
		if err != nil {
			return nil, err
		}
		addr, err := cur.readFixed(AddressSize)
		if err != nil {
			return nil, err
		}
		tx.TxOuts[i].Amount = amount
		copy(tx.TxOuts[i].Address[:], addr)
	}

	return tx, nil
}

// SerializedSize returns the number of bytes MarshalTransaction would
// produce for tx, without allocating the output buffer — used by
// ValidBlock's size check and SerializedBlockSize to sum
// per-transaction sizes cheaply.
func SerializedSize(tx *Transaction) int {
	return 4 + HashSize + 2 +
		len(tx.TxIns)*(4+HashSize+4+SignatureSize+4+PublicKeySize) +
		len(tx.TxOuts)*(8+4+AddressSize)
}
