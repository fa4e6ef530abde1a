package consensus

type memUTXOView map[outpointKey]TxOut

func (m memUTXOView) Lookup(prevTxid [HashSize]byte, prevVout uint32) (TxOut, bool) {
	out, ok := m[outpointKey{txid: prevTxid, vout: prevVout}]
	return out, ok
}

func newMemUTXOView() memUTXOView {
	return make(memUTXOView)
}

func (m memUTXOView) add(txid [HashSize]byte, vout uint32, out TxOut) {
	m[outpointKey{txid: txid, vout: vout}] = out
}
