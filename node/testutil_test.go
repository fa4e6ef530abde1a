package node

import (
	"testing"
	"time"

	"forgechain.dev/node/consensus"
	"golang.org/x/crypto/ed25519"
)

func newTestKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	return pub, priv
}

// easyParams returns consensus parameters with the loosest possible
// proof-of-work limit (every byte 0xFF) and GenesisBits 0x207FFFFF,
// whose decoded target about half of all hashes meet, so a nonce
// search ends within a few tries.
func easyParams() consensus.Params {
	p := consensus.DefaultMainnetParams()
	for i := range p.PowLimit {
		p.PowLimit[i] = 0xFF
	}
	p.GenesisBits = 0x207FFFFF
	return p
}

// buildTestBlock assembles a block extending prevHash with txs under
// bits 0x207FFFFF, searching nonces from 0 until the hash meets that
// target under params' proof-of-work limit.
func buildTestBlock(t *testing.T, params consensus.Params, prevHash [consensus.HashSize]byte, txs []*consensus.Transaction) *consensus.Block {
	t.Helper()
	txids := make([][consensus.HashSize]byte, len(txs))
	for i, tx := range txs {
		txids[i] = tx.ID
	}
	root, err := consensus.MerkleRoot(txids)
	if err != nil {
		t.Fatalf("merkle root: %v", err)
	}

	var cumulative uint64
	for _, out := range txs[0].TxOuts {
		cumulative += out.Amount
	}

	header := consensus.BlockHeader{
		Version:            params.BlockVersion,
		Timestamp:          uint32(time.Now().Unix()),
		Nonce:              0,
		Bits:               0x207FFFFF,
		CumulativeEmission: cumulative,
		PreviousHash:       prevHash,
		MerkleRoot:         root,
	}
	hash := consensus.ComputeBlockHash(header)
	for !consensus.CheckProofOfWork(hash, header.Bits, params.PowLimit) {
		header.Nonce++
		hash = consensus.ComputeBlockHash(header)
	}
	return &consensus.Block{
		Header:       header,
		Hash:         hash,
		Transactions: txs,
	}
}
