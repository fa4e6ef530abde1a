package node

import (
	"testing"

	"forgechain.dev/node/consensus"
)

func mustOpenBlockStore(t *testing.T) *BlockStore {
	t.Helper()
	bs, err := OpenBlockStore(t.TempDir())
	if err != nil {
		t.Fatalf("open blockstore: %v", err)
	}
	t.Cleanup(func() { _ = bs.Close() })
	return bs
}

func TestBlockStoreEmptyHasNoTip(t *testing.T) {
	bs := mustOpenBlockStore(t)
	_, _, ok, err := bs.Tip()
	if err != nil {
		t.Fatalf("tip: %v", err)
	}
	if ok {
		t.Fatalf("expected no tip in an empty store")
	}
}

func TestBlockStoreApplyAndRetrieve(t *testing.T) {
	bs := mustOpenBlockStore(t)
	params := consensus.DefaultMainnetParams()
	genesis := consensus.Genesis(params)

	if err := bs.ApplyBlock(0, &genesis); err != nil {
		t.Fatalf("apply genesis: %v", err)
	}

	height, hash, ok, err := bs.Tip()
	if err != nil {
		t.Fatalf("tip: %v", err)
	}
	if !ok || height != 0 || hash != genesis.Hash {
		t.Fatalf("unexpected tip: height=%d hash=%x ok=%v", height, hash, ok)
	}

	got, ok, err := bs.GetBlock(genesis.Hash)
	if err != nil {
		t.Fatalf("get block: %v", err)
	}
	if !ok {
		t.Fatalf("expected genesis block to be retrievable")
	}
	if got.Hash != genesis.Hash {
		t.Fatalf("roundtripped block hash mismatch")
	}

	coinbaseOut, ok := bs.Lookup(genesis.Transactions[0].ID, 0)
	if !ok {
		t.Fatalf("expected genesis coinbase output in utxo set")
	}
	if coinbaseOut.Amount != genesis.Transactions[0].TxOuts[0].Amount {
		t.Fatalf("utxo amount mismatch: got %d", coinbaseOut.Amount)
	}
}

func TestBlockStoreApplyBlockSpendsPrevout(t *testing.T) {
	bs := mustOpenBlockStore(t)
	params := consensus.DefaultMainnetParams()
	genesis := consensus.Genesis(params)
	if err := bs.ApplyBlock(0, &genesis); err != nil {
		t.Fatalf("apply genesis: %v", err)
	}

	pubkey, seckey := newTestKeypair(t)
	spend := &consensus.Transaction{
		TxIns: []consensus.TxIn{{
			PrevTxid: genesis.Transactions[0].ID,
			PrevVout: 0,
		}},
		TxOuts: []consensus.TxOut{{
			Amount:  1,
			Address: consensus.AddressFromPubkey(pubkey, params.AddressVersion),
		}},
	}
	spend.ID = consensus.ComputeTxid(spend)
	if err := consensus.SignTxin(spend, 0, pubkey, seckey); err != nil {
		t.Fatalf("sign: %v", err)
	}

	coinbase := &consensus.Transaction{
		TxIns: []consensus.TxIn{{PrevTxid: consensus.ZeroHash, PrevVout: consensus.TxCoinbaseVout}},
		TxOuts: []consensus.TxOut{{
			Amount:  50_00000000,
			Address: consensus.AddressFromPubkey(pubkey, params.AddressVersion),
		}},
	}
	coinbase.ID = consensus.ComputeTxid(coinbase)

	block := buildTestBlock(t, params, genesis.Hash, []*consensus.Transaction{coinbase, spend})
	if err := bs.ApplyBlock(1, block); err != nil {
		t.Fatalf("apply block: %v", err)
	}

	if _, ok := bs.Lookup(genesis.Transactions[0].ID, 0); ok {
		t.Fatalf("expected spent prevout to be removed from utxo set")
	}
	if _, ok := bs.Lookup(spend.ID, 0); !ok {
		t.Fatalf("expected spend's own output to be present in utxo set")
	}
}
