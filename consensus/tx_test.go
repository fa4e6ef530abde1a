package consensus

import (
	"testing"

	"golang.org/x/crypto/ed25519"
)

func newKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	return pub, priv
}

func signedSpend(t *testing.T, prevTxid [32]byte, prevVout uint32, amount uint64, pubkey ed25519.PublicKey, seckey ed25519.PrivateKey) *Transaction {
	t.Helper()
	tx := &Transaction{
		TxIns:  []TxIn{{PrevTxid: prevTxid, PrevVout: prevVout}},
		TxOuts: []TxOut{{Amount: amount, Address: AddressFromPubkey(pubkey, 0x00)}},
	}
	tx.ID = ComputeTxid(tx)
	if err := SignTxin(tx, 0, pubkey, seckey); err != nil {
		t.Fatalf("sign txin: %v", err)
	}
	return tx
}

func TestIsCoinbaseInput(t *testing.T) {
	in := TxIn{PrevTxid: ZeroHash, PrevVout: TxCoinbaseVout}
	if !in.IsCoinbaseInput() {
		t.Fatalf("expected coinbase sentinel to be recognized")
	}
	in.PrevVout = 0
	if in.IsCoinbaseInput() {
		t.Fatalf("expected a real prevout vout to not be a coinbase input")
	}
}

func TestValidTransactionAcceptsWellFormedSpend(t *testing.T) {
	pubkey, seckey := newKeypair(t)
	tx := signedSpend(t, txid(1), 0, 100, pubkey, seckey)
	if err := ValidTransaction(tx); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}
}

func TestValidTransactionRejectsZeroAmount(t *testing.T) {
	pubkey, seckey := newKeypair(t)
	tx := signedSpend(t, txid(1), 0, 0, pubkey, seckey)
	if err := ValidTransaction(tx); err == nil {
		t.Fatalf("expected error for a zero-amount output")
	}
}

func TestValidTransactionRejectsTamperedID(t *testing.T) {
	pubkey, seckey := newKeypair(t)
	tx := signedSpend(t, txid(1), 0, 100, pubkey, seckey)
	tx.ID[0] ^= 0xFF
	if err := ValidTransaction(tx); CodeOf(err) != ErrTxStructure {
		t.Fatalf("expected ErrTxStructure for a tampered id, got %v", err)
	}
}

func TestValidTransactionRejectsDuplicateSpendWithinTx(t *testing.T) {
	pubkey, seckey := newKeypair(t)
	tx := &Transaction{
		TxIns: []TxIn{
			{PrevTxid: txid(1), PrevVout: 0},
			{PrevTxid: txid(1), PrevVout: 0},
		},
		TxOuts: []TxOut{{Amount: 1, Address: AddressFromPubkey(pubkey, 0x00)}},
	}
	tx.ID = ComputeTxid(tx)
	for i := range tx.TxIns {
		if err := SignTxin(tx, i, pubkey, seckey); err != nil {
			t.Fatalf("sign: %v", err)
		}
	}
	if err := ValidTransaction(tx); CodeOf(err) != ErrDuplicateSpend {
		t.Fatalf("expected ErrDuplicateSpend, got %v", err)
	}
}

func TestValidTransactionStructureIgnoresSignature(t *testing.T) {
	pubkey, seckey := newKeypair(t)
	tx := signedSpend(t, txid(1), 0, 100, pubkey, seckey)
	tx.TxIns[0].Signature[0] ^= 0xFF

	if err := validTransactionStructure(tx); err != nil {
		t.Fatalf("expected structural check to ignore a tampered signature, got %v", err)
	}
	if err := validTransactionSignatures(tx); err == nil {
		t.Fatalf("expected signature check to reject a tampered signature")
	}
	if err := ValidTransaction(tx); err == nil {
		t.Fatalf("expected full validation to reject a tampered signature")
	}
}

func TestComputeTxidStableAcrossResign(t *testing.T) {
	pubkey, seckey := newKeypair(t)
	tx := signedSpend(t, txid(1), 0, 100, pubkey, seckey)
	before := tx.ID
	if err := SignTxin(tx, 0, pubkey, seckey); err != nil {
		t.Fatalf("resign: %v", err)
	}
	if ComputeTxid(tx) != before {
		t.Fatalf("expected txid to be stable across re-signing the same inputs")
	}
}

func TestIsCoinbase(t *testing.T) {
	coinbase := &Transaction{
		TxIns:  []TxIn{{PrevTxid: ZeroHash, PrevVout: TxCoinbaseVout}},
		TxOuts: []TxOut{{Amount: 1, Address: [AddressSize]byte{}}},
	}
	if !coinbase.IsCoinbase() {
		t.Fatalf("expected single coinbase input to be recognized")
	}

	pubkey, seckey := newKeypair(t)
	spend := signedSpend(t, txid(1), 0, 1, pubkey, seckey)
	if spend.IsCoinbase() {
		t.Fatalf("expected a normal spend to not be a coinbase")
	}
}
