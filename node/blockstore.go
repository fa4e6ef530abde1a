package node

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"forgechain.dev/node/consensus"
)

var (
	bucketBlocks = []byte("blocks_by_hash")
	bucketUtxo   = []byte("utxo_by_outpoint")
	bucketMeta   = []byte("meta")
)

var metaTipKey = []byte("tip_hash")

// BlockStore is the embedded, bbolt-backed home for validated blocks
// and the UTXO set they produce. It implements consensus.UTXOView
// directly, so a BlockStore can be handed straight to consensus.ValidBlock.
type BlockStore struct {
	db *bolt.DB
}

// OpenBlockStore opens (creating if absent) the bbolt database at
// dataDir/chain.db and ensures its buckets exist.
func OpenBlockStore(dataDir string) (*BlockStore, error) {
	path := filepath.Join(dataDir, "chain.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open blockstore: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketBlocks, bucketUtxo, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BlockStore{db: db}, nil
}

func (bs *BlockStore) Close() error {
	if bs == nil || bs.db == nil {
		return nil
	}
	return bs.db.Close()
}

// PutBlock stores b's serialized wire form, keyed by its hash.
func (bs *BlockStore) PutBlock(b *consensus.Block) error {
	raw, err := consensus.SerializeBlock(b)
	if err != nil {
		return err
	}
	return bs.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlocks).Put(b.Hash[:], raw)
	})
}

// GetBlock retrieves a previously stored block by hash.
func (bs *BlockStore) GetBlock(hash [consensus.HashSize]byte) (*consensus.Block, bool, error) {
	var raw []byte
	err := bs.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlocks).Get(hash[:])
		if v == nil {
			return nil
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil || raw == nil {
		return nil, false, err
	}
	blk, err := consensus.ParseBlock(raw)
	if err != nil {
		return nil, false, err
	}
	return blk, true, nil
}

// Tip returns the height and hash of the most recently applied block,
// if any.
func (bs *BlockStore) Tip() (uint64, [consensus.HashSize]byte, bool, error) {
	var hash [consensus.HashSize]byte
	var height uint64
	var ok bool
	err := bs.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(metaTipKey)
		if v == nil {
			return nil
		}
		if len(v) != 8+consensus.HashSize {
			return errors.New("blockstore: corrupt tip record")
		}
		height = leU64(v[:8])
		copy(hash[:], v[8:])
		ok = true
		return nil
	})
	return height, hash, ok, err
}

// setTip records height/hash as the chain tip. Must run inside an
// existing bbolt write transaction.
func setTip(tx *bolt.Tx, height uint64, hash [consensus.HashSize]byte) error {
	val := consensus.AppendU64LE(nil, height)
	val = append(val, hash[:]...)
	return tx.Bucket(bucketMeta).Put(metaTipKey, val)
}

// ApplyBlock stores b at height, advances the recorded tip, and
// updates the UTXO set: every non-coinbase input's prevout is removed
// and every output of b's transactions is added. Callers are expected
// to have already run consensus.ValidBlock against this store (as a
// consensus.UTXOView) before calling ApplyBlock.
func (bs *BlockStore) ApplyBlock(height uint64, b *consensus.Block) error {
	raw, err := consensus.SerializeBlock(b)
	if err != nil {
		return err
	}
	return bs.db.Update(func(tx *bolt.Tx) error {
		blocks := tx.Bucket(bucketBlocks)
		utxo := tx.Bucket(bucketUtxo)

		if err := blocks.Put(b.Hash[:], raw); err != nil {
			return err
		}

		for _, t := range b.Transactions {
			if !t.IsCoinbase() {
				for _, in := range t.TxIns {
					if err := utxo.Delete(outpointKey(in.PrevTxid, in.PrevVout)); err != nil {
						return err
					}
				}
			}
			for vout, out := range t.TxOuts {
				val := consensus.AppendU64LE(nil, out.Amount)
				val = append(val, out.Address[:]...)
				if err := utxo.Put(outpointKey(t.ID, uint32(vout)), val); err != nil {
					return err
				}
			}
		}

		return setTip(tx, height, b.Hash)
	})
}

// Lookup implements consensus.UTXOView against the bbolt-backed UTXO
// set.
func (bs *BlockStore) Lookup(prevTxid [consensus.HashSize]byte, prevVout uint32) (consensus.TxOut, bool) {
	var out consensus.TxOut
	var ok bool
	_ = bs.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketUtxo).Get(outpointKey(prevTxid, prevVout))
		if v == nil {
			return nil
		}
		if len(v) != 8+consensus.AddressSize {
			return nil
		}
		out.Amount = leU64(v[:8])
		copy(out.Address[:], v[8:])
		ok = true
		return nil
	})
	return out, ok
}

func outpointKey(txid [consensus.HashSize]byte, vout uint32) []byte {
	key := make([]byte, consensus.HashSize+4)
	copy(key, txid[:])
	key[consensus.HashSize] = byte(vout)
	key[consensus.HashSize+1] = byte(vout >> 8)
	key[consensus.HashSize+2] = byte(vout >> 16)
	key[consensus.HashSize+3] = byte(vout >> 24)
	return key
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
