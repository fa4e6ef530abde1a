package consensus

// merkleNode is one node of a transient Merkle tree. Leaf nodes carry
// a txid directly with no additional hashing; internal nodes carry
// SHA256d(left.hash || right.hash). The tree is built, consulted for
// its root, and discarded within a single call — it never escapes
// MerkleRoot, and Go's garbage collector retires the duplicated
// odd-leaf subtree exactly once regardless of how many parents
// reference it.
type merkleNode struct {
	hash        [32]byte
	left, right *merkleNode
}

// MerkleRoot builds a binary Merkle tree bottom-up over txids, in
// list order, and returns its root hash.
//
// When a level has an odd number of nodes, the last node is paired
// with itself — duplicated, not carried forward — to produce the next
// level; this rule is applied independently at every level. A
// single-txid input returns that txid unchanged, since the lone leaf
// is already the root.
//
// Callers must supply a non-empty txids slice; a zero-transaction
// block is rejected earlier by the block validator, before the Merkle
// engine is ever consulted.
func MerkleRoot(txids [][32]byte) ([32]byte, error) {
	if len(txids) == 0 {
		var zero [32]byte
		return zero, newErr(ErrMerkleMismatch, "merkle root of empty tx list is undefined")
	}

	level := make([]*merkleNode, len(txids))
	for i, id := range txids {
		level[i] = &merkleNode{hash: id}
	}

	for len(level) > 1 {
		next := make([]*merkleNode, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left // odd leaf: duplicate self rather than carry forward
			if i+1 < len(level) {
				right = level[i+1]
			}
			var preimage [64]byte
			copy(preimage[:32], left.hash[:])
			copy(preimage[32:], right.hash[:])
			next = append(next, &merkleNode{
				hash:  SHA256d(preimage[:]),
				left:  left,
				right: right,
			})
		}
		level = next
	}

	return level[0].hash, nil
}
