package consensus

import "crypto/sha256"

// SHA256d is the consensus hash primitive: SHA-256 applied twice in
// sequence over the same input. Every txid, block hash, and Merkle
// node hash in this package goes through SHA256d.
func SHA256d(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// AddressFromPubkey derives the fixed-size Address for an Ed25519
// public key: a version byte followed by the first AddressHashPrefixSize
// bytes of SHA256d(pubkey).
func AddressFromPubkey(pubkey []byte, addressVersion byte) [AddressSize]byte {
	digest := SHA256d(pubkey)
	var addr [AddressSize]byte
	addr[0] = addressVersion
	copy(addr[1:], digest[:AddressHashPrefixSize])
	return addr
}
