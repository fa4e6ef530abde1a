package consensus

// Genesis builds the network's first block from params: a single
// coinbase transaction paying the genesis address, under a header
// whose fields come directly from params rather than from any prior
// block.
func Genesis(params Params) Block {
	coinbase := &Transaction{
		TxIns: []TxIn{{
			PrevTxid: ZeroHash,
			PrevVout: TxCoinbaseVout,
		}},
		TxOuts: []TxOut{{
			Amount:  genesisSubsidy,
			Address: genesisAddress(params),
		}},
	}
	coinbase.ID = ComputeTxid(coinbase)

	root, err := MerkleRoot([][HashSize]byte{coinbase.ID})
	if err != nil {
		panic("genesis: merkle root of single txid must not fail")
	}

	header := BlockHeader{
		Version:            params.BlockVersion,
		Timestamp:          params.GenesisTimestamp,
		Nonce:              params.GenesisNonce,
		Bits:               params.GenesisBits,
		CumulativeEmission: genesisSubsidy,
		PreviousHash:       ZeroHash,
		MerkleRoot:         root,
	}

	return Block{
		Header:       header,
		Hash:         ComputeBlockHash(header),
		Transactions: []*Transaction{coinbase},
	}
}

// IsGenesis reports whether b is the genesis block for params: its
// hash matches what Genesis(params) would produce.
func IsGenesis(b *Block, params Params) bool {
	return b.Hash == ComputeBlockHash(Genesis(params).Header)
}

// genesisSubsidy is the coinbase amount carried by every network's
// genesis block.
const genesisSubsidy = 50_00000000

// genesisAddress derives a fixed, unspendable-in-practice address (no
// known private key) for the genesis coinbase output, so that every
// node computes an identical genesis block from the same params.
func genesisAddress(params Params) [AddressSize]byte {
	seed := SHA256d([]byte("genesis"))
	var addr [AddressSize]byte
	addr[0] = params.AddressVersion
	copy(addr[1:], seed[:AddressHashPrefixSize])
	return addr
}
