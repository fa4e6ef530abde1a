package node

import (
	"context"
	"errors"
	"time"

	"forgechain.dev/node/consensus"
)

// MinerConfig controls the dev-only block assembler below. It exists
// for local/devnet bring-up and conformance fixtures, not production
// mining — there is no difficulty retargeting, fee selection, or
// orphan handling here.
type MinerConfig struct {
	RewardAddress   [consensus.AddressSize]byte
	TimestampSource func() uint32
	MaxTxPerBlock   int
}

// MinedBlock summarizes one block produced by Miner.MineOne.
type MinedBlock struct {
	Height    uint64
	Hash      [consensus.HashSize]byte
	Timestamp uint32
	Nonce     uint32
	TxCount   int
}

// Miner assembles and proof-of-work-seals blocks on top of a
// ChainState, then connects them immediately.
type Miner struct {
	chain  *ChainState
	params consensus.Params
	cfg    MinerConfig
}

func DefaultMinerConfig(rewardAddress [consensus.AddressSize]byte) MinerConfig {
	return MinerConfig{
		RewardAddress: rewardAddress,
		TimestampSource: func() uint32 {
			return uint32(time.Now().Unix())
		},
		MaxTxPerBlock: 1024,
	}
}

func NewMiner(chain *ChainState, params consensus.Params, cfg MinerConfig) (*Miner, error) {
	if chain == nil {
		return nil, errors.New("nil chainstate")
	}
	if cfg.TimestampSource == nil {
		cfg.TimestampSource = func() uint32 { return uint32(time.Now().Unix()) }
	}
	if cfg.MaxTxPerBlock <= 0 {
		cfg.MaxTxPerBlock = 1024
	}
	return &Miner{chain: chain, params: params, cfg: cfg}, nil
}

// MineN mines up to blocks blocks in sequence, each including as many
// of txs as fit and haven't yet been mined into an earlier block in
// this call.
func (m *Miner) MineN(ctx context.Context, blocks int, txs []*consensus.Transaction) ([]MinedBlock, error) {
	if blocks < 0 {
		return nil, errors.New("blocks must be >= 0")
	}
	out := make([]MinedBlock, 0, blocks)
	remaining := txs
	for i := 0; i < blocks; i++ {
		maxTx := len(remaining)
		if maxTx > m.cfg.MaxTxPerBlock {
			maxTx = m.cfg.MaxTxPerBlock
		}
		mb, err := m.MineOne(ctx, remaining[:maxTx])
		if err != nil {
			return nil, err
		}
		remaining = remaining[maxTx:]
		out = append(out, *mb)
	}
	return out, nil
}

// MineOne assembles a block containing a fresh coinbase paying
// m.cfg.RewardAddress plus txs, brute-forces a nonce satisfying the
// network's proof-of-work target, connects it to the chain, and
// returns a summary.
func (m *Miner) MineOne(ctx context.Context, txs []*consensus.Transaction) (*MinedBlock, error) {
	if m == nil || m.chain == nil {
		return nil, errors.New("miner is not initialized")
	}

	height, tipHash, err := m.chain.Tip()
	if err != nil {
		return nil, err
	}

	coinbase := &consensus.Transaction{
		TxIns: []consensus.TxIn{{
			PrevTxid: consensus.ZeroHash,
			PrevVout: consensus.TxCoinbaseVout,
		}},
		TxOuts: []consensus.TxOut{{
			Amount:  blockSubsidy(height + 1),
			Address: m.cfg.RewardAddress,
		}},
	}
	coinbase.ID = consensus.ComputeTxid(coinbase)

	transactions := make([]*consensus.Transaction, 0, 1+len(txs))
	transactions = append(transactions, coinbase)
	transactions = append(transactions, txs...)

	txids := make([][consensus.HashSize]byte, len(transactions))
	for i, tx := range transactions {
		txids[i] = tx.ID
	}
	merkleRoot, err := consensus.MerkleRoot(txids)
	if err != nil {
		return nil, err
	}

	var cumulative uint64
	for _, out := range coinbase.TxOuts {
		cumulative += out.Amount
	}

	header := consensus.BlockHeader{
		Version:            m.params.BlockVersion,
		Timestamp:          m.cfg.TimestampSource(),
		Bits:               m.params.GenesisBits,
		CumulativeEmission: cumulative,
		PreviousHash:       tipHash,
		MerkleRoot:         merkleRoot,
	}

	var nonce uint32
	var hash [consensus.HashSize]byte
	for {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		header.Nonce = nonce
		hash = consensus.ComputeBlockHash(header)
		if consensus.CheckProofOfWork(hash, header.Bits, m.params.PowLimit) {
			break
		}
		nonce++
	}

	block := &consensus.Block{
		Header:       header,
		Hash:         hash,
		Transactions: transactions,
	}

	if err := m.chain.ConnectBlock(block); err != nil {
		return nil, err
	}

	return &MinedBlock{
		Height:    height + 1,
		Hash:      hash,
		Timestamp: header.Timestamp,
		Nonce:     nonce,
		TxCount:   len(transactions),
	}, nil
}

// blockSubsidy returns the coinbase reward for height. There is no
// halving schedule in this network — dynamic fee markets and
// programmatic issuance curves are out of scope — so the subsidy is
// flat across every height.
func blockSubsidy(height uint64) uint64 {
	return 50_00000000
}
