package node

import (
	"fmt"
	"time"

	"forgechain.dev/node/consensus"
)

// ChainState links a BlockStore to a fixed set of consensus parameters
// and enforces that blocks are only ever applied on top of the
// current tip — either the genesis block, for an empty store, or
// whatever the store last recorded.
type ChainState struct {
	params consensus.Params
	store  *BlockStore
}

// NewChainState wraps store under params. If store has no recorded
// tip, the network's genesis block is applied as the first entry.
func NewChainState(params consensus.Params, store *BlockStore) (*ChainState, error) {
	cs := &ChainState{params: params, store: store}
	_, _, ok, err := store.Tip()
	if err != nil {
		return nil, err
	}
	if ok {
		return cs, nil
	}

	genesis := consensus.Genesis(cs.params)
	if err := store.ApplyBlock(0, &genesis); err != nil {
		return nil, fmt.Errorf("apply genesis: %w", err)
	}
	return cs, nil
}

// Tip returns the store's current chain height and tip hash, or an
// error if the store has no tip recorded.
func (cs *ChainState) Tip() (uint64, [consensus.HashSize]byte, error) {
	height, hash, ok, err := cs.store.Tip()
	if err != nil {
		return 0, hash, err
	}
	if !ok {
		return 0, hash, fmt.Errorf("chainstate: no tip recorded")
	}
	return height, hash, nil
}

// ConnectBlock validates b against the current tip and, on success,
// applies it and advances the chain by one block. b.Header.PreviousHash
// must equal the current tip hash — ChainState is the layer that
// enforces chain linkage; consensus.ValidBlock does not.
func (cs *ChainState) ConnectBlock(b *consensus.Block) error {
	height, tipHash, err := cs.Tip()
	if err != nil {
		return err
	}
	if b.Header.PreviousHash != tipHash {
		return fmt.Errorf("chainstate: block does not extend current tip")
	}

	if err := consensus.ValidBlock(b, cs.params, cs.store, time.Now()); err != nil {
		return err
	}

	return cs.store.ApplyBlock(height+1, b)
}
