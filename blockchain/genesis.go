package blockchain

import "time"

// newGenesisBlock synthesizes the trusted first block: index 0, no
// transactions, sentinel previous hash. Its hash is computed once with nonce
// zero but the block is never mined; validation trusts it axiomatically and
// starts at index 1.
func newGenesisBlock(difficulty int) *Block {
	b := &Block{
		Index:        0,
		Timestamp:    time.Now().Unix(),
		Transactions: []Transaction{},
		PreviousHash: GenesisPreviousHash,
		Difficulty:   difficulty,
	}
	b.Hash = HashBlock(b)
	return b
}
