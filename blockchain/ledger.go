package blockchain

import (
	"context"
	"sync"
	"time"
)

// Ledger owns the block chain and the pending transaction pool. All methods
// are safe for concurrent use; submission and mining are mutually exclusive,
// so the pool is consumed atomically when a block is mined.
type Ledger struct {
	mu           sync.RWMutex
	chain        []*Block
	pending      []Transaction
	difficulty   int
	miningReward float64
	miner        Miner
}

// NewLedger creates a ledger whose chain holds only the genesis block.
// Difficulty is the number of leading zero hex characters required of every
// mined block's hash; miningReward is paid to the miner address per block.
func NewLedger(difficulty int, miningReward float64) *Ledger {
	return &Ledger{
		chain:        []*Block{newGenesisBlock(difficulty)},
		difficulty:   difficulty,
		miningReward: miningReward,
	}
}

// SetMiner replaces the nonce-search configuration. Not safe to call while
// mining is in flight.
func (l *Ledger) SetMiner(m Miner) {
	l.mu.Lock()
	l.miner = m
	l.mu.Unlock()
}

// AddTransaction appends a transaction to the pending pool. Use
// NewTransaction or Submit to get well-formedness checks.
func (l *Ledger) AddTransaction(tx Transaction) {
	l.mu.Lock()
	l.pending = append(l.pending, tx)
	l.mu.Unlock()
}

// Submit builds a well-formed transaction and pools it in one call.
func (l *Ledger) Submit(sender, receiver string, amount float64) (Transaction, error) {
	tx, err := NewTransaction(sender, receiver, amount)
	if err != nil {
		return Transaction{}, err
	}
	l.AddTransaction(tx)
	return tx, nil
}

// MinePendingTransactions drains the pending pool into one new block. The
// block carries the pooled transactions followed by a reward transaction
// (SYSTEM -> minerAddress), and is legal with an empty pool. On success the
// mined block is appended and the pool is cleared; on cancellation the
// ledger is left unchanged and ctx.Err() is returned.
func (l *Ledger) MinePendingTransactions(ctx context.Context, minerAddress string) (*Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	txs := make([]Transaction, 0, len(l.pending)+1)
	txs = append(txs, l.pending...)
	txs = append(txs, newRewardTransaction(minerAddress, l.miningReward))

	tip := l.chain[len(l.chain)-1]
	draft := Block{
		Index:        uint64(len(l.chain)),
		Timestamp:    time.Now().Unix(),
		Transactions: txs,
		PreviousHash: tip.Hash,
		Difficulty:   l.difficulty,
	}

	mined, err := l.miner.Mine(ctx, draft)
	if err != nil {
		return nil, err
	}

	l.chain = append(l.chain, &mined)
	l.pending = nil
	return &mined, nil
}

// GetBalance derives an address balance from the full chain: debits where
// the address is sender, credits where it is receiver. The result may be
// negative; balance sufficiency is never enforced at submission time.
func (l *Ledger) GetBalance(address string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var balance float64
	for _, b := range l.chain {
		for i := range b.Transactions {
			tx := &b.Transactions[i]
			if tx.Sender == address {
				balance -= tx.Amount
			}
			if tx.Receiver == address {
				balance += tx.Amount
			}
		}
	}
	return balance
}

// Blocks returns a snapshot of the chain for display. The slice is a copy;
// the blocks themselves are shared, which is the access path the tamper
// demonstration overwrites.
func (l *Ledger) Blocks() []*Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Block, len(l.chain))
	copy(out, l.chain)
	return out
}

// Tip returns the most recently appended block.
func (l *Ledger) Tip() *Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain[len(l.chain)-1]
}

// PendingCount returns the number of pooled transactions.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

func (l *Ledger) Difficulty() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.difficulty
}

func (l *Ledger) MiningReward() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.miningReward
}
