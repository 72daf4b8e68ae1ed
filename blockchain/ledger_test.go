package blockchain

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

func mustMine(t *testing.T, l *Ledger, minerAddress string) *Block {
	t.Helper()
	block, err := l.MinePendingTransactions(context.Background(), minerAddress)
	if err != nil {
		t.Fatalf("MinePendingTransactions(%q) failed: %v", minerAddress, err)
	}
	return block
}

func mustSubmit(t *testing.T, l *Ledger, sender, receiver string, amount float64) {
	t.Helper()
	if _, err := l.Submit(sender, receiver, amount); err != nil {
		t.Fatalf("Submit(%s -> %s, %v) failed: %v", sender, receiver, amount, err)
	}
}

func TestNewLedgerGenesis(t *testing.T) {
	l := NewLedger(2, 100)

	blocks := l.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("expected chain of 1 block, got %d", len(blocks))
	}

	genesis := blocks[0]
	if genesis.Index != 0 {
		t.Errorf("genesis index = %d, want 0", genesis.Index)
	}
	if genesis.PreviousHash != GenesisPreviousHash {
		t.Errorf("genesis previous hash = %q, want %q", genesis.PreviousHash, GenesisPreviousHash)
	}
	if len(genesis.Transactions) != 0 {
		t.Errorf("genesis carries %d transactions, want 0", len(genesis.Transactions))
	}
	if got := HashBlock(genesis); got != genesis.Hash {
		t.Errorf("genesis hash %s does not match recomputation %s", genesis.Hash, got)
	}
}

func TestNewTransactionWellFormedness(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		receiver string
		amount   float64
		wantErr  error
	}{
		{"valid transfer", "alice", "bob", 50, nil},
		{"empty sender", "", "bob", 50, ErrEmptyAddress},
		{"empty receiver", "alice", "", 50, ErrEmptyAddress},
		{"reserved sender", SystemAddress, "bob", 50, ErrReservedAddress},
		{"zero amount", "alice", "bob", 0, ErrInvalidAmount},
		{"negative amount", "alice", "bob", -5, ErrInvalidAmount},
		{"NaN amount", "alice", "bob", math.NaN(), ErrInvalidAmount},
		{"infinite amount", "alice", "bob", math.Inf(1), ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.sender, tt.receiver, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMinePendingTransactions(t *testing.T) {
	l := NewLedger(1, 100)
	mustSubmit(t, l, "alice", "bob", 50)

	block := mustMine(t, l, "miner1")

	if block.Index != 1 {
		t.Errorf("block index = %d, want 1", block.Index)
	}
	if block.PreviousHash != l.Blocks()[0].Hash {
		t.Error("mined block does not link to genesis")
	}
	if !HashMeetsDifficulty(block.Hash, l.Difficulty()) {
		t.Errorf("mined hash %s does not meet difficulty %d", block.Hash, l.Difficulty())
	}

	if len(block.Transactions) != 2 {
		t.Fatalf("block carries %d transactions, want 2", len(block.Transactions))
	}
	reward := block.Transactions[len(block.Transactions)-1]
	if reward.Sender != SystemAddress || reward.Receiver != "miner1" || reward.Amount != 100 {
		t.Errorf("unexpected reward transaction: %+v", reward)
	}

	if got := l.PendingCount(); got != 0 {
		t.Errorf("pending pool holds %d transactions after mining, want 0", got)
	}
	if tip := l.Tip(); tip.Hash != block.Hash {
		t.Error("Tip() does not return the mined block")
	}
}

func TestGetBalance(t *testing.T) {
	l := NewLedger(1, 100)
	mustSubmit(t, l, "alice", "bob", 50)
	mustMine(t, l, "miner1")

	tests := []struct {
		address string
		want    float64
	}{
		{"bob", 50},
		{"miner1", 100},
		{"alice", -50},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			if got := l.GetBalance(tt.address); got != tt.want {
				t.Errorf("GetBalance(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestRewardOnlyBlock(t *testing.T) {
	l := NewLedger(1, 25)

	block := mustMine(t, l, "miner1")

	if len(block.Transactions) != 1 {
		t.Fatalf("reward-only block carries %d transactions, want 1", len(block.Transactions))
	}
	if got := l.PendingCount(); got != 0 {
		t.Errorf("pending pool holds %d transactions, want 0", got)
	}
	if got := l.GetBalance("miner1"); got != 25 {
		t.Errorf("GetBalance(miner1) = %v, want 25", got)
	}
}

func TestChainLinkage(t *testing.T) {
	l := NewLedger(1, 100)
	for i := 0; i < 3; i++ {
		mustSubmit(t, l, "alice", "bob", 10)
		mustMine(t, l, "miner1")
	}

	blocks := l.Blocks()
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].PreviousHash != blocks[i-1].Hash {
			t.Errorf("block %d does not link to block %d", i, i-1)
		}
		if blocks[i].Index != blocks[i-1].Index+1 {
			t.Errorf("block %d has index %d, want %d", i, blocks[i].Index, blocks[i-1].Index+1)
		}
	}
}

func TestMineCanceledLeavesLedgerUnchanged(t *testing.T) {
	l := NewLedger(1, 100)
	mustSubmit(t, l, "alice", "bob", 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.MinePendingTransactions(ctx, "miner1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("MinePendingTransactions() error = %v, want context.Canceled", err)
	}

	if got := len(l.Blocks()); got != 1 {
		t.Errorf("chain grew to %d blocks after canceled mining, want 1", got)
	}
	if got := l.PendingCount(); got != 1 {
		t.Errorf("pending pool holds %d transactions after canceled mining, want 1", got)
	}
}

func TestConcurrentSubmit(t *testing.T) {
	l := NewLedger(1, 100)

	const submitters = 50
	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Submit("alice", "bob", 1); err != nil {
				t.Errorf("Submit() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := l.PendingCount(); got != submitters {
		t.Errorf("pending pool holds %d transactions, want %d", got, submitters)
	}

	block := mustMine(t, l, "miner1")
	if len(block.Transactions) != submitters+1 {
		t.Errorf("block carries %d transactions, want %d", len(block.Transactions), submitters+1)
	}
}
