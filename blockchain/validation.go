package blockchain

import (
	"fmt"
	"log"
)

// InvalidReason identifies the first integrity check a block failed.
type InvalidReason int

const (
	HashMismatch InvalidReason = iota + 1
	BrokenLink
	ProofOfWorkNotMet
)

func (r InvalidReason) String() string {
	switch r {
	case HashMismatch:
		return "hash mismatch"
	case BrokenLink:
		return "broken link"
	case ProofOfWorkNotMet:
		return "proof of work not met"
	default:
		return "unknown"
	}
}

// ValidationResult reports chain integrity. When OK is false, Reason and
// Index identify the first failing block.
type ValidationResult struct {
	OK     bool
	Reason InvalidReason
	Index  uint64
}

func (r ValidationResult) String() string {
	if r.OK {
		return "valid"
	}
	return fmt.Sprintf("invalid: %s at block %d", r.Reason, r.Index)
}

func invalid(reason InvalidReason, index uint64) ValidationResult {
	log.Printf("VALIDATION\tblock %d failed: %s", index, reason)
	return ValidationResult{Reason: reason, Index: index}
}

// Validate walks the chain from index 1 (genesis is trusted) and reports the
// first failing block. Per block, in order: the stored hash must match a
// recomputation over the stored contents, the previous-hash link must match
// the prior block, and the hash must meet the block's recorded difficulty.
// Read-only and idempotent.
func (l *Ledger) Validate() ValidationResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := 1; i < len(l.chain); i++ {
		curr, prev := l.chain[i], l.chain[i-1]

		if HashBlock(curr) != curr.Hash {
			return invalid(HashMismatch, uint64(i))
		}
		if curr.PreviousHash != prev.Hash {
			return invalid(BrokenLink, uint64(i))
		}
		if !HashMeetsDifficulty(curr.Hash, curr.Difficulty) {
			return invalid(ProofOfWorkNotMet, uint64(i))
		}
	}
	return ValidationResult{OK: true}
}
