package blockchain

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

// searchWindow is the number of nonces examined between cancellation checks
// and the span split across workers in the parallel search.
const searchWindow = 4096

// Miner performs the proof-of-work nonce search. The zero value searches
// sequentially and reports no progress.
type Miner struct {
	// Workers is the number of goroutines splitting each search window.
	// Values below 2 select the sequential search.
	Workers int

	// ReportEvery is the attempt interval between Progress calls.
	ReportEvery uint64

	// Progress, if non-nil, receives the cumulative attempt count during the
	// search. It is called from the mining goroutine.
	Progress func(attempts uint64)
}

// Mine searches nonces from zero upward until the hash of the draft meets
// its difficulty, and returns the mined block. The search selects the
// smallest satisfying nonce regardless of worker count, so sequential and
// parallel runs produce the identical block. The only error is ctx.Err()
// when the context is canceled before a nonce is found.
func (m *Miner) Mine(ctx context.Context, draft Block) (Block, error) {
	start := time.Now()

	var (
		nonce uint64
		hash  string
		err   error
	)
	if m.Workers > 1 {
		nonce, hash, err = m.searchParallel(ctx, &draft)
	} else {
		nonce, hash, err = m.searchSequential(ctx, &draft)
	}
	if err != nil {
		return Block{}, err
	}

	draft.Nonce = nonce
	draft.Hash = hash
	log.Printf("MINING\tblock %d mined: nonce=%d hash=%s elapsed=%s",
		draft.Index, nonce, hash, time.Since(start).Round(time.Millisecond))
	return draft, nil
}

func (m *Miner) searchSequential(ctx context.Context, draft *Block) (uint64, string, error) {
	b := *draft
	for base := uint64(0); ; base += searchWindow {
		if err := ctx.Err(); err != nil {
			return 0, "", err
		}
		for n := base; n < base+searchWindow; n++ {
			b.Nonce = n
			if h := HashBlock(&b); HashMeetsDifficulty(h, b.Difficulty) {
				return n, h, nil
			}
			m.report(n + 1)
		}
	}
}

// searchParallel stripes each window across Workers goroutines. Every nonce
// in the window is examined, so the smallest satisfying nonce in the
// earliest satisfying window is the overall smallest.
func (m *Miner) searchParallel(ctx context.Context, draft *Block) (uint64, string, error) {
	workers := m.Workers
	for base := uint64(0); ; base += searchWindow {
		if err := ctx.Err(); err != nil {
			return 0, "", err
		}

		found := make([]uint64, workers)
		hashes := make([]string, workers)
		for w := range found {
			found[w] = math.MaxUint64
		}

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				b := *draft
				for n := base + uint64(w); n < base+searchWindow; n += uint64(workers) {
					b.Nonce = n
					if h := HashBlock(&b); HashMeetsDifficulty(h, b.Difficulty) {
						found[w] = n
						hashes[w] = h
						return
					}
				}
			}(w)
		}
		wg.Wait()

		best := -1
		for w := range found {
			if found[w] == math.MaxUint64 {
				continue
			}
			if best < 0 || found[w] < found[best] {
				best = w
			}
		}
		if best >= 0 {
			return found[best], hashes[best], nil
		}
		m.report(base + searchWindow)
	}
}

func (m *Miner) report(attempts uint64) {
	if m.Progress != nil && m.ReportEvery > 0 && attempts%m.ReportEvery == 0 {
		m.Progress(attempts)
	}
}
