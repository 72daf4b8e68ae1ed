package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"goledger/blockchain"
)

func main() {
	difficulty := flag.Int("difficulty", 4, "required leading zero hex characters")
	reward := flag.Float64("reward", 100, "mining reward per block")
	workers := flag.Int("workers", 1, "parallel mining workers")
	flag.Parse()

	// Mining is the only long-running operation; let Ctrl-C cancel it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Go", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("Ledger", pterm.FgLightBlue.ToStyle()),
	).Render()
	pterm.Info.Printfln("difficulty=%d reward=%.0f workers=%d", *difficulty, *reward, *workers)

	ledger := blockchain.NewLedger(*difficulty, *reward)

	submit(ledger, "Alice", "Bob", 50)
	submit(ledger, "Bob", "Charlie", 25)
	mine(ctx, ledger, "Miner1", *workers)

	submit(ledger, "Charlie", "Alice", 10)
	submit(ledger, "Alice", "Miner1", 5)
	mine(ctx, ledger, "Miner1", *workers)

	renderChain(ledger)
	renderBalances(ledger, "Alice", "Bob", "Charlie", "Miner1")

	pterm.DefaultSection.Println("Validating chain")
	renderVerdict(ledger.Validate())

	pterm.DefaultSection.Println("Tampering with block 1")
	blocks := ledger.Blocks()
	blocks[1].Transactions[0].Amount = 1000
	pterm.Warning.Println("Overwrote a transaction amount in block 1 without re-mining")
	renderVerdict(ledger.Validate())
}

func submit(ledger *blockchain.Ledger, sender, receiver string, amount float64) {
	tx, err := ledger.Submit(sender, receiver, amount)
	if err != nil {
		pterm.Error.Printfln("rejected %s -> %s: %v", sender, receiver, err)
		return
	}
	pterm.Success.Printfln("pooled %s -> %s: %.0f coins", tx.Sender, tx.Receiver, tx.Amount)
}

func mine(ctx context.Context, ledger *blockchain.Ledger, minerAddress string, workers int) {
	spinner, _ := pterm.DefaultSpinner.Start("Mining block...")
	ledger.SetMiner(blockchain.Miner{
		Workers:     workers,
		ReportEvery: 10000,
		Progress: func(attempts uint64) {
			spinner.UpdateText(fmt.Sprintf("Mining block... %d attempts", attempts))
		},
	})

	block, err := ledger.MinePendingTransactions(ctx, minerAddress)
	if err != nil {
		spinner.Fail("Mining canceled")
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Block %d mined with nonce %d", block.Index, block.Nonce))
}

func renderChain(ledger *blockchain.Ledger) {
	pterm.DefaultSection.Println("Chain")
	for _, b := range ledger.Blocks() {
		body := fmt.Sprintf("Timestamp: %d\nPrevious:  %s\nHash:      %s\nNonce:     %d\nDifficulty: %d\n",
			b.Timestamp, pterm.Yellow(b.PreviousHash), pterm.Green(b.Hash), b.Nonce, b.Difficulty)
		for i, tx := range b.Transactions {
			body += fmt.Sprintf("\n  %d. %s -> %s  %.0f coins",
				i+1, pterm.Magenta(tx.Sender), pterm.Magenta(tx.Receiver), tx.Amount)
		}
		pterm.DefaultBox.
			WithTitle(fmt.Sprintf("Block #%d", b.Index)).
			WithTitleTopLeft().
			Println(body)
	}
}

func renderBalances(ledger *blockchain.Ledger, addresses ...string) {
	pterm.DefaultSection.Println("Balances")
	for _, addr := range addresses {
		pterm.Printfln("%s: %s coins", pterm.Magenta(addr), pterm.Green(fmt.Sprintf("%.0f", ledger.GetBalance(addr))))
	}
}

func renderVerdict(res blockchain.ValidationResult) {
	if res.OK {
		pterm.Success.Println("Chain is valid")
		return
	}
	pterm.Error.Printfln("Tampering detected: %s at block %d", res.Reason, res.Index)
}
