package blockchain

import (
	"math"
	"time"
)

// SystemAddress is the sentinel sender of mining reward transactions.
// Submitted transactions may not use it.
const SystemAddress = "SYSTEM"

// GenesisPreviousHash is the link sentinel carried by the genesis block.
const GenesisPreviousHash = "0"

// Transaction is an immutable record of a value transfer. The timestamp is
// assigned at construction and is not required to be strictly increasing
// across transactions.
type Transaction struct {
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// NewTransaction builds a well-formed transaction. Addresses must be
// non-empty, the sender may not be the reward sentinel, and the amount must
// be positive and finite. Balance sufficiency is not checked here.
func NewTransaction(sender, receiver string, amount float64) (Transaction, error) {
	if sender == "" || receiver == "" {
		return Transaction{}, ErrEmptyAddress
	}
	if sender == SystemAddress {
		return Transaction{}, ErrReservedAddress
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Transaction{}, ErrInvalidAmount
	}
	return Transaction{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}, nil
}

func newRewardTransaction(miner string, amount float64) Transaction {
	return Transaction{
		Sender:    SystemAddress,
		Receiver:  miner,
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}
}

// Block is a hash-linked container of transactions. Nonce and Hash are only
// meaningful after mining; before that a Block is a draft. Blocks are
// immutable once appended to the chain.
type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	PreviousHash string        `json:"previous_hash"`
	Hash         string        `json:"hash"`
	Nonce        uint64        `json:"nonce"`
	Difficulty   int           `json:"difficulty"`
}
