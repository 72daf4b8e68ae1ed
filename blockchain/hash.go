package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// payloadVersion pins the canonical encoding of the hashed block payload.
// Bump it whenever the field layout below changes.
const payloadVersion = 0x01

func writeUint64(h hash.Hash, n uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	h.Write(b[:])
}

func writeString(h hash.Hash, s string) {
	writeUint64(h, uint64(len(s)))
	h.Write([]byte(s))
}

// HashBlock computes the canonical SHA-256 digest of a block's contents as a
// lowercase hex string. The payload covers index, timestamp, transactions,
// previous hash and nonce; difficulty is a search parameter, not content.
// Strings are length-prefixed and integers fixed-width, so no two distinct
// payloads share an encoding.
func HashBlock(b *Block) string {
	h := sha256.New()
	h.Write([]byte{payloadVersion})
	writeUint64(h, b.Index)
	writeUint64(h, uint64(b.Timestamp))
	writeUint64(h, uint64(len(b.Transactions)))
	for i := range b.Transactions {
		tx := &b.Transactions[i]
		writeString(h, tx.Sender)
		writeString(h, tx.Receiver)
		writeUint64(h, math.Float64bits(tx.Amount))
		writeUint64(h, uint64(tx.Timestamp))
	}
	writeString(h, b.PreviousHash)
	writeUint64(h, b.Nonce)
	return hex.EncodeToString(h.Sum(nil))
}

// HashMeetsDifficulty reports whether hash starts with at least difficulty
// leading zero hex characters.
func HashMeetsDifficulty(hash string, difficulty int) bool {
	if difficulty > len(hash) {
		return false
	}
	for i := 0; i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}
	return true
}
