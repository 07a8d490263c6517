package ledger

import (
	"crypto/rand"
	"math/big"
)

const (
	ReceiptPrefix  = "RCPT-"
	TransferPrefix = "TX-"

	receiptAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	receiptLen      = 8
)

// NewReceipt returns prefix followed by an 8 character upper-case token.
func NewReceipt(prefix string) string {
	b := make([]byte, receiptLen)
	limit := big.NewInt(int64(len(receiptAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b[i] = receiptAlphabet[n.Int64()]
	}
	return prefix + string(b)
}
