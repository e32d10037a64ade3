// go-utils/random.go

package utils

import (
	"crypto/rand"
	"math/big"
)

// Alphanumeric is the alphabet used for human-facing codes.
const Alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomAlphanumeric returns a uniformly random string of the given length
// drawn from Alphanumeric.
func RandomAlphanumeric(length int) string {
	return randomFrom(Alphanumeric, length)
}

func randomFrom(alphabet string, length int) string {
	n := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			panic(err) // crypto/rand failing is not recoverable
		}
		b[i] = alphabet[num.Int64()]
	}
	return string(b)
}
