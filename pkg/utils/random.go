package utils

import (
	"crypto/rand"
	"math/big"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomID returns an n-character alphanumeric identifier drawn
// from crypto/rand. Used for user-facing public IDs where sequential
// database keys must not leak.
func GenerateRandomID(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(idCharset)))
	for i := range out {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return ""
		}
		out[i] = idCharset[num.Int64()]
	}
	return string(out)
}
