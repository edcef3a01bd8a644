package cart

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber produces an identifier of the form PED-YYMMDD-XXXX, where
// XXXX are four random characters from [0-9A-Z]. Uniqueness is
// probabilistic only (36^4 combinations per day); the orders table's unique
// index is what actually catches a collision.
func NewOrderNumber(now time.Time) (string, error) {

	suffix := make([]byte, 4)
	for i := range suffix {
		idx, err := alphabetIndex()
		if err != nil {
			return "", err
		}

		suffix[i] = orderNumberAlphabet[idx]
	}

	return fmt.Sprintf("PED-%s-%s", now.Format("060102"), suffix), nil
}

// alphabetIndex draws a uniform index into the alphabet. Bytes at or above
// the largest multiple of 36 are rejected so no character is favoured.
func alphabetIndex() (int, error) {
	const limit = 256 - 256%len(orderNumberAlphabet)

	buf := make([]byte, 1)

	for {
		if _, err := rand.Read(buf); err != nil {
			return 0, fmt.Errorf("reading random bytes for order number: %w", err)
		}

		if int(buf[0]) < limit {
			return int(buf[0]) % len(orderNumberAlphabet), nil
		}
	}
}
