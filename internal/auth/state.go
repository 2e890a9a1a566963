package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const stateAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateStateToken creates a random alphanumeric CSRF state token.
func GenerateStateToken(length int) (string, error) {
	max := big.NewInt(int64(len(stateAlphabet)))
	token := make([]byte, length)

	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate state token: %w", err)
		}

		token[i] = stateAlphabet[n.Int64()]
	}

	return string(token), nil
}
