// Package password generates temporary passwords for provisioned users.
package password

import (
	"crypto/rand"
	"math/big"
)

const (
	lower   = "abcdefghijkmnopqrstuvwxyz"
	upper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digits  = "23456789"
	symbols = "!@#$%*"
)

// Generate returns a random password of the given length containing at least
// one character from each class. Length is clamped to a minimum of 8.
func Generate(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	classes := []string{lower, upper, digits, symbols}
	all := lower + upper + digits + symbols

	out := make([]byte, 0, length)
	for _, class := range classes {
		ch, err := pick(class)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < length {
		ch, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// Fisher-Yates so the mandatory class characters are not positional.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[idx.Int64()], nil
}
