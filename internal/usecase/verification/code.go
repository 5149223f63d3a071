package verification

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
)

const (
	minCode = 1000
	maxCode = 9999
)

var codeSpan = big.NewInt(maxCode - minCode + 1)

// GenerateCode возвращает равномерно распределённый код из диапазона 1000–9999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+minCode, 10), nil
}

func secretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
