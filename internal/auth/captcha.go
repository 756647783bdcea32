package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	captchaAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@#$%&*"
	DefaultCaptchaLength = 6
)

// GenerateCaptcha draws n characters uniformly from captchaAlphabet
func GenerateCaptcha(r io.Reader, n int) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	if n <= 0 {
		n = DefaultCaptchaLength
	}
	max := big.NewInt(int64(len(captchaAlphabet)))
	code := make([]byte, n)
	for i := range code {
		idx, err := rand.Int(r, max)
		if err != nil {
			return "", fmt.Errorf("generate captcha: %w", err)
		}
		code[i] = captchaAlphabet[idx.Int64()]
	}
	return string(code), nil
}

// CaptchaMatches compares case-insensitively
func CaptchaMatches(expected, entered string) bool {
	return expected != "" && strings.EqualFold(expected, entered)
}
