package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// CodeAlphabet lists the characters generated discount codes are made of.
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength   = 8

	maxCreateAttempts = 10
	maxBulkAttempts   = 20

	// MaxBulkCount bounds a single bulk creation request.
	MaxBulkCount = 1000

	referenceSuffixLength = 9
)

// CodeGenerator produces candidate discount codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws codes uniformly from CodeAlphabet.
type RandomCodeGenerator struct{}

func NewRandomCodeGenerator() CodeGenerator {
	return RandomCodeGenerator{}
}

func (RandomCodeGenerator) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)
	limit := big.NewInt(int64(len(CodeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate discount code: %w", err)
		}
		sb.WriteByte(CodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode trims and uppercases a buyer supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewReference builds an order reference like ORD_1714557600000_3f9a1c2b7.
func NewReference(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:referenceSuffixLength]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}
