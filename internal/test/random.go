package test

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomCode returns an uppercase alphanumeric code of the given length, the shape of generated discount codes.
func RandomCode(length int) string {
	if length <= 0 {
		length = 8
	}
	rngMu.Lock()
	defer rngMu.Unlock()
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(buf)
}

// RandomReference returns a unique-looking order reference with the given prefix.
func RandomReference(prefix string) string {
	rngMu.Lock()
	suffix := rng.Int63n(1 << 36)
	rngMu.Unlock()
	return fmt.Sprintf("%s_%d_%09x", prefix, time.Now().UnixMilli(), suffix)
}
