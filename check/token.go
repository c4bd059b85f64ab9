package check

import (
	"fmt"

	"github.com/formsentry/formsentry/internal/util"
)

const (
	wordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
	wordLeading  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
)

// TokenGenerator produces random identifier-safe words. It remembers
// the words it has handed out and never returns the same word twice
// within its own lifetime — a same-run collision deterrent for rotating
// field names, not a security boundary. Construct one per owner; share
// deliberately if two owners must not collide.
type TokenGenerator struct {
	history []string
}

// NewTokenGenerator returns a generator with empty history.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// BuildRandomWord returns a random word usable as an HTML field name or
// identifier. minLength is clamped to at least 2; when maxLength
// exceeds minLength the actual length is picked uniformly from
// [minLength, maxLength]. The first character is always a letter or
// underscore, the rest alphanumeric or underscore. A word matching any
// previously generated one is rejected and regenerated.
func (g *TokenGenerator) BuildRandomWord(minLength, maxLength int) (string, error) {
	if minLength < 2 {
		minLength = 2
	}
	length := minLength
	if maxLength > minLength {
		jitter, err := util.RandomIntn(maxLength - minLength + 1)
		if err != nil {
			return "", err
		}
		length += jitter
	}

	for {
		word, err := randomWord(length)
		if err != nil {
			return "", err
		}
		if g.seen(word) {
			continue
		}
		g.history = append(g.history, word)
		return word, nil
	}
}

func (g *TokenGenerator) seen(word string) bool {
	for _, w := range g.history {
		if w == word {
			return true
		}
	}
	return false
}

func randomWord(length int) (string, error) {
	word := make([]byte, length)
	for i := range word {
		idx, err := util.RandomIntn(len(wordAlphabet))
		if err != nil {
			return "", fmt.Errorf("generating random word: %w", err)
		}
		word[i] = wordAlphabet[idx]
	}
	if !isLeading(word[0]) {
		idx, err := util.RandomIntn(len(wordLeading))
		if err != nil {
			return "", fmt.Errorf("generating random word: %w", err)
		}
		word[0] = wordLeading[idx]
	}
	return string(word), nil
}

func isLeading(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
