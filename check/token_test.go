package check

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wordPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	leadingPattern = regexp.MustCompile(`^[A-Za-z_]`)
)

func TestBuildRandomWordFixedLength(t *testing.T) {
	g := NewTokenGenerator()
	for i := 0; i < 100; i++ {
		word, err := g.BuildRandomWord(6, 6)
		require.NoError(t, err)
		assert.Len(t, word, 6)
		assert.Regexp(t, wordPattern, word)
	}
}

func TestBuildRandomWordLengthRange(t *testing.T) {
	g := NewTokenGenerator()
	for i := 0; i < 100; i++ {
		word, err := g.BuildRandomWord(6, 12)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(word), 6)
		assert.LessOrEqual(t, len(word), 12)
		assert.Regexp(t, leadingPattern, word)
	}
}

func TestBuildRandomWordMinLengthClamped(t *testing.T) {
	g := NewTokenGenerator()
	word, err := g.BuildRandomWord(0, 0)
	require.NoError(t, err)
	assert.Len(t, word, 2)

	word, err = g.BuildRandomWord(-5, 1)
	require.NoError(t, err)
	assert.Len(t, word, 2)
}

func TestBuildRandomWordNoImmediateRepeat(t *testing.T) {
	g := NewTokenGenerator()
	seen := make(map[string]bool)
	// With length 2 over a 63-char alphabet collisions are likely
	// within a few hundred draws; the history must absorb them.
	for i := 0; i < 300; i++ {
		word, err := g.BuildRandomWord(2, 2)
		require.NoError(t, err)
		require.False(t, seen[word], "generator repeated %q", word)
		seen[word] = true
	}
}

func TestGeneratorsAreIndependent(t *testing.T) {
	// Separate generators carry separate histories; only a shared
	// generator guarantees distinctness.
	g1 := NewTokenGenerator()
	g2 := NewTokenGenerator()
	_, err := g1.BuildRandomWord(6, 6)
	require.NoError(t, err)
	_, err = g2.BuildRandomWord(6, 6)
	require.NoError(t, err)
	assert.Len(t, g1.history, 1)
	assert.Len(t, g2.history, 1)
}
