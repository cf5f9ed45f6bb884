package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"bobo", "chato", "mentira"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "You are bobo today",
			expected: "You are **** today",
			words:    []string{"bobo"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "chato chato",
			expected: "***** *****",
			words:    []string{"chato", "chato"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "so ch.4.t.0 here",
			expected: "so ******** here",
			words:    []string{"chato"},
		},
		{
			name:     "Uppercase",
			input:    "MENTIRA!",
			expected: "*******!",
			words:    []string{"mentira"},
		},
		{
			name:     "Nothing to censor",
			input:    "Bate-papo is fun",
			expected: "Bate-papo is fun",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content)
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_NoWords_IsPassThrough(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given only noise in the dictionary
	mod, err := NewModerator([]string{"...", ",,,", ""}, replacementChar, log)
	req.NoError(err)

	// Then nothing is censored
	content, words := mod.Censor("Hello ... bobo")
	req.Equal("Hello ... bobo", content)
	req.Nil(words)
}

func TestModerator_Nil_IsPassThrough(t *testing.T) {
	var mod *Moderator
	content, words := mod.Censor("anything")
	require.Equal(t, "anything", content)
	require.Nil(t, words)
}
