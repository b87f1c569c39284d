package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"skills": ["Go"]}`,
			expected: `{"skills": ["Go"]}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"aiScore\": 75}\n```",
			expected: `{"aiScore": 75}`,
		},
		{
			name:     "bare fence with language tag",
			input:    "```js\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "fence starting directly with JSON",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n{}\n```\n  ",
			expected: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
