package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Go", "go"},
		{"spaces collapse", "  Town   Hall  Meeting ", "town-hall-meeting"},
		{"punctuation stripped", "Q&A: Benefits!", "qa-benefits"},
		{"hyphen kept", "year-end", "year-end"},
		{"tabs and newlines", "a\t\nb", "a-b"},
		{"underscore is word", "snake_case", "snake_case"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestContentStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.False(t, ContentStatus("archived").Valid())
}
