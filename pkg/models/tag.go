package models

import (
	"regexp"
	"strings"
	"time"
)

// Tag is a process-wide shared label; unique by name.
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugNonWord    = regexp.MustCompile(`[^\w-]+`)
)

// Slugify derives a tag slug from its name: lower-cased, whitespace runs
// collapsed to "-", non-word characters stripped.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugNonWord.ReplaceAllString(s, "")
}
