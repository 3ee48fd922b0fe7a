// Package validation holds input checks shared by services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen       = 255
	maxTagNameLen     = 100
	maxLibraryNameLen = 255
	maxCommentLen     = 10000
	maxSlugLen        = 200
)

var (
	slugRegex       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugRunes    = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe slug from free text.
// "Hello, World!" becomes "hello-world". Text without any slug-able runes yields "".
func Slugify(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = nonSlugRunes.ReplaceAllString(out, "-")
	out = repeatedHyphens.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], "-")
	}
	return out
}

// ValidateSlug checks an explicitly supplied slug.
func ValidateSlug(slug string) error {
	if len(slug) > maxSlugLen {
		return fmt.Errorf("slug must be at most %d characters", maxSlugLen)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and single hyphens")
	}
	return nil
}

// ValidateStoryTitle rejects empty or oversized titles.
func ValidateStoryTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("title must be at most %d characters", maxTitleLen)
	}
	if Slugify(title) == "" {
		return fmt.Errorf("title must contain at least one letter or digit")
	}
	return nil
}

// ValidateCommentContent rejects empty or oversized comments.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return fmt.Errorf("comment too long (max %d characters)", maxCommentLen)
	}
	return nil
}

// ValidateTagName rejects empty or oversized tag names.
func ValidateTagName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return fmt.Errorf("name must be at most %d characters", maxTagNameLen)
	}
	if Slugify(name) == "" {
		return fmt.Errorf("name must contain at least one letter or digit")
	}
	return nil
}

// ValidateLibraryName rejects empty or oversized library names.
func ValidateLibraryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > maxLibraryNameLen {
		return fmt.Errorf("name must be at most %d characters", maxLibraryNameLen)
	}
	return nil
}
