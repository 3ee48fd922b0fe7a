package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Go -- is   fun", "go-is-fun"},
		{"already-a-slug", "already-a-slug"},
		{"!!!", ""},
		{"Chapter 12: The End", "chapter-12-the-end"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestSlugifyTruncates(t *testing.T) {
	t.Parallel()
	got := Slugify(strings.Repeat("ab ", 150))
	assert.LessOrEqual(t, len(got), maxSlugLen)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "my-story-1", false},
		{"Upper", "My-Story", true},
		{"Double Hyphen", "my--story", true},
		{"Leading Hyphen", "-story", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStoryTitle(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateStoryTitle("A fine title"))
	assert.Error(t, ValidateStoryTitle("   "))
	assert.Error(t, ValidateStoryTitle("?!"))
	assert.Error(t, ValidateStoryTitle(strings.Repeat("a", maxTitleLen+1)))
}

func TestValidateCommentContent(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateCommentContent("nice"))
	assert.Error(t, ValidateCommentContent(""))
	assert.Error(t, ValidateCommentContent(strings.Repeat("x", maxCommentLen+1)))
}

func TestValidateTagAndLibraryNames(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTagName("golang"))
	assert.Error(t, ValidateTagName(" "))
	assert.Error(t, ValidateTagName("%%"))
	assert.NoError(t, ValidateLibraryName("Read later"))
	assert.Error(t, ValidateLibraryName(""))
}
