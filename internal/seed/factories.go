// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded author.
const DefaultPassword = "password123"

// SeedOptions tunes how entities are generated.
type SeedOptions struct {
	// SkipBcrypt stores the plain password, which keeps large seeds fast.
	SkipBcrypt bool
	// RandSeed makes generated content reproducible when non-zero.
	RandSeed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  SeedOptions
	faker *gofakeit.Faker
	seq   int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	return &Factory{db: db, opts: opts, faker: gofakeit.New(opts.RandSeed)}
}

// Faker exposes the factory's generator so callers draw from the same stream.
func (f *Factory) Faker() *gofakeit.Faker {
	return f.faker
}

// CreateAuthor constructs and persists a sample author.
// Optional override functions may modify the generated author before saving.
func (f *Factory) CreateAuthor(overrides ...func(*models.Author)) (*models.Author, error) {
	f.seq++
	username := fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), f.seq)
	author := &models.Author{
		Username:     username,
		Email:        username + "@example.com",
		Bio:          f.faker.Sentence(10),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}

	if f.opts.SkipBcrypt {
		author.Password = DefaultPassword
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		author.Password = string(hashed)
	}

	for _, override := range overrides {
		override(author)
	}

	if err := f.db.Create(author).Error; err != nil {
		return nil, err
	}
	return author, nil
}

// CreateTag persists a tag, reusing an existing one with the same slug.
func (f *Factory) CreateTag(name string) (*models.Tag, error) {
	slug := validation.Slugify(name)
	tag := &models.Tag{}
	err := f.db.Where(models.Tag{Slug: slug}).
		Attrs(models.Tag{Name: name}).
		FirstOrCreate(tag).Error
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// StoryTitle returns a short generated title.
func (f *Factory) StoryTitle() string {
	return strings.TrimSuffix(f.faker.Sentence(4), ".")
}

// StoryContent returns a few generated paragraphs.
func (f *Factory) StoryContent() string {
	return f.faker.Paragraph(3, 4, 12, "\n\n")
}

// CommentContent returns a one-sentence comment.
func (f *Factory) CommentContent() string {
	return f.faker.Sentence(8)
}
