package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// AuthorRepository defines the interface for author data operations
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	GetByUsername(ctx context.Context, username string) (*models.Author, error)
	List(ctx context.Context, limit, offset int) ([]models.Author, error)
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	if err := r.db.WithContext(ctx).Create(author).Error; err != nil {
		return writeError(err, "Username or email already taken")
	}
	return nil
}

func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, lookupError(err, "Author", id)
	}
	return &author, nil
}

func (r *authorRepository) GetByUsername(ctx context.Context, username string) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		return nil, lookupError(err, "Author", username)
	}
	return &author, nil
}

func (r *authorRepository) List(ctx context.Context, limit, offset int) ([]models.Author, error) {
	var authors []models.Author
	if err := applyPage(r.db.WithContext(ctx), limit, offset).Order("id").Find(&authors).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return authors, nil
}
