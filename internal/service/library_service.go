package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// LibraryService manages libraries and their story membership.
type LibraryService struct {
	libraries repository.LibraryRepository
	stories   repository.StoryRepository
	authors   repository.AuthorRepository
}

type CreateLibraryInput struct {
	OwnerID     uint
	Name        string
	Description string
	// IsPrivate defaults to true when nil.
	IsPrivate *bool
}

type UpdateLibraryInput struct {
	ActorID     uint
	LibraryID   uint
	Name        *string
	Description *string
	IsPrivate   *bool
}

func NewLibraryService(
	libraries repository.LibraryRepository,
	stories repository.StoryRepository,
	authors repository.AuthorRepository,
) *LibraryService {
	return &LibraryService{libraries: libraries, stories: stories, authors: authors}
}

func (s *LibraryService) CreateLibrary(ctx context.Context, in CreateLibraryInput) (*models.Library, error) {
	if err := validation.ValidateLibraryName(in.Name); err != nil {
		return nil, invalid(err)
	}
	private := true
	if in.IsPrivate != nil {
		private = *in.IsPrivate
	}

	library := &models.Library{
		UserID:      in.OwnerID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsPrivate:   private,
	}
	if err := s.libraries.Create(ctx, library); err != nil {
		return nil, err
	}
	return s.libraries.GetByID(ctx, library.ID)
}

// GetLibrary returns the library if the requester may see it.
func (s *LibraryService) GetLibrary(ctx context.Context, requesterID, libraryID uint) (*models.Library, error) {
	library, err := s.libraries.GetByID(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	if !library.VisibleTo(requesterID) {
		return nil, models.NewForbiddenError("You don't have permission to access this library")
	}
	return library, nil
}

func (s *LibraryService) UpdateLibrary(ctx context.Context, in UpdateLibraryInput) (*models.Library, error) {
	library, err := s.libraries.GetByID(ctx, in.LibraryID)
	if err != nil {
		return nil, err
	}
	if library.UserID != in.ActorID {
		return nil, models.NewForbiddenError("Only the owner can edit this library")
	}

	if in.Name != nil {
		if err := validation.ValidateLibraryName(*in.Name); err != nil {
			return nil, invalid(err)
		}
		library.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		library.Description = *in.Description
	}
	if in.IsPrivate != nil {
		library.IsPrivate = *in.IsPrivate
	}
	if err := s.libraries.Update(ctx, library); err != nil {
		return nil, err
	}
	return library, nil
}

func (s *LibraryService) DeleteLibrary(ctx context.Context, actorID, libraryID uint) error {
	library, err := s.libraries.GetByID(ctx, libraryID)
	if err != nil {
		return err
	}
	if library.UserID != actorID {
		return models.NewForbiddenError("Only the owner can delete this library")
	}
	return s.libraries.Delete(ctx, libraryID)
}

// ListUserLibraries returns all of ownerID's libraries to the owner and only
// the public ones to anyone else.
func (s *LibraryService) ListUserLibraries(ctx context.Context, requesterID, ownerID uint, limit, offset int) ([]*models.Library, error) {
	if _, err := s.authors.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.libraries.ListByOwner(ctx, ownerID, requesterID == ownerID, limit, offset)
}

// AddStory puts a story into one of the actor's own libraries.
func (s *LibraryService) AddStory(ctx context.Context, actorID, libraryID, storyID uint) (*models.LibraryStory, error) {
	library, err := s.ownedLibrary(ctx, actorID, libraryID)
	if err != nil {
		return nil, err
	}
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	entry := &models.LibraryStory{LibraryID: library.ID, StoryID: story.ID}
	if err := s.libraries.AddStory(ctx, entry); err != nil {
		return nil, err
	}
	entry.Story = *story
	return entry, nil
}

func (s *LibraryService) RemoveStory(ctx context.Context, actorID, libraryID, storyID uint) error {
	if _, err := s.ownedLibrary(ctx, actorID, libraryID); err != nil {
		return err
	}
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return err
	}
	return s.libraries.RemoveStory(ctx, libraryID, storyID)
}

// ListLibraryStories lists a library's stories; a private library is only
// readable by its owner.
func (s *LibraryService) ListLibraryStories(ctx context.Context, requesterID, libraryID uint, limit, offset int) ([]*models.Story, error) {
	if _, err := s.GetLibrary(ctx, requesterID, libraryID); err != nil {
		return nil, err
	}
	return s.libraries.ListStories(ctx, libraryID, limit, offset)
}

// ownedLibrary hides libraries of other owners behind NOT_FOUND.
func (s *LibraryService) ownedLibrary(ctx context.Context, actorID, libraryID uint) (*models.Library, error) {
	library, err := s.libraries.GetByID(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	if library.UserID != actorID {
		return nil, models.NewNotFoundError("Library", libraryID)
	}
	return library, nil
}
