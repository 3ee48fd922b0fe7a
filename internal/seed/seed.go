package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumAuthors int
	NumStories int
	// FollowRatio is the chance that any author follows any other author.
	FollowRatio float64
	// FeatureFlags is passed to the fan-out engine, e.g. "follow_notifications=on".
	FeatureFlags string
	SkipBcrypt   bool
	RandSeed     int64
}

// Result counts what a seed run created.
type Result struct {
	Authors       int
	Follows       int
	Stories       int
	Published     int
	Likes         int
	Comments      int
	Libraries     int
	Notifications int64
}

var tagNames = []string{
	"Fiction", "Poetry", "Essays", "Science Fiction", "Fantasy", "Mystery",
	"History", "Travel", "Technology", "Philosophy", "Food", "Music",
}

// seedTables lists every table in delete order.
var seedTables = []string{
	"notifications", "library_stories", "libraries", "likes", "comments",
	"story_tags", "stories", "tags", "followers", "authors",
}

// Seeder populates the store through the service layer so that every write
// produces the same notifications a live request would.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory

	stories   *service.StoryService
	likes     *service.LikeService
	comments  *service.CommentService
	follows   *service.FollowService
	libraries *service.LibraryService
}

// NewSeeder wires a seeder on db. Realtime delivery and the event bus are disabled.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.FollowRatio <= 0 {
		opts.FollowRatio = 0.3
	}

	storyRepo := repository.NewStoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	fanout := service.NewFanout(
		followerRepo,
		repository.NewNotificationRepository(db),
		nil,
		nil,
		featureflags.NewManager(opts.FeatureFlags),
		30*time.Second,
	)

	return &Seeder{
		db:        db,
		opts:      opts,
		factory:   NewFactory(db, SeedOptions{SkipBcrypt: opts.SkipBcrypt, RandSeed: opts.RandSeed}),
		stories:   service.NewStoryService(storyRepo, tagRepo, fanout),
		likes:     service.NewLikeService(repository.NewLikeRepository(db), storyRepo, fanout),
		comments:  service.NewCommentService(repository.NewCommentRepository(db), storyRepo, fanout),
		follows:   service.NewFollowService(followerRepo, authorRepo, fanout),
		libraries: service.NewLibraryService(repository.NewLibraryRepository(db), storyRepo, authorRepo),
	}
}

// Run seeds authors, the follow graph, stories and engagement.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	log := middleware.Logger
	res := &Result{}

	tags, err := s.seedTags()
	if err != nil {
		return nil, fmt.Errorf("failed to create tags: %w", err)
	}

	authors, err := s.seedAuthors(s.opts.NumAuthors)
	if err != nil {
		return nil, fmt.Errorf("failed to create authors: %w", err)
	}
	res.Authors = len(authors)
	log.Info("seeded authors", slog.Int("count", res.Authors))

	if res.Follows, err = s.seedFollows(ctx, authors); err != nil {
		return nil, fmt.Errorf("failed to create follows: %w", err)
	}
	log.Info("seeded follow graph", slog.Int("edges", res.Follows))

	published, err := s.seedStories(ctx, authors, tags, res)
	if err != nil {
		return nil, fmt.Errorf("failed to create stories: %w", err)
	}
	log.Info("seeded stories", slog.Int("count", res.Stories), slog.Int("published", res.Published))

	if err := s.seedEngagement(ctx, authors, published, res); err != nil {
		return nil, fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Notification{}).Count(&res.Notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	log.Info("seeding completed",
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
		slog.Int("libraries", res.Libraries),
		slog.Int64("notifications", res.Notifications),
	)
	return res, nil
}

// ClearAll deletes every seeded row.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range seedTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) seedTags() ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := s.factory.CreateTag(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) seedAuthors(n int) ([]*models.Author, error) {
	authors := make([]*models.Author, 0, n)
	for i := 0; i < n; i++ {
		author, err := s.factory.CreateAuthor()
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, nil
}

func (s *Seeder) seedFollows(ctx context.Context, authors []*models.Author) (int, error) {
	faker := s.factory.Faker()
	edges := 0
	for _, follower := range authors {
		for _, target := range authors {
			if follower.ID == target.ID || faker.Float64() >= s.opts.FollowRatio {
				continue
			}
			if _, err := s.follows.Follow(ctx, follower.ID, target.ID); err != nil {
				return edges, err
			}
			edges++
		}
	}
	return edges, nil
}

// seedStories creates stories in every status. Roughly a third of the drafts
// are published afterwards so the follower notifications come from a status
// change rather than from creation.
func (s *Seeder) seedStories(ctx context.Context, authors []*models.Author, tags []*models.Tag, res *Result) ([]*models.Story, error) {
	if len(authors) == 0 {
		return nil, nil
	}
	faker := s.factory.Faker()
	var published []*models.Story

	for i := 0; i < s.opts.NumStories; i++ {
		author := authors[faker.Number(0, len(authors)-1)]
		status := pickStatus(faker.Number(1, 100))

		readTime := faker.Number(1, 20)
		story, err := s.stories.CreateStory(ctx, service.CreateStoryInput{
			AuthorID: author.ID,
			Title:    s.factory.StoryTitle(),
			Content:  s.factory.StoryContent(),
			Status:   status,
			ReadTime: &readTime,
			TagIDs:   pickTags(tags, faker.Number(0, 3), faker.Number(0, len(tags)-1)),
		})
		if err != nil {
			return nil, err
		}
		res.Stories++

		if story.Status == models.StoryStatusDraft && faker.Number(1, 3) == 1 {
			next := models.StoryStatusPublished
			story, err = s.stories.UpdateStory(ctx, service.UpdateStoryInput{
				ActorID: author.ID,
				StoryID: story.ID,
				Status:  &next,
			})
			if err != nil {
				return nil, err
			}
		}
		if story.IsPublished() {
			published = append(published, story)
		}
	}
	res.Published = len(published)
	return published, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, authors []*models.Author, published []*models.Story, res *Result) error {
	if len(authors) == 0 {
		return nil
	}
	faker := s.factory.Faker()

	for _, story := range published {
		for _, reader := range authors {
			if reader.ID == story.AuthorID {
				continue
			}
			if faker.Number(1, 4) == 1 {
				if _, err := s.likes.LikeStory(ctx, reader.ID, story.ID); err != nil {
					return err
				}
				res.Likes++
			}
		}

		for c := faker.Number(0, 3); c > 0; c-- {
			commenter := authors[faker.Number(0, len(authors)-1)]
			if _, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
				AuthorID: commenter.ID,
				StoryID:  story.ID,
				Content:  s.factory.CommentContent(),
			}); err != nil {
				return err
			}
			res.Comments++
		}
	}

	for _, owner := range authors {
		private := faker.Bool()
		library, err := s.libraries.CreateLibrary(ctx, service.CreateLibraryInput{
			OwnerID:     owner.ID,
			Name:        "Reading list",
			Description: faker.Sentence(6),
			IsPrivate:   &private,
		})
		if err != nil {
			return err
		}
		res.Libraries++

		added := 0
		for _, story := range published {
			if added == 3 {
				break
			}
			if _, err := s.libraries.AddStory(ctx, owner.ID, library.ID, story.ID); err != nil {
				return err
			}
			added++
		}
	}
	return nil
}

func pickStatus(roll int) models.StoryStatus {
	switch {
	case roll <= 55:
		return models.StoryStatusPublished
	case roll <= 85:
		return models.StoryStatusDraft
	default:
		return models.StoryStatusArchived
	}
}

// pickTags returns n consecutive tag ids starting at start, wrapping around.
func pickTags(tags []*models.Tag, n, start int) []uint {
	if len(tags) == 0 || n <= 0 {
		return nil
	}
	if n > len(tags) {
		n = len(tags)
	}
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, tags[(start+i)%len(tags)].ID)
	}
	return ids
}
