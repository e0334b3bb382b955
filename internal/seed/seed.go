package seed

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"

	"gorm.io/gorm"
)

// Options controls seed volume.
type Options struct {
	Users           int
	PostsPerUser    int // upper bound; each user gets 1..PostsPerUser posts
	CommentsPerPost int // upper bound; each post gets 0..CommentsPerPost comments
	Tags            int
	Clean           bool
}

// DefaultOptions is a medium-sized development dataset.
func DefaultOptions() Options {
	return Options{
		Users:           15,
		PostsPerUser:    4,
		CommentsPerPost: 5,
		Tags:            10,
		Clean:           true,
	}
}

// Seed populates the database with fake users, posts, tags and
// comments. Roughly two thirds of the posts end up published so list
// filters have something to chew on.
func Seed(db *gorm.DB, opts Options) error {
	if opts.Clean {
		if err := clearData(db); err != nil {
			return err
		}
	}

	f := NewFactory(db)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	tags := make([]*models.Tag, 0, opts.Tags)
	for i := 0; i < opts.Tags; i++ {
		tag, err := f.CreateTag()
		if err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	tagRepo := repository.NewTagRepository(db)
	postRepo := repository.NewPostRepository(db)
	ctx := context.Background()

	var posts []*models.Post
	for _, user := range users {
		numPosts := r.Intn(opts.PostsPerUser) + 1
		for i := 0; i < numPosts; i++ {
			post, err := f.CreatePost(user)
			if err != nil {
				return err
			}

			if r.Float32() < 0.66 {
				status := string(models.PostStatusPublished)
				if _, err := postRepo.Update(ctx, post.ID, models.UpdatePostInput{Status: &status}); err != nil {
					return err
				}
			}

			// 0-3 tags per post
			for _, tag := range pickTags(r, tags, r.Intn(4)) {
				if err := tagRepo.AddToPost(ctx, post.ID, tag.ID); err != nil {
					return err
				}
			}

			posts = append(posts, post)
		}
	}

	commentCount := 0
	for _, post := range posts {
		numComments := r.Intn(opts.CommentsPerPost + 1)
		for i := 0; i < numComments; i++ {
			commenter := users[r.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return err
			}
			commentCount++
		}
	}

	middleware.Logger.Info("Seeding complete",
		slog.Int("users", len(users)),
		slog.Int("posts", len(posts)),
		slog.Int("tags", len(tags)),
		slog.Int("comments", commentCount),
	)
	return nil
}

// clearData wipes domain tables children-first so foreign keys never
// complain.
func clearData(db *gorm.DB) error {
	for _, table := range []string{"comments", "post_tags", "posts", "tags", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func pickTags(r *rand.Rand, tags []*models.Tag, n int) []*models.Tag {
	if n >= len(tags) {
		return tags
	}
	shuffled := make([]*models.Tag, len(tags))
	copy(shuffled, tags)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
