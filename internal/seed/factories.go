// Package seed populates the database with realistic development data.
package seed

import (
	"context"
	"fmt"
	"time"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds and persists fake domain objects. Writes go through
// the repositories so seeded rows pick up the same derivations (slugs,
// excerpts, timestamps) as API traffic.
type Factory struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	tagRepo     repository.TagRepository
	commentRepo repository.CommentRepository

	passwordHash string
}

func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())

	// Every seeded account shares one bcrypt hash; hashing per user
	// makes large seeds unbearably slow.
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	return &Factory{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		postRepo:     repository.NewPostRepository(db),
		tagRepo:      repository.NewTagRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		passwordHash: string(hash),
	}
}

// CreateUser persists a fake user. Overrides run before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	displayName := gofakeit.Name()
	bio := gofakeit.Sentence(10)
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())

	user := &models.User{
		Email:        gofakeit.Email(),
		Username:     fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		PasswordHash: f.passwordHash,
		DisplayName:  &displayName,
		Bio:          &bio,
		AvatarURL:    &avatar,
		IsActive:     true,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.userRepo.Create(context.Background(), user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a fake post for the given author.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID: author.ID,
		Title:    fmt.Sprintf("%s %d", gofakeit.Sentence(5), gofakeit.Number(1, 9999)),
		Content:  gofakeit.Paragraph(3, 5, 12, "\n\n"),
		Status:   models.PostStatusDraft,
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.postRepo.Create(context.Background(), post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateTag persists a fake tag.
func (f *Factory) CreateTag(overrides ...func(*models.Tag)) (*models.Tag, error) {
	description := gofakeit.Sentence(8)
	tag := &models.Tag{
		Name:        fmt.Sprintf("%s-%d", gofakeit.BuzzWord(), gofakeit.Number(1, 999)),
		Description: &description,
	}
	for _, override := range overrides {
		override(tag)
	}

	if err := f.tagRepo.Create(context.Background(), tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// CreateComment persists a fake comment by the given author on the
// given post.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  gofakeit.Sentence(12),
	}
	for _, override := range overrides {
		override(comment)
	}

	if err := f.commentRepo.Create(context.Background(), comment); err != nil {
		return nil, err
	}
	return comment, nil
}
