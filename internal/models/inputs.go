package models

// Request input types. Validation rules live in the struct tags and are
// enforced by internal/validation before any repository call. Update
// inputs use pointer fields so that absent and empty values can be told
// apart for partial patches.

// CreateUserInput is the body of POST /api/users.
type CreateUserInput struct {
	Email        string  `json:"email" validate:"required,email"`
	Username     string  `json:"username" validate:"required,username"`
	PasswordHash string  `json:"password_hash" validate:"required"`
	DisplayName  *string `json:"display_name" validate:"omitempty,max=100"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateUserInput is the body of PATCH /api/users/:id. All fields are
// optional; only present fields are applied.
type UpdateUserInput struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

// CreatePostInput is the body of POST /api/posts. TagIDs sits outside
// the validated schema: associations are applied best-effort after the
// insert and a bad tag ID never fails the request.
type CreatePostInput struct {
	AuthorID string   `json:"author_id" validate:"required,uuid"`
	Title    string   `json:"title" validate:"required,max=255"`
	Content  string   `json:"content" validate:"required"`
	Excerpt  *string  `json:"excerpt" validate:"omitempty,max=500"`
	Status   string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	TagIDs   []string `json:"tag_ids" validate:"-"`
}

// UpdatePostInput is the body of PATCH /api/posts/:id.
type UpdatePostInput struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Excerpt *string `json:"excerpt" validate:"omitempty,max=500"`
	Status  *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// CreateCommentInput is the body of POST /api/posts/:id/comments. The
// route injects PostID from the path, overriding any client value.
type CreateCommentInput struct {
	PostID   string  `json:"post_id" validate:"required,uuid"`
	AuthorID string  `json:"author_id" validate:"required,uuid"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
	Content  string  `json:"content" validate:"required,max=5000"`
}

// UpdateCommentInput is the body of PUT /api/posts/:id/comments/:commentId.
type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CreateTagInput is the body of POST /api/tags.
type CreateTagInput struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}
