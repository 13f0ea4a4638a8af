package service

import (
	"context"
	"time"

	"postboard/internal/model"
)

// UserStore is the user half of the storage collaborator. Lookups by email
// are case-insensitive; Create reports model.ErrUserAlreadyExists for a
// duplicate email.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, u model.User) error
}

// PostStore is the post half of the storage collaborator. It owns the
// atomicity of its own mutations, ToggleLike in particular.
type PostStore interface {
	FindByID(ctx context.Context, id string) (model.Post, error)
	Create(ctx context.Context, p model.Post) error
	UpdateContent(ctx context.Context, id string, content string, at time.Time) (model.Post, error)
	Delete(ctx context.Context, id string) error
	ListFeed(ctx context.Context, viewerID string) ([]model.FeedItem, error)
	ListByOwner(ctx context.Context, ownerID string, viewerID string) ([]model.FeedItem, error)
	ToggleLike(ctx context.Context, postID string, userID string) (model.LikeResult, error)
}
