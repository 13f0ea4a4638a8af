package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"postboard/internal/auth"
	"postboard/internal/event"
	"postboard/internal/model"
	"postboard/pkg/apierror"
)

type PostService struct {
	posts  PostStore
	users  UserStore
	bus    event.Bus
	maxLen int
	now    func() time.Time
}

func NewPostService(posts PostStore, users UserStore, bus event.Bus, maxLen int) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		bus:    bus,
		maxLen: maxLen,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) Create(ctx context.Context, identity auth.Identity, content string) (model.Post, error) {
	content, err := s.validContent(content)
	if err != nil {
		return model.Post{}, err
	}

	now := s.now()
	post := model.Post{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return model.Post{}, err
	}

	s.bus.Publish(event.New(event.TypePostCreated, identity.UserID, post))
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (model.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// Owned fetches a post and returns it only if identity owns it. A post that
// exists but belongs to someone else yields auth.ErrForbidden.
func (s *PostService) Owned(ctx context.Context, identity auth.Identity, id string) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	if err := auth.Authorize(identity, post.UserID).Err(); err != nil {
		return model.Post{}, err
	}

	return post, nil
}

func (s *PostService) Update(ctx context.Context, identity auth.Identity, id string, content string) (model.Post, error) {
	if _, err := s.Owned(ctx, identity, id); err != nil {
		return model.Post{}, err
	}

	content, err := s.validContent(content)
	if err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.UpdateContent(ctx, id, content, s.now())
	if err != nil {
		return model.Post{}, err
	}

	s.bus.Publish(event.New(event.TypePostUpdated, identity.UserID, post))
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, identity auth.Identity, id string) error {
	if _, err := s.Owned(ctx, identity, id); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypePostDeleted, identity.UserID, map[string]string{"id": id}))
	return nil
}

// ToggleLike needs no ownership: any authenticated user may like any post.
func (s *PostService) ToggleLike(ctx context.Context, identity auth.Identity, id string) (model.LikeResult, error) {
	if identity.UserID == "" {
		return model.LikeResult{}, auth.ErrUnauthenticated
	}

	result, err := s.posts.ToggleLike(ctx, id, identity.UserID)
	if err != nil {
		return model.LikeResult{}, err
	}

	s.bus.Publish(event.New(event.TypePostLiked, identity.UserID, result))
	return result, nil
}

func (s *PostService) Feed(ctx context.Context, identity auth.Identity) ([]model.FeedItem, error) {
	items, err := s.posts.ListFeed(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return items, nil
}

func (s *PostService) Profile(ctx context.Context, identity auth.Identity) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Profile{}, auth.ErrUnauthenticated
	}
	if err != nil {
		return model.Profile{}, err
	}

	posts, err := s.posts.ListByOwner(ctx, user.ID, identity.UserID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("load profile posts: %w", err)
	}

	return model.Profile{User: user, Posts: posts}, nil
}

func (s *PostService) MaxLength() int {
	return s.maxLen
}

func (s *PostService) validContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apierror.BadRequest("post content is required", "")
	}
	if n := utf8.RuneCountInString(content); n > s.maxLen {
		return "", apierror.BadRequest("post content is too long", fmt.Sprintf("%d > %d characters", n, s.maxLen))
	}
	return content, nil
}
