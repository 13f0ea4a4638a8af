package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"postboard/internal/model"
)

// MemoryStore keeps users, posts and likes in process memory. It backs the
// memory storage driver and the HTTP tests; all state is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.User
	// lower-cased email -> user id
	emails map[string]string
	posts  map[string]model.Post
	// post id -> set of user ids
	likes map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]model.User),
		emails: make(map[string]string),
		posts:  make(map[string]model.Post),
		likes:  make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository {
	return &MemoryUserRepository{store: s}
}

func (s *MemoryStore) Posts() *MemoryPostRepository {
	return &MemoryPostRepository{store: s}
}

type MemoryUserRepository struct {
	store *MemoryStore
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.emails[normalizeEmail(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return r.store.users[id], nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, u model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := normalizeEmail(u.Email)
	if _, exists := r.store.emails[key]; exists {
		return model.ErrUserAlreadyExists
	}
	if _, exists := r.store.users[u.ID]; exists {
		return model.ErrUserAlreadyExists
	}

	r.store.users[u.ID] = u
	r.store.emails[key] = u.ID
	return nil
}

type MemoryPostRepository struct {
	store *MemoryStore
}

func (r *MemoryPostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	if err := ctx.Err(); err != nil {
		return model.Post{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	return p, nil
}

func (r *MemoryPostRepository) Create(ctx context.Context, p model.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[p.UserID]; !ok {
		return model.ErrUserNotFound
	}
	r.store.posts[p.ID] = p
	return nil
}

func (r *MemoryPostRepository) UpdateContent(ctx context.Context, id string, content string, at time.Time) (model.Post, error) {
	if err := ctx.Err(); err != nil {
		return model.Post{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	p.Content = content
	p.UpdatedAt = at
	r.store.posts[id] = p
	return p, nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(r.store.posts, id)
	delete(r.store.likes, id)
	return nil
}

func (r *MemoryPostRepository) ListFeed(ctx context.Context, viewerID string) ([]model.FeedItem, error) {
	return r.list(ctx, viewerID, func(model.Post) bool { return true })
}

func (r *MemoryPostRepository) ListByOwner(ctx context.Context, ownerID string, viewerID string) ([]model.FeedItem, error) {
	return r.list(ctx, viewerID, func(p model.Post) bool { return p.UserID == ownerID })
}

func (r *MemoryPostRepository) ToggleLike(ctx context.Context, postID string, userID string) (model.LikeResult, error) {
	if err := ctx.Err(); err != nil {
		return model.LikeResult{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.posts[postID]; !ok {
		return model.LikeResult{}, model.ErrPostNotFound
	}

	set := r.store.likes[postID]
	if set == nil {
		set = make(map[string]struct{})
		r.store.likes[postID] = set
	}

	result := model.LikeResult{PostID: postID}
	if _, liked := set[userID]; liked {
		delete(set, userID)
	} else {
		set[userID] = struct{}{}
		result.Liked = true
	}
	result.LikeCount = len(set)
	return result, nil
}

func (r *MemoryPostRepository) list(ctx context.Context, viewerID string, keep func(model.Post) bool) ([]model.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := make([]model.FeedItem, 0, len(r.store.posts))
	for _, p := range r.store.posts {
		if !keep(p) {
			continue
		}

		likes := r.store.likes[p.ID]
		_, liked := likes[viewerID]
		items = append(items, model.FeedItem{
			Post:      p,
			Author:    r.store.users[p.UserID].Public(),
			LikeCount: len(likes),
			Liked:     liked,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
