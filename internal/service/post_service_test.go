package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"postboard/internal/auth"
	"postboard/internal/event"
	"postboard/internal/model"
	"postboard/internal/repository"
	"postboard/pkg/apierror"
)

var (
	alice = auth.Identity{Email: "a@x.com", UserID: "alice", Username: "alice"}
	bob   = auth.Identity{Email: "b@x.com", UserID: "bob", Username: "bob"}
)

func newMemoryPostService(t *testing.T) (*PostService, *event.InMemoryBus) {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, model.User{ID: "alice", Username: "alice", Email: "a@x.com"}))
	require.NoError(t, store.Users().Create(ctx, model.User{ID: "bob", Username: "bob", Email: "b@x.com"}))

	bus := event.NewBus()
	return NewPostService(store.Posts(), store.Users(), bus, 20), bus
}

func TestPostService_CreateValidatesContent(t *testing.T) {
	svc, _ := newMemoryPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, alice, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, "alice", post.UserID)

	for name, content := range map[string]string{
		"blank":    "   ",
		"too long": strings.Repeat("é", 21),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice, content)
			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "BAD_REQUEST", apiErr.Code)
		})
	}

	_, err = svc.Create(ctx, alice, strings.Repeat("é", 20))
	require.NoError(t, err)
}

func TestPostService_OwnerMayEditAndDelete(t *testing.T) {
	svc, bus := newMemoryPostService(t)
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	ctx := context.Background()

	post, err := svc.Create(ctx, alice, "v1")
	require.NoError(t, err)

	got, err := svc.Owned(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	updated, err := svc.Update(ctx, alice, post.ID, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	assert.Equal(t, "alice", updated.UserID)

	require.NoError(t, svc.Delete(ctx, alice, post.ID))
	_, err = svc.Get(ctx, post.ID)
	require.ErrorIs(t, err, model.ErrPostNotFound)

	var types []event.Type
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Equal(t, []event.Type{event.TypePostCreated, event.TypePostUpdated, event.TypePostDeleted}, types)
}

func TestPostService_NonOwnerIsForbiddenBeforeMutation(t *testing.T) {
	posts := new(MockPostStore)
	svc := NewPostService(posts, new(MockUserStore), event.NewBus(), 100)
	ctx := context.Background()

	posts.On("FindByID", "p1").Return(model.Post{ID: "p1", UserID: "alice", Content: "mine"}, nil)

	_, err := svc.Owned(ctx, bob, "p1")
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.Update(ctx, bob, "p1", "hijacked")
	require.ErrorIs(t, err, auth.ErrForbidden)

	err = svc.Delete(ctx, bob, "p1")
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.Update(ctx, auth.Identity{Email: "x@x.com"}, "p1", "no id")
	require.ErrorIs(t, err, auth.ErrForbidden)

	posts.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything)
	posts.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestPostService_MissingPostIsNotFound(t *testing.T) {
	svc, _ := newMemoryPostService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, alice, "missing", "x")
	require.ErrorIs(t, err, model.ErrPostNotFound)

	err = svc.Delete(ctx, alice, "missing")
	require.ErrorIs(t, err, model.ErrPostNotFound)

	_, err = svc.ToggleLike(ctx, alice, "missing")
	require.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostService_LikesFeedAndProfile(t *testing.T) {
	svc, _ := newMemoryPostService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, alice, "first")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().UTC().Add(time.Minute) }
	second, err := svc.Create(ctx, bob, "second")
	require.NoError(t, err)

	res, err := svc.ToggleLike(ctx, bob, first.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikeCount)

	feed, err := svc.Feed(ctx, bob)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second.ID, feed[0].ID)
	assert.True(t, feed[1].Liked)

	profile, err := svc.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.ID)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, first.ID, profile.Posts[0].ID)
	assert.False(t, profile.Posts[0].Liked)

	_, err = svc.Profile(ctx, auth.Identity{Email: "g@x.com", UserID: "ghost"})
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}
