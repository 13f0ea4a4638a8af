package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"postboard/internal/model"
)

type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) FindByID(ctx context.Context, id string) (model.Post, error) {
	args := m.Called(id)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostStore) Create(ctx context.Context, p model.Post) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPostStore) UpdateContent(ctx context.Context, id string, content string, at time.Time) (model.Post, error) {
	args := m.Called(id, content)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostStore) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostStore) ListFeed(ctx context.Context, viewerID string) ([]model.FeedItem, error) {
	args := m.Called(viewerID)
	return args.Get(0).([]model.FeedItem), args.Error(1)
}

func (m *MockPostStore) ListByOwner(ctx context.Context, ownerID string, viewerID string) ([]model.FeedItem, error) {
	args := m.Called(ownerID, viewerID)
	return args.Get(0).([]model.FeedItem), args.Error(1)
}

func (m *MockPostStore) ToggleLike(ctx context.Context, postID string, userID string) (model.LikeResult, error) {
	args := m.Called(postID, userID)
	return args.Get(0).(model.LikeResult), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) error {
	args := m.Called(u)
	return args.Error(0)
}
