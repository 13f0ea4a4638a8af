package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"postboard/internal/auth"
	"postboard/internal/event"
	"postboard/internal/model"
	"postboard/pkg/apierror"
)

type AuthService struct {
	users        UserStore
	hasher       *auth.PasswordHasher
	codec        *auth.TokenCodec
	bus          event.Bus
	defaultImage string
	// dummyHash is compared against when the email is unknown so both login
	// failure paths cost one bcrypt comparison.
	dummyHash string
	now       func() time.Time
}

func NewAuthService(users UserStore, hasher *auth.PasswordHasher, codec *auth.TokenCodec, bus event.Bus, defaultImage string) (*AuthService, error) {
	dummy, err := hasher.Hash(context.Background(), uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy credential: %w", err)
	}

	return &AuthService{
		users:        users,
		hasher:       hasher,
		codec:        codec,
		bus:          bus,
		defaultImage: defaultImage,
		dummyHash:    dummy,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)

	if email == "" || req.Password == "" {
		return model.Session{}, apierror.BadRequest("email and password are required", "")
	}
	if req.Age < 0 {
		return model.Session{}, apierror.BadRequest("age must not be negative", "")
	}
	if username == "" {
		username = email[:strings.IndexByte(email+"@", '@')]
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return model.Session{}, model.ErrUserAlreadyExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return model.Session{}, err
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return model.Session{}, apierror.BadRequest("password is too long", "at most 72 bytes")
	}
	if err != nil {
		return model.Session{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Name:         name,
		Email:        email,
		Age:          req.Age,
		PasswordHash: hash,
		ProfileImage: s.defaultImage,
		CreatedAt:    s.now(),
	}

	// The store enforces email uniqueness, which settles concurrent
	// registrations that both passed the lookup above.
	if err := s.users.Create(ctx, user); err != nil {
		return model.Session{}, err
	}

	s.bus.Publish(event.New(event.TypeUserJoined, user.ID, user.Public()))

	return s.issue(user)
}

// Login returns model.ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return model.Session{}, model.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		_, _ = s.hasher.Verify(ctx, req.Password, s.dummyHash)
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, err
	}

	ok, err := s.hasher.Verify(ctx, req.Password, user.PasswordHash)
	if err != nil {
		return model.Session{}, fmt.Errorf("verify credentials for user %s: %w", user.ID, err)
	}
	if !ok {
		return model.Session{}, model.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me loads the user behind a verified identity. A token whose user no longer
// exists is treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, identity auth.Identity) (model.User, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, auth.ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.codec.TTL()
}

func (s *AuthService) issue(user model.User) (model.Session, error) {
	token, err := s.codec.Issue(auth.Identity{
		Email:    user.Email,
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("issue session token: %w", err)
	}

	return model.Session{Token: token, User: user}, nil
}
