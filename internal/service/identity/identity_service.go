package identity

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type IdentityUseCase interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (bool, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type IdentityService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

func NewIdentityService(users repository.UserRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{
		users:  users,
		logger: logger.With().Str("component", "identity").Logger(),
	}
}

func (s *IdentityService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrInvalidArgument)
	}
	if password == "" {
		return nil, fmt.Errorf("password is required: %w", domain.ErrInvalidArgument)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s already registered: %w", email, domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate reports whether the credentials match. An unknown email or a
// wrong password both return false without an error.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

var _ IdentityUseCase = (*IdentityService)(nil)
