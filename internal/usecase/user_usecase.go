package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/pocketledger/internal/domain"
)

// UserUseCase handles user registration and lookup.
type UserUseCase struct {
	users    UserRepository
	registry *domain.CurrencyRegistry
	idGen    IDGenerator
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(users UserRepository, registry *domain.CurrencyRegistry, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		users:    users,
		registry: registry,
		idGen:    idGen,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Email    string
	Name     string
	Currency string
}

// CreateUser registers a user. An empty currency selects the registry
// default; an unsupported one is rejected.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	currency := uc.registry.Default()
	if strings.TrimSpace(input.Currency) != "" {
		code, err := uc.registry.Parse(input.Currency)
		if err != nil {
			return nil, err
		}
		currency = code
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Name:      strings.TrimSpace(input.Name),
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}
