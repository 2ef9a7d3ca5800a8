package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
	"github.com/iho/pocketledger/internal/usecase/mocks"
)

func TestUserUseCase_CreateUser(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockUserRepository()
	uc := usecase.NewUserUseCase(repo, domain.NewCurrencyRegistry("KZT"), mocks.NewMockIDGenerator())

	user, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		Email: "  Alice@Example.com ",
		Name:  " Alice ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID != "mock-id-1" || user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Fatalf("unexpected user %+v", user)
	}

	if user.Currency != domain.KZT {
		t.Fatalf("expected default currency KZT, got %s", user.Currency)
	}

	stored, err := uc.GetUser(context.Background(), user.ID)
	if err != nil || stored.Email != user.Email {
		t.Fatalf("expected stored user, got %+v (%v)", stored, err)
	}
}

func TestUserUseCase_CreateUserWithCurrency(t *testing.T) {
	t.Parallel()

	uc := usecase.NewUserUseCase(mocks.NewMockUserRepository(), domain.NewCurrencyRegistry("USD"), mocks.NewMockIDGenerator())

	user, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{Email: "bob@example.com", Currency: " rub "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Currency != domain.RUB {
		t.Fatalf("expected RUB, got %s", user.Currency)
	}
}

func TestUserUseCase_CreateUserValidation(t *testing.T) {
	t.Parallel()

	uc := usecase.NewUserUseCase(mocks.NewMockUserRepository(), domain.NewCurrencyRegistry("USD"), mocks.NewMockIDGenerator())

	if _, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{Email: "not-an-email"}); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if _, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{Email: "c@example.com", Currency: "BTC"}); !errors.Is(err, domain.ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
}

func TestUserUseCase_CreateUserRepositoryError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("duplicate email")
	repo := mocks.NewMockUserRepository()
	repo.CreateFunc = func(context.Context, *domain.User) error { return repoErr }

	uc := usecase.NewUserUseCase(repo, domain.NewCurrencyRegistry("USD"), mocks.NewMockIDGenerator())

	if _, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{Email: "d@example.com"}); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestUserUseCase_GetUserNotFound(t *testing.T) {
	t.Parallel()

	uc := usecase.NewUserUseCase(mocks.NewMockUserRepository(), domain.NewCurrencyRegistry("USD"), mocks.NewMockIDGenerator())

	if _, err := uc.GetUser(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
