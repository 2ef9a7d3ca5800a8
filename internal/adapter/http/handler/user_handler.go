package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/iho/pocketledger/internal/adapter/http/dto"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	users    UserService
	registry *domain.CurrencyRegistry
	tokens   TokenIssuer
}

// NewUserHandler creates a new UserHandler. tokens may be nil when
// bearer auth is disabled.
func NewUserHandler(users UserService, registry *domain.CurrencyRegistry, tokens TokenIssuer) *UserHandler {
	return &UserHandler{users: users, registry: registry, tokens: tokens}
}

// Create registers a user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create user", err)
		return
	}

	resp := dto.UserFromDomain(user, h.registry)
	if h.tokens != nil {
		token, err := h.tokens.Generate(user)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
		} else {
			resp.Token = token
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Me returns the acting user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user, h.registry))
}
