package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

const userColumns = `id, email, name, currency, created_at, updated_at`

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Currency.String(),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrUserExists
	}

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByIDForShare reads the user under FOR SHARE so the row cannot change
// currency until tx ends.
func (r *UserRepository) GetByIDForShare(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	return scanUser(txDB(tx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR SHARE`, id))
}

// GetByIDForUpdate reads the user under FOR UPDATE.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	return scanUser(txDB(tx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

// UpdateCurrency sets the user's base currency.
func (r *UserRepository) UpdateCurrency(
	ctx context.Context,
	tx usecase.Transaction,
	id string,
	currency domain.CurrencyCode,
	updatedAt time.Time,
) error {
	tag, err := txDB(tx).Exec(ctx,
		`UPDATE users SET currency = $2, updated_at = $3 WHERE id = $1`,
		id, currency.String(), updatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		currency string
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&currency,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Currency = domain.CurrencyCode(currency)

	return &user, nil
}
