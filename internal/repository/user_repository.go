package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByTelephoneOrUsername(ctx context.Context, key string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

// UserFilter narrows user listings.
type UserFilter struct {
	RestaurantID *int64
	Limit        int
	Offset       int
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `user_id, first_name, last_name, username, telephone, password_hash, role, status,
        restaurant_id, password_reset, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, last_name, username, telephone, password_hash, role, status, restaurant_id, password_reset)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING user_id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		nullIfEmpty(user.Username),
		user.Telephone,
		user.PasswordHash,
		int(user.Role),
		string(user.Status),
		user.RestaurantID,
		user.PasswordReset,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapError(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, username=$3, telephone=$4, password_hash=$5,
            role=$6, status=$7, restaurant_id=$8, password_reset=$9, updated_at=NOW()
        WHERE user_id=$10`

	return affected(r.pool.Exec(ctx, query,
		user.FirstName,
		user.LastName,
		nullIfEmpty(user.Username),
		user.Telephone,
		user.PasswordHash,
		int(user.Role),
		string(user.Status),
		user.RestaurantID,
		user.PasswordReset,
		user.ID,
	))
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM users WHERE user_id=$1`, id))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByTelephoneOrUsername prefers a telephone match over a username match.
func (r *userRepository) GetByTelephoneOrUsername(ctx context.Context, key string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
        WHERE telephone=$1 OR username=$1
        ORDER BY (telephone=$1) DESC
        LIMIT 1`
	return scanUser(r.pool.QueryRow(ctx, query, key))
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
        WHERE ($1::BIGINT IS NULL OR restaurant_id=$1)
        ORDER BY user_id
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, filter.RestaurantID, limitOrDefault(filter.Limit), filter.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, mapError(rows.Err())
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		username *string
		role     int
		status   string
	)
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&username,
		&user.Telephone,
		&user.PasswordHash,
		&role,
		&status,
		&user.RestaurantID,
		&user.PasswordReset,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	user.Username = derefString(username)
	user.Role = domain.Role(role)
	user.Status = domain.UserStatus(status)
	return &user, nil
}
