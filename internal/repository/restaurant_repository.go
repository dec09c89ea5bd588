package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// RestaurantRepository handles persistence for restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	Update(ctx context.Context, restaurant *domain.Restaurant) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context, limit, offset int) ([]domain.Restaurant, error)
}

type restaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository instantiates the repository.
func NewRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &restaurantRepository{pool: pool}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	const query = `
        INSERT INTO restaurants (restaurant_name, image_url, status)
        VALUES ($1, $2, $3)
        RETURNING restaurant_id, created_at, updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		restaurant.Name,
		restaurant.ImageURL,
		string(restaurant.Status),
	).Scan(&restaurant.ID, &restaurant.CreatedAt, &restaurant.UpdatedAt))
}

func (r *restaurantRepository) Update(ctx context.Context, restaurant *domain.Restaurant) error {
	const query = `
        UPDATE restaurants SET restaurant_name=$1, image_url=$2, status=$3, updated_at=NOW()
        WHERE restaurant_id=$4`

	return affected(r.pool.Exec(ctx, query,
		restaurant.Name,
		restaurant.ImageURL,
		string(restaurant.Status),
		restaurant.ID,
	))
}

func (r *restaurantRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM restaurants WHERE restaurant_id=$1`, id))
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	const query = `
        SELECT restaurant_id, restaurant_name, image_url, status, created_at, updated_at
        FROM restaurants WHERE restaurant_id=$1`
	return scanRestaurant(r.pool.QueryRow(ctx, query, id))
}

func (r *restaurantRepository) List(ctx context.Context, limit, offset int) ([]domain.Restaurant, error) {
	const query = `
        SELECT restaurant_id, restaurant_name, image_url, status, created_at, updated_at
        FROM restaurants ORDER BY restaurant_id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limitOrDefault(limit), offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *restaurant)
	}
	return restaurants, mapError(rows.Err())
}

func scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	var (
		restaurant domain.Restaurant
		status     string
	)
	if err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.ImageURL,
		&status,
		&restaurant.CreatedAt,
		&restaurant.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	restaurant.Status = domain.RestaurantStatus(status)
	return &restaurant, nil
}
