package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// MenuItemRepository handles persistence for menu items.
type MenuItemRepository interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.MenuItem, error)
	List(ctx context.Context, filter MenuItemFilter) ([]domain.MenuItem, error)
}

// MenuItemFilter narrows menu item listings.
type MenuItemFilter struct {
	RestaurantID *int64
	Limit        int
	Offset       int
}

type menuItemRepository struct {
	pool *pgxpool.Pool
}

// NewMenuItemRepository instantiates the repository.
func NewMenuItemRepository(pool *pgxpool.Pool) MenuItemRepository {
	return &menuItemRepository{pool: pool}
}

const menuItemColumns = `menu_item_id, restaurant_id, menu_item_name, description, status, cost, image_url, created_at, updated_at`

func (r *menuItemRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        INSERT INTO menu_items (restaurant_id, menu_item_name, description, status, cost, image_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING menu_item_id, created_at, updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		item.RestaurantID,
		item.Name,
		item.Description,
		string(item.Status),
		item.Cost,
		item.ImageURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt))
}

func (r *menuItemRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        UPDATE menu_items SET menu_item_name=$1, description=$2, status=$3, cost=$4, image_url=$5, updated_at=NOW()
        WHERE menu_item_id=$6`

	return affected(r.pool.Exec(ctx, query,
		item.Name,
		item.Description,
		string(item.Status),
		item.Cost,
		item.ImageURL,
		item.ID,
	))
}

func (r *menuItemRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM menu_items WHERE menu_item_id=$1`, id))
}

func (r *menuItemRepository) GetByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE menu_item_id=$1`
	return scanMenuItem(r.pool.QueryRow(ctx, query, id))
}

func (r *menuItemRepository) List(ctx context.Context, filter MenuItemFilter) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items
        WHERE ($1::BIGINT IS NULL OR restaurant_id=$1)
        ORDER BY menu_item_id
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, filter.RestaurantID, limitOrDefault(filter.Limit), filter.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, mapError(rows.Err())
}

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var (
		item   domain.MenuItem
		status string
	)
	if err := row.Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Description,
		&status,
		&item.Cost,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	item.Status = domain.MenuItemStatus(status)
	return &item, nil
}
