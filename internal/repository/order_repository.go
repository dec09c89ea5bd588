package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// OrderRepository handles persistence for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
}

// OrderFilter narrows order listings. Nil fields do not filter.
type OrderFilter struct {
	RestaurantID *int64
	UserID       *int64
	Status       *domain.OrderStatus
	Limit        int
	Offset       int
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates the repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `order_id, user_id, restaurant_id, menu_item_id, quantity, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (user_id, restaurant_id, menu_item_id, quantity, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING order_id, created_at, updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		order.UserID,
		order.RestaurantID,
		order.MenuItemID,
		order.Quantity,
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt))
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET quantity=$1, status=$2, updated_at=NOW()
        WHERE order_id=$3`

	return affected(r.pool.Exec(ctx, query, order.Quantity, string(order.Status), order.ID))
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM orders WHERE order_id=$1`, id))
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
        WHERE ($1::BIGINT IS NULL OR restaurant_id=$1)
          AND ($2::BIGINT IS NULL OR user_id=$2)
          AND ($3::TEXT IS NULL OR status=$3)
        ORDER BY order_id
        LIMIT $4 OFFSET $5`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.pool.Query(ctx, query, filter.RestaurantID, filter.UserID, status, limitOrDefault(filter.Limit), filter.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, mapError(rows.Err())
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.RestaurantID,
		&order.MenuItemID,
		&order.Quantity,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}
