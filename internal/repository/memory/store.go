// Package memory provides in-process implementations of the repository
// interfaces. It backs the service when no Postgres DSN is configured and is
// the store used throughout the tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
)

// Store holds every table behind a single lock, mirroring the foreign key
// behaviour of the SQL schema on deletes.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	seq         map[string]int64
	users       map[int64]domain.User
	restaurants map[int64]domain.Restaurant
	menuItems   map[int64]domain.MenuItem
	orders      map[int64]domain.Order
	resets      map[string]domain.PasswordResetToken
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		seq:         make(map[string]int64),
		users:       make(map[int64]domain.User),
		restaurants: make(map[int64]domain.Restaurant),
		menuItems:   make(map[int64]domain.MenuItem),
		orders:      make(map[int64]domain.Order),
		resets:      make(map[string]domain.PasswordResetToken),
	}
}

// Users returns the credential store view.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Restaurants returns the restaurant store view.
func (s *Store) Restaurants() repository.RestaurantRepository { return restaurantRepo{s} }

// MenuItems returns the menu item store view.
func (s *Store) MenuItems() repository.MenuItemRepository { return menuItemRepo{s} }

// Orders returns the order store view.
func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }

// PasswordResets returns the reset token store view.
func (s *Store) PasswordResets() repository.PasswordResetRepository { return resetRepo{s} }

func (s *Store) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type userRepo struct{ s *Store }

func (r userRepo) uniqueViolation(user *domain.User) error {
	for id, existing := range r.s.users {
		if id == user.ID {
			continue
		}
		if existing.Telephone == user.Telephone {
			return fmt.Errorf("%w: users_telephone_key", repository.ErrDuplicate)
		}
		if user.Username != "" && existing.Username == user.Username {
			return fmt.Errorf("%w: users_username_key", repository.ErrDuplicate)
		}
	}
	return nil
}

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = 0
	if err := r.uniqueViolation(user); err != nil {
		return err
	}
	user.ID = r.s.next("users")
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.uniqueViolation(user); err != nil {
		return err
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	for orderID, order := range r.s.orders {
		if order.UserID == id {
			delete(r.s.orders, orderID)
		}
	}
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (r userRepo) GetByTelephoneOrUsername(_ context.Context, key string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var byUsername *domain.User
	for _, id := range sortedKeys(r.s.users) {
		user := r.s.users[id]
		if user.Telephone == key {
			out := cloneUser(user)
			return &out, nil
		}
		if byUsername == nil && user.Username != "" && user.Username == key {
			out := cloneUser(user)
			byUsername = &out
		}
	}
	if byUsername == nil {
		return nil, repository.ErrNotFound
	}
	return byUsername, nil
}

func (r userRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var users []domain.User
	for _, id := range sortedKeys(r.s.users) {
		user := r.s.users[id]
		if filter.RestaurantID != nil && !user.OwnsRestaurant(*filter.RestaurantID) {
			continue
		}
		users = append(users, cloneUser(user))
	}
	return page(users, filter.Limit, filter.Offset), nil
}

func cloneUser(u domain.User) domain.User {
	if u.RestaurantID != nil {
		id := *u.RestaurantID
		u.RestaurantID = &id
	}
	return u
}

type restaurantRepo struct{ s *Store }

func (r restaurantRepo) Create(_ context.Context, restaurant *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	restaurant.ID = r.s.next("restaurants")
	restaurant.CreatedAt = r.s.now()
	restaurant.UpdatedAt = restaurant.CreatedAt
	r.s.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r restaurantRepo) Update(_ context.Context, restaurant *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.restaurants[restaurant.ID]
	if !ok {
		return repository.ErrNotFound
	}
	restaurant.CreatedAt = existing.CreatedAt
	restaurant.UpdatedAt = r.s.now()
	r.s.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r restaurantRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.restaurants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.restaurants, id)
	for itemID, item := range r.s.menuItems {
		if item.RestaurantID == id {
			delete(r.s.menuItems, itemID)
		}
	}
	for orderID, order := range r.s.orders {
		if order.RestaurantID == id {
			delete(r.s.orders, orderID)
		}
	}
	for userID, user := range r.s.users {
		if user.OwnsRestaurant(id) {
			user.RestaurantID = nil
			r.s.users[userID] = user
		}
	}
	return nil
}

func (r restaurantRepo) GetByID(_ context.Context, id int64) (*domain.Restaurant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	restaurant, ok := r.s.restaurants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &restaurant, nil
}

func (r restaurantRepo) List(_ context.Context, limit, offset int) ([]domain.Restaurant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var restaurants []domain.Restaurant
	for _, id := range sortedKeys(r.s.restaurants) {
		restaurants = append(restaurants, r.s.restaurants[id])
	}
	return page(restaurants, limit, offset), nil
}

type menuItemRepo struct{ s *Store }

func (r menuItemRepo) Create(_ context.Context, item *domain.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.restaurants[item.RestaurantID]; !ok {
		return fmt.Errorf("menu item restaurant %d: %w", item.RestaurantID, repository.ErrNotFound)
	}
	item.ID = r.s.next("menu_items")
	item.CreatedAt = r.s.now()
	item.UpdatedAt = item.CreatedAt
	r.s.menuItems[item.ID] = *item
	return nil
}

func (r menuItemRepo) Update(_ context.Context, item *domain.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.menuItems[item.ID]
	if !ok {
		return repository.ErrNotFound
	}
	item.RestaurantID = existing.RestaurantID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = r.s.now()
	r.s.menuItems[item.ID] = *item
	return nil
}

func (r menuItemRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menuItems[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.menuItems, id)
	for orderID, order := range r.s.orders {
		if order.MenuItemID == id {
			delete(r.s.orders, orderID)
		}
	}
	return nil
}

func (r menuItemRepo) GetByID(_ context.Context, id int64) (*domain.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.menuItems[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r menuItemRepo) List(_ context.Context, filter repository.MenuItemFilter) ([]domain.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []domain.MenuItem
	for _, id := range sortedKeys(r.s.menuItems) {
		item := r.s.menuItems[id]
		if filter.RestaurantID != nil && item.RestaurantID != *filter.RestaurantID {
			continue
		}
		items = append(items, item)
	}
	return page(items, filter.Limit, filter.Offset), nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[order.UserID]; !ok {
		return fmt.Errorf("order user %d: %w", order.UserID, repository.ErrNotFound)
	}
	if _, ok := r.s.menuItems[order.MenuItemID]; !ok {
		return fmt.Errorf("order menu item %d: %w", order.MenuItemID, repository.ErrNotFound)
	}
	order.ID = r.s.next("orders")
	order.CreatedAt = r.s.now()
	order.UpdatedAt = order.CreatedAt
	r.s.orders[order.ID] = *order
	return nil
}

func (r orderRepo) Update(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Quantity = order.Quantity
	existing.Status = order.Status
	existing.UpdatedAt = r.s.now()
	r.s.orders[order.ID] = existing
	*order = existing
	return nil
}

func (r orderRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &order, nil
}

func (r orderRepo) List(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var orders []domain.Order
	for _, id := range sortedKeys(r.s.orders) {
		order := r.s.orders[id]
		if filter.RestaurantID != nil && order.RestaurantID != *filter.RestaurantID {
			continue
		}
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		orders = append(orders, order)
	}
	return page(orders, filter.Limit, filter.Offset), nil
}

type resetRepo struct{ s *Store }

func (r resetRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.resets[token.Token]; exists {
		return repository.ErrDuplicate
	}
	r.s.resets[token.Token] = *token
	return nil
}

func (r resetRepo) Consume(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.resets[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.resets, token)
	if stored.Expired(r.s.now()) {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}
