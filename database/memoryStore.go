package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
)

type memData struct {
	users        map[string]models.User
	categories   map[string]models.Category
	menus        map[string]models.MenuItem
	orders       map[string]models.Order
	details      map[string][]models.OrderDetail
	payments     map[string][]models.Payment
	stockChanges []models.StockChange
	counters     map[string]int
	setting      *models.Setting
}

func newMemData() memData {
	return memData{
		users:      map[string]models.User{},
		categories: map[string]models.Category{},
		menus:      map[string]models.MenuItem{},
		orders:     map[string]models.Order{},
		details:    map[string][]models.OrderDetail{},
		payments:   map[string][]models.Payment{},
		counters:   map[string]int{},
	}
}

func (d memData) clone() memData {
	c := newMemData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.menus {
		c.menus[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.details {
		c.details[k] = append([]models.OrderDetail(nil), v...)
	}
	for k, v := range d.payments {
		c.payments[k] = append([]models.Payment(nil), v...)
	}
	c.stockChanges = append([]models.StockChange(nil), d.stockChanges...)
	for k, v := range d.counters {
		c.counters[k] = v
	}
	if d.setting != nil {
		setting := *d.setting
		c.setting = &setting
	}
	return c
}

// MemoryStore keeps everything in process. Transactions are serialized and
// roll back to a snapshot when fn fails. Used by tests and by the server
// when no MONGODB_URL is configured.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data memData
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemData(), now: time.Now}
}

func (m *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	snapshot := m.data.clone()
	m.mu.RUnlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.data = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func notFound(op, id string) error {
	return apperr.New(op, apperr.KindNotFound, id, "")
}

// Categories and menu

func (m *MemoryStore) CreateCategory(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.categories[category.Category_id]; ok {
		return fmt.Errorf("duplicate category_id %s", category.Category_id)
	}
	m.data.categories[category.Category_id] = *category
	return nil
}

func (m *MemoryStore) GetCategoryById(_ context.Context, categoryID string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.data.categories[categoryID]
	if !ok {
		return nil, notFound("database.GetCategoryById", categoryID)
	}
	return &category, nil
}

func (m *MemoryStore) ListCategories(_ context.Context, includeInactive bool) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	categories := []models.Category{}
	for _, c := range m.data.categories {
		if includeInactive || c.Is_active {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MemoryStore) UpdateCategory(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.data.categories[category.Category_id]
	if !ok {
		return notFound("database.UpdateCategory", category.Category_id)
	}
	existing.Name = category.Name
	existing.Description = category.Description
	existing.Is_active = category.Is_active
	existing.Updated_at = category.Updated_at
	m.data.categories[category.Category_id] = existing
	return nil
}

func (m *MemoryStore) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.menus[item.Menu_id]; ok {
		return fmt.Errorf("duplicate menu_id %s", item.Menu_id)
	}
	m.data.menus[item.Menu_id] = *item
	return nil
}

func (m *MemoryStore) GetMenuItemById(_ context.Context, menuID string) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.data.menus[menuID]
	if !ok {
		return nil, notFound("database.GetMenuItemById", menuID)
	}
	return &item, nil
}

func (m *MemoryStore) ListMenuItems(_ context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := []models.MenuItem{}
	for _, item := range m.data.menus {
		if filter.Category_id != "" && item.Category_id != filter.Category_id {
			continue
		}
		if !filter.IncludeInactive && !item.Is_active {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *MemoryStore) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.data.menus[item.Menu_id]
	if !ok {
		return notFound("database.UpdateMenuItem", item.Menu_id)
	}
	updated := *item
	updated.ID = existing.ID
	updated.Stock = existing.Stock
	updated.Created_at = existing.Created_at
	m.data.menus[item.Menu_id] = updated
	return nil
}

func (m *MemoryStore) AdjustStock(_ context.Context, menuID string, delta int) (int, error) {
	const op = "database.AdjustStock"
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.data.menus[menuID]
	if !ok {
		return 0, apperr.New(op, apperr.KindNotFound, menuID, "menu item not found")
	}
	if item.Stock+delta < 0 {
		return 0, apperr.New(op, apperr.KindInsufficientStock, menuID, fmt.Sprintf("cannot take %d from stock", -delta))
	}
	previous := item.Stock
	item.Stock += delta
	item.Updated_at = m.now()
	m.data.menus[menuID] = item
	return previous, nil
}

func (m *MemoryStore) RecordStockChange(_ context.Context, change *models.StockChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.stockChanges = append(m.data.stockChanges, *change)
	return nil
}

// ListStockChanges returns the newest change first.
func (m *MemoryStore) ListStockChanges(_ context.Context, menuID string) ([]models.StockChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	changes := []models.StockChange{}
	for i := len(m.data.stockChanges) - 1; i >= 0; i-- {
		if c := m.data.stockChanges[i]; c.Menu_id == menuID {
			changes = append(changes, c)
		}
	}
	return changes, nil
}

// Orders and payments

func (m *MemoryStore) NextOrderNumber(_ context.Context, day time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := day.Format("20060102")
	m.data.counters[key]++
	return FormatOrderNumber(day, m.data.counters[key]), nil
}

func (m *MemoryStore) CreateOrder(_ context.Context, order *models.Order, details []models.OrderDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.orders[order.Order_id]; ok {
		return fmt.Errorf("duplicate order_id %s", order.Order_id)
	}
	m.data.orders[order.Order_id] = *order
	m.data.details[order.Order_id] = append([]models.OrderDetail(nil), details...)
	return nil
}

func (m *MemoryStore) GetOrderById(_ context.Context, orderID string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.data.orders[orderID]
	if !ok {
		return nil, notFound("database.GetOrderById", orderID)
	}
	return &order, nil
}

func (m *MemoryStore) GetOrderDetails(_ context.Context, orderID string) ([]models.OrderDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.OrderDetail{}, m.data.details[orderID]...), nil
}

// ListOrders returns the newest order first.
func (m *MemoryStore) ListOrders(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := []models.Order{}
	for _, o := range m.data.orders {
		o := o
		if filter.Matches(&o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Order_date.Equal(orders[j].Order_date) {
			return orders[i].Order_number > orders[j].Order_number
		}
		return orders[i].Order_date.After(orders[j].Order_date)
	})
	if filter.Limit > 0 && int64(len(orders)) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (m *MemoryStore) UpdateOrderStatus(_ context.Context, orderID string, status models.OrderStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.data.orders[orderID]
	if !ok {
		return notFound("database.UpdateOrderStatus", orderID)
	}
	order.Status = status
	order.Updated_at = at
	m.data.orders[orderID] = order
	return nil
}

func (m *MemoryStore) DailySummary(_ context.Context, from, to time.Time) (models.DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	filter := models.OrderFilter{From: from, To: to}
	var summary models.DailySummary
	for _, o := range m.data.orders {
		o := o
		if !filter.Matches(&o) {
			continue
		}
		if o.Status == models.StatusCanceled {
			summary.Canceled_orders++
			continue
		}
		if o.Status != models.StatusCompleted {
			continue
		}
		summary.Completed_orders++
		summary.Gross_sales += o.Total_amount
		summary.Tax_collected += o.Tax_amount
		summary.Discounts_given += o.Discount_amount + o.Menu_discount_total
	}
	return summary, nil
}

func (m *MemoryStore) CreatePayment(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.payments[payment.Order_id] = append(m.data.payments[payment.Order_id], *payment)
	return nil
}

func (m *MemoryStore) ListPayments(_ context.Context, orderID string) ([]models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Payment{}, m.data.payments[orderID]...), nil
}

// Users and settings

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.users[user.User_id] = *user
	return nil
}

func (m *MemoryStore) GetUserById(_ context.Context, userID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.data.users[userID]
	if !ok {
		return nil, notFound("database.GetUserById", userID)
	}
	return &user, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.data.users {
		if u.Email != nil && *u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("database.GetUserByEmail", email)
}

func (m *MemoryStore) CountUsersWith(_ context.Context, email, phone string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, u := range m.data.users {
		if (u.Email != nil && *u.Email == email) || (u.Phone != nil && *u.Phone == phone) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []models.User{}
	for _, u := range m.data.users {
		u.Password, u.Token, u.Refresh_Token = nil, nil, nil
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Created_at.Before(users[j].Created_at) })
	return users, nil
}

func (m *MemoryStore) UpdateAllTokens(_ context.Context, userID, token, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.data.users[userID]
	if !ok {
		return notFound("database.UpdateAllTokens", userID)
	}
	user.Token, user.Refresh_Token = &token, &refreshToken
	user.Updated_at = m.now().UTC().Truncate(time.Second)
	m.data.users[userID] = user
	return nil
}

func (m *MemoryStore) GetSettings(_ context.Context) (*models.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data.setting == nil {
		return nil, notFound("database.GetSettings", settingID)
	}
	setting := *m.data.setting
	return &setting, nil
}

func (m *MemoryStore) SaveSettings(_ context.Context, setting *models.Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *setting
	m.data.setting = &saved
	return nil
}

// StockChanges returns every audit entry in insertion order.
func (m *MemoryStore) StockChanges() []models.StockChange {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.StockChange(nil), m.data.stockChanges...)
}

// OrderCount is the number of persisted orders.
func (m *MemoryStore) OrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data.orders)
}

// DeleteMenuItem drops an item outright. The API only deactivates items;
// tests use this to simulate an item removed behind a cart's back.
func (m *MemoryStore) DeleteMenuItem(menuID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data.menus, menuID)
}
