// Package catalog manages categories, menu items, menu discounts and
// audited stock adjustments.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryById(ctx context.Context, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error

	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItemById(ctx context.Context, menuID string) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error

	AdjustStock(ctx context.Context, menuID string, delta int) (int, error)
	RecordStockChange(ctx context.Context, change *models.StockChange) error
	ListStockChanges(ctx context.Context, menuID string) ([]models.StockChange, error)
}

// MenuView is a menu item with its price resolved at read time.
type MenuView struct {
	models.MenuItem
	Final_price        pricing.Money `json:"final_price"`
	Discount_in_effect bool          `json:"discount_in_effect"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func invalid(op, id, msg string) error {
	return apperr.New(op, apperr.KindInvalidInput, id, msg)
}

func lookupErr(op, what, id string, err error) error {
	if apperr.IsNotFound(err) {
		return apperr.New(op, apperr.KindNotFound, id, what+" not found")
	}
	return apperr.Persistence(op, err)
}

// Categories

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	const op = "catalog.CreateCategory"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(op, "", "name is required")
	}
	now := s.now()
	id := primitive.NewObjectID()
	category := &models.Category{
		ID:          id,
		Category_id: id.Hex(),
		Name:        name,
		Description: description,
		Is_active:   true,
		Created_at:  now,
		Updated_at:  now,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return category, nil
}

// CategoryPatch carries the fields to change; nil leaves a field as is.
type CategoryPatch struct {
	Name        *string
	Description *string
	Is_active   *bool
}

func (s *Service) UpdateCategory(ctx context.Context, categoryID string, patch CategoryPatch) (*models.Category, error) {
	const op = "catalog.UpdateCategory"
	category, err := s.repo.GetCategoryById(ctx, categoryID)
	if err != nil {
		return nil, lookupErr(op, "category", categoryID, err)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid(op, categoryID, "name is required")
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.Is_active != nil {
		category.Is_active = *patch.Is_active
	}
	category.Updated_at = s.now()
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, apperr.Persistence("catalog.ListCategories", err)
	}
	return categories, nil
}

// Menu items

type MenuInput struct {
	Category_id string
	Name        string
	Description string
	Price       pricing.Money
	Stock       int
}

// CreateMenuItem adds an active item. Opening stock is recorded as a restock.
func (s *Service) CreateMenuItem(ctx context.Context, in MenuInput, actorID string) (*models.MenuItem, error) {
	const op = "catalog.CreateMenuItem"
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid(op, "", "name is required")
	}
	if in.Price < 0 {
		return nil, invalid(op, "", "price must not be negative")
	}
	if in.Stock < 0 {
		return nil, invalid(op, "", "stock must not be negative")
	}
	if _, err := s.repo.GetCategoryById(ctx, in.Category_id); err != nil {
		return nil, lookupErr(op, "category", in.Category_id, err)
	}

	now := s.now()
	id := primitive.NewObjectID()
	item := &models.MenuItem{
		ID:          id,
		Menu_id:     id.Hex(),
		Category_id: in.Category_id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Is_active:   true,
		Created_at:  now,
		Updated_at:  now,
	}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateMenuItem(ctx, item); err != nil {
			return err
		}
		if item.Stock == 0 {
			return nil
		}
		change := models.NewStockChange(item.Menu_id, actorID, 0, item.Stock, models.ReasonRestock, "opening stock", now)
		return s.repo.RecordStockChange(ctx, &change)
	})
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return item, nil
}

type MenuPatch struct {
	Category_id *string
	Name        *string
	Description *string
	Price       *pricing.Money
	Is_active   *bool
}

// UpdateMenuItem edits the descriptive fields and the base price. Stock is
// changed only through AdjustStock.
func (s *Service) UpdateMenuItem(ctx context.Context, menuID string, patch MenuPatch) (*MenuView, error) {
	const op = "catalog.UpdateMenuItem"
	item, err := s.repo.GetMenuItemById(ctx, menuID)
	if err != nil {
		return nil, lookupErr(op, "menu item", menuID, err)
	}
	if patch.Category_id != nil && *patch.Category_id != item.Category_id {
		if _, err := s.repo.GetCategoryById(ctx, *patch.Category_id); err != nil {
			return nil, lookupErr(op, "category", *patch.Category_id, err)
		}
		item.Category_id = *patch.Category_id
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalid(op, menuID, "name is required")
		}
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, invalid(op, menuID, "price must not be negative")
		}
		item.Price = *patch.Price
	}
	if patch.Is_active != nil {
		item.Is_active = *patch.Is_active
	}
	return s.save(ctx, op, item)
}

// DiscountInput describes a menu discount. Start and End are optional and
// inclusive.
type DiscountInput struct {
	Percent float64
	Start   *time.Time
	End     *time.Time
	Active  bool
}

func (s *Service) SetDiscount(ctx context.Context, menuID string, in DiscountInput) (*MenuView, error) {
	const op = "catalog.SetDiscount"
	if in.Percent < 0 || in.Percent > 100 {
		return nil, invalid(op, menuID, "discount percent must be between 0 and 100")
	}
	if in.Start != nil && in.End != nil && in.Start.After(*in.End) {
		return nil, invalid(op, menuID, "discount start must not be after its end")
	}
	item, err := s.repo.GetMenuItemById(ctx, menuID)
	if err != nil {
		return nil, lookupErr(op, "menu item", menuID, err)
	}
	item.Discount_percent = in.Percent
	item.Discount_start = in.Start
	item.Discount_end = in.End
	item.Is_discount_active = in.Active
	return s.save(ctx, op, item)
}

func (s *Service) ClearDiscount(ctx context.Context, menuID string) (*MenuView, error) {
	const op = "catalog.ClearDiscount"
	item, err := s.repo.GetMenuItemById(ctx, menuID)
	if err != nil {
		return nil, lookupErr(op, "menu item", menuID, err)
	}
	item.Discount_percent = 0
	item.Discount_start = nil
	item.Discount_end = nil
	item.Is_discount_active = false
	return s.save(ctx, op, item)
}

func (s *Service) save(ctx context.Context, op string, item *models.MenuItem) (*MenuView, error) {
	item.Updated_at = s.now()
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	view := s.view(*item)
	return &view, nil
}

func (s *Service) view(item models.MenuItem) MenuView {
	at := s.now()
	return MenuView{MenuItem: item, Final_price: item.FinalPrice(at), Discount_in_effect: item.HasDiscount(at)}
}

func (s *Service) GetMenuItem(ctx context.Context, menuID string) (*MenuView, error) {
	item, err := s.repo.GetMenuItemById(ctx, menuID)
	if err != nil {
		return nil, lookupErr("catalog.GetMenuItem", "menu item", menuID, err)
	}
	view := s.view(*item)
	return &view, nil
}

// ListMenu returns the menu with effective prices. Items in inactive
// categories are hidden unless inactive items are requested.
func (s *Service) ListMenu(ctx context.Context, filter models.MenuFilter) ([]MenuView, error) {
	const op = "catalog.ListMenu"
	items, err := s.repo.ListMenuItems(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	active := map[string]bool{}
	if !filter.IncludeInactive {
		categories, err := s.repo.ListCategories(ctx, false)
		if err != nil {
			return nil, apperr.Persistence(op, err)
		}
		for _, c := range categories {
			active[c.Category_id] = true
		}
	}
	views := make([]MenuView, 0, len(items))
	for _, item := range items {
		if !filter.IncludeInactive && !active[item.Category_id] {
			continue
		}
		views = append(views, s.view(item))
	}
	return views, nil
}

// Stock

// AdjustStock sets the item's stock to newStock and records why.
func (s *Service) AdjustStock(ctx context.Context, menuID string, newStock int, reason models.StockChangeReason, notes, actorID string) (*models.StockChange, error) {
	const op = "catalog.AdjustStock"
	if newStock < 0 {
		return nil, invalid(op, menuID, "stock must not be negative")
	}
	switch reason {
	case models.ReasonOrderReduction, models.ReasonOrderCancellation:
		return nil, invalid(op, menuID, fmt.Sprintf("%q is reserved for orders", reason))
	}

	var recorded *models.StockChange
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetMenuItemById(ctx, menuID)
		if err != nil {
			return lookupErr(op, "menu item", menuID, err)
		}
		delta := newStock - item.Stock
		if delta == 0 {
			return apperr.New(op, apperr.KindPreconditionFailed, menuID, "stock is already at that level")
		}
		previous, err := s.repo.AdjustStock(ctx, menuID, delta)
		if err != nil {
			return err
		}
		change := models.NewStockChange(menuID, actorID, previous, previous+delta, reason, notes, s.now())
		if err := s.repo.RecordStockChange(ctx, &change); err != nil {
			return err
		}
		recorded = &change
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return recorded, nil
}

func (s *Service) StockHistory(ctx context.Context, menuID string) ([]models.StockChange, error) {
	const op = "catalog.StockHistory"
	if _, err := s.repo.GetMenuItemById(ctx, menuID); err != nil {
		return nil, lookupErr(op, "menu item", menuID, err)
	}
	changes, err := s.repo.ListStockChanges(ctx, menuID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return changes, nil
}
