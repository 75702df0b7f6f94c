// Package settings serves the restaurant identity and the order-level rates.
// Stored settings override the environment defaults.
package settings

import (
	"context"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"
)

type Store interface {
	GetSettings(ctx context.Context) (*models.Setting, error)
	SaveSettings(ctx context.Context, setting *models.Setting) error
}

type Service struct {
	store    Store
	defaults models.Setting
	now      func() time.Time
}

func NewService(store Store, defaults models.Setting) *Service {
	return &Service{store: store, defaults: defaults, now: time.Now}
}

// Current returns the stored settings, or the defaults when none were saved.
func (s *Service) Current(ctx context.Context) (models.Setting, error) {
	setting, err := s.store.GetSettings(ctx)
	if err != nil {
		if apperr.IsNotFound(err) {
			return s.defaults, nil
		}
		return models.Setting{}, apperr.Persistence("settings.Current", err)
	}
	current := *setting
	current.Tax_percent = s.defaults.Tax_percent
	return current, nil
}

func (s *Service) Rates(ctx context.Context) (pricing.Rates, error) {
	setting, err := s.Current(ctx)
	if err != nil {
		return pricing.Rates{}, err
	}
	return setting.Rates(), nil
}

// Identity is the header printed on receipts.
type Identity struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (s *Service) Identity(ctx context.Context) (Identity, error) {
	setting, err := s.Current(ctx)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Name: setting.Restaurant_name, Address: setting.Restaurant_address, Phone: setting.Restaurant_phone}, nil
}

// Save stores the editable fields. The tax percent always comes from the
// boot configuration.
func (s *Service) Save(ctx context.Context, update models.Setting) (models.Setting, error) {
	const op = "settings.Save"
	if update.Order_discount_percent < 0 || update.Order_discount_percent > 100 {
		return models.Setting{}, apperr.New(op, apperr.KindInvalidInput, "", "order_discount_percent must be between 0 and 100")
	}
	if update.Discount_min_amount < 0 {
		return models.Setting{}, apperr.New(op, apperr.KindInvalidInput, "", "discount_min_amount must not be negative")
	}
	update.Tax_percent = s.defaults.Tax_percent
	update.Updated_at = s.now()
	if err := s.store.SaveSettings(ctx, &update); err != nil {
		return models.Setting{}, apperr.Persistence(op, err)
	}
	return update, nil
}
