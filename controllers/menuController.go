package controllers

import (
	"net/http"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/catalog"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/gin-gonic/gin"
)

type createMenuRequest struct {
	Category_id string        `json:"category_id" validate:"required"`
	Name        string        `json:"name" validate:"required,min=2,max=100"`
	Description string        `json:"description" validate:"max=500"`
	Price       pricing.Money `json:"price" validate:"min=0"`
	Stock       int           `json:"stock" validate:"min=0"`
}

type updateMenuRequest struct {
	Category_id *string        `json:"category_id"`
	Name        *string        `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=500"`
	Price       *pricing.Money `json:"price" validate:"omitempty,min=0"`
	Is_active   *bool          `json:"is_active"`
}

type menuDiscountRequest struct {
	Discount_percent float64    `json:"discount_percent" validate:"min=0,max=100"`
	Discount_start   *time.Time `json:"discount_start"`
	Discount_end     *time.Time `json:"discount_end"`
	Is_active        *bool      `json:"is_discount_active"`
}

type stockRequest struct {
	Stock  *int   `json:"stock" validate:"required,min=0"`
	Reason string `json:"reason"`
	Notes  string `json:"notes" validate:"max=255"`
}

func (ctl *Controller) GetMenus() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.MenuFilter{
			Category_id:     c.Query("category_id"),
			IncludeInactive: c.Query("include_inactive") == "true",
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		menus, err := ctl.Catalog.ListMenu(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  http.StatusOK,
			"message": "Menu items fetched successfully",
			"data":    menus,
		})
	}
}

func (ctl *Controller) GetMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		menu, err := ctl.Catalog.GetMenuItem(ctx, c.Param("menu_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func (ctl *Controller) CreateMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createMenuRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		item, err := ctl.Catalog.CreateMenuItem(ctx, catalog.MenuInput{
			Category_id: req.Category_id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		}, actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func (ctl *Controller) UpdateMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateMenuRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		menu, err := ctl.Catalog.UpdateMenuItem(ctx, c.Param("menu_id"), catalog.MenuPatch{
			Category_id: req.Category_id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Is_active:   req.Is_active,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func (ctl *Controller) SetMenuDiscount() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuDiscountRequest
		if !bind(c, &req) {
			return
		}
		active := true
		if req.Is_active != nil {
			active = *req.Is_active
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		menu, err := ctl.Catalog.SetDiscount(ctx, c.Param("menu_id"), catalog.DiscountInput{
			Percent: req.Discount_percent,
			Start:   req.Discount_start,
			End:     req.Discount_end,
			Active:  active,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func (ctl *Controller) ClearMenuDiscount() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		menu, err := ctl.Catalog.ClearDiscount(ctx, c.Param("menu_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, menu)
	}
}

func (ctl *Controller) AdjustStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req stockRequest
		if !bind(c, &req) {
			return
		}
		reason, err := models.ParseStockChangeReason(req.Reason)
		if err != nil {
			respondError(c, apperr.New("stock", apperr.KindInvalidInput, req.Reason, err.Error()))
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		change, err := ctl.Catalog.AdjustStock(ctx, c.Param("menu_id"), *req.Stock, reason, req.Notes, actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.Hub.Broadcast(models.EventStockChanged, change)
		c.JSON(http.StatusOK, change)
	}
}

func (ctl *Controller) GetStockHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		history, err := ctl.Catalog.StockHistory(ctx, c.Param("menu_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, history)
	}
}
