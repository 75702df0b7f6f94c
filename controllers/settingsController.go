package controllers

import (
	"net/http"

	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/gin-gonic/gin"
)

type settingsRequest struct {
	Restaurant_name        string        `json:"restaurant_name" validate:"required,max=100"`
	Restaurant_address     string        `json:"restaurant_address" validate:"max=255"`
	Restaurant_phone       string        `json:"restaurant_phone" validate:"max=30"`
	Order_discount_percent float64       `json:"order_discount_percent" validate:"min=0,max=100"`
	Discount_min_amount    pricing.Money `json:"discount_min_amount" validate:"min=0"`
	Enforce_min_amount     bool          `json:"enforce_min_amount"`
}

func (ctl *Controller) GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		current, err := ctl.Settings.Current(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, current)
	}
}

func (ctl *Controller) UpdateSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settingsRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		saved, err := ctl.Settings.Save(ctx, models.Setting{
			Restaurant_name:        req.Restaurant_name,
			Restaurant_address:     req.Restaurant_address,
			Restaurant_phone:       req.Restaurant_phone,
			Order_discount_percent: req.Order_discount_percent,
			Discount_min_amount:    req.Discount_min_amount,
			Enforce_min_amount:     req.Enforce_min_amount,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}
