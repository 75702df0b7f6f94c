package controllers

import (
	"log"
	"net/http"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/checkout"
	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Customer_name  string        `json:"customer_name" validate:"max=100"`
	Order_type     string        `json:"order_type" validate:"required"`
	Table_number   *int          `json:"table_number"`
	Payment_method string        `json:"payment_method"`
	Cash_tendered  pricing.Money `json:"cash_tendered" validate:"min=0"`
}

func (ctl *Controller) Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if !bind(c, &req) {
			return
		}
		orderType, err := models.ParseOrderType(req.Order_type)
		if err != nil {
			respondError(c, apperr.New("checkout", apperr.KindInvalidInput, "", err.Error()))
			return
		}
		method, err := models.ParsePaymentMethod(req.Payment_method)
		if err != nil {
			respondError(c, apperr.New("checkout", apperr.KindInvalidInput, "", err.Error()))
			return
		}

		ctx, cancel := ctl.context(c)
		defer cancel()
		result, err := ctl.Orders.Checkout(ctx, sessionID(c), checkout.Request{
			Customer_name:  req.Customer_name,
			Order_type:     orderType,
			Table_number:   req.Table_number,
			Payment_method: method,
			Cash_tendered:  req.Cash_tendered,
			Cashier_id:     actorID(c),
		})
		if result == nil {
			respondError(c, err)
			return
		}
		if err != nil {
			log.Printf("order %s committed but cart was not cleared: %v", result.Order.Order_number, err)
		}

		ctl.Hub.Broadcast(models.EventNewOrder, result.Order)
		for _, d := range result.Details {
			ctl.Hub.Broadcast(models.EventStockChanged, gin.H{"menu_id": d.Menu_id, "delta": -d.Quantity})
		}
		c.JSON(http.StatusCreated, result)
	}
}
