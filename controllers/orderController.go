package controllers

import (
	"net/http"
	"strconv"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/models"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// parseDay reads a YYYY-MM-DD query value in local time; empty means today.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, apperr.New("orders", apperr.KindInvalidInput, value, "date must be formatted YYYY-MM-DD")
	}
	return day, nil
}

func (ctl *Controller) GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.OrderFilter
		if s := c.Query("status"); s != "" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				respondError(c, apperr.New("orders", apperr.KindInvalidInput, s, err.Error()))
				return
			}
			filter.Status = status
		}
		if d := c.Query("date"); d != "" {
			day, err := parseDay(d)
			if err != nil {
				respondError(c, err)
				return
			}
			filter.From, filter.To = day, day.AddDate(0, 0, 1)
		}
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		if err != nil || limit < 1 {
			limit = 50
		}
		filter.Limit = limit

		ctx, cancel := ctl.context(c)
		defer cancel()
		orders, err := ctl.Orders.ListOrders(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  http.StatusOK,
			"message": "Orders fetched successfully",
			"data":    orders,
		})
	}
}

func (ctl *Controller) GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		order, err := ctl.Orders.GetOrder(ctx, c.Param("order_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func (ctl *Controller) UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if !bind(c, &req) {
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			respondError(c, apperr.New("orders", apperr.KindInvalidInput, req.Status, err.Error()))
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		order, err := ctl.Orders.UpdateStatus(ctx, c.Param("order_id"), status, actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.Hub.Broadcast(models.EventOrderStatus, order)
		c.JSON(http.StatusOK, order)
	}
}

func (ctl *Controller) CancelOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		order, err := ctl.Orders.CancelOrder(ctx, c.Param("order_id"), actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.Hub.Broadcast(models.EventOrderStatus, order)
		c.JSON(http.StatusOK, order)
	}
}

func (ctl *Controller) GetReceipt() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		r, err := ctl.Receipts.Generate(ctx, c.Param("order_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func (ctl *Controller) GetDailySummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := parseDay(c.Query("date"))
		if err != nil {
			respondError(c, err)
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		summary, err := ctl.Orders.DailySummary(ctx, day)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
