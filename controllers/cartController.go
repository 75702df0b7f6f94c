package controllers

import (
	"net/http"

	"go-restaurant-pos/cart"
	"go-restaurant-pos/pricing"

	"github.com/gin-gonic/gin"
)

type cartView struct {
	cart.Cart
	Rates pricing.Rates `json:"rates"`
}

type addCartItemRequest struct {
	Menu_id  string `json:"menu_id" validate:"required"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note" validate:"max=255"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type noteRequest struct {
	Note *string `json:"note" validate:"required,max=255"`
}

type discountRequest struct {
	Apply *bool `json:"apply" validate:"required"`
}

// respondCart replies with the cart and the rates it was priced with.
func (ctl *Controller) respondCart(c *gin.Context, current cart.Cart) {
	ctx, cancel := ctl.context(c)
	defer cancel()
	rates, err := ctl.Settings.Rates(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if current.Lines == nil {
		current.Lines = []cart.Line{}
	}
	c.JSON(http.StatusOK, cartView{Cart: current, Rates: rates})
}

func (ctl *Controller) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		current, err := ctl.Carts.Get(ctx, sessionID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, current)
	}
}

func (ctl *Controller) AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		updated, err := ctl.Carts.Add(ctx, sessionID(c), req.Menu_id, req.Quantity, req.Note)
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, updated)
	}
}

func (ctl *Controller) UpdateCartItemQuantity() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quantityRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		updated, err := ctl.Carts.UpdateQuantity(ctx, sessionID(c), c.Param("menu_id"), *req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, updated)
	}
}

func (ctl *Controller) UpdateCartItemNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req noteRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		updated, err := ctl.Carts.UpdateNote(ctx, sessionID(c), c.Param("menu_id"), *req.Note)
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, updated)
	}
}

func (ctl *Controller) RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		updated, err := ctl.Carts.Remove(ctx, sessionID(c), c.Param("menu_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, updated)
	}
}

func (ctl *Controller) ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		if err := ctl.Carts.Clear(ctx, sessionID(c)); err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, cart.Cart{})
	}
}

func (ctl *Controller) ToggleCartDiscount() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req discountRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		updated, err := ctl.Carts.ToggleOrderDiscount(ctx, sessionID(c), *req.Apply)
		if err != nil {
			respondError(c, err)
			return
		}
		ctl.respondCart(c, updated)
	}
}
