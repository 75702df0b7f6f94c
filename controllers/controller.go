package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go-restaurant-pos/apperr"
	"go-restaurant-pos/cart"
	"go-restaurant-pos/catalog"
	"go-restaurant-pos/checkout"
	"go-restaurant-pos/helpers"
	"go-restaurant-pos/middleware"
	"go-restaurant-pos/models"
	"go-restaurant-pos/receipt"
	"go-restaurant-pos/settings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

var validate = validator.New()

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserById(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsersWith(ctx context.Context, email, phone string) (int64, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateAllTokens(ctx context.Context, userID, token, refreshToken string) error
}

// Controller holds the services behind the HTTP handlers.
type Controller struct {
	Carts    *cart.Service
	Orders   *checkout.Service
	Catalog  *catalog.Service
	Settings *settings.Service
	Receipts *receipt.Generator
	Users    UserStore
	Tokens   *helpers.TokenMaker
	Hub      *Hub
	// Ping checks the backing store for /health.
	Ping func(ctx context.Context) error

	Timeout time.Duration
}

func (ctl *Controller) context(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := ctl.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInactive, apperr.KindInsufficientStock, apperr.KindInvalidQuantity, apperr.KindEmptyCart,
		apperr.KindInsufficientPayment, apperr.KindMissingTableNumber:
		return http.StatusUnprocessableEntity
	case apperr.KindPreconditionFailed, apperr.KindInvalidTransition, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error, please try again", "kind": apperr.KindPersistence})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// bind decodes and validates a JSON body, replying 400 on failure.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.KindInvalidInput})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.KindInvalidInput})
		return false
	}
	return true
}

func sessionID(c *gin.Context) string {
	return c.GetString(middleware.KeySession)
}

func actorID(c *gin.Context) string {
	return c.GetString(middleware.KeyUID)
}

// Health pings the store.
func (ctl *Controller) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		if ctl.Ping != nil {
			if err := ctl.Ping(ctx); err != nil {
				log.Printf("health check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
