package controllers

import (
	"net/http"

	"go-restaurant-pos/catalog"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=255"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Is_active   *bool   `json:"is_active"`
}

func (ctl *Controller) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctl.context(c)
		defer cancel()
		categories, err := ctl.Catalog.ListCategories(ctx, c.Query("include_inactive") == "true")
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func (ctl *Controller) CreateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		category, err := ctl.Catalog.CreateCategory(ctx, req.Name, req.Description)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func (ctl *Controller) UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCategoryRequest
		if !bind(c, &req) {
			return
		}
		ctx, cancel := ctl.context(c)
		defer cancel()
		category, err := ctl.Catalog.UpdateCategory(ctx, c.Param("category_id"), catalog.CategoryPatch{
			Name:        req.Name,
			Description: req.Description,
			Is_active:   req.Is_active,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}
