package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/push"
	"github.com/01moynul/taptosell-admin/internal/store"
)

// --- Category Handlers ---

type CreateCategoryInput struct {
	Name        string `form:"name" binding:"required,max=255"`
	Description string `form:"description"`
}

type UpdateCategoryInput struct {
	Name        string `form:"name" binding:"omitempty,max=255"`
	Description string `form:"description"`
}

// GetAllCategories (Public)
func (h *Handlers) GetAllCategories(c *gin.Context) {
	categories, err := h.Categories.List(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list categories")
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	respondList(c, "categories", categories, models.CategorySearchFields)
}

// GetCategory (Public)
func (h *Handlers) GetCategory(c *gin.Context) {
	category, err := h.Categories.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory (Admin Only)
func (h *Handlers) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var input CreateCategoryInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	categorySlug, err := uniqueSlug(ctx, input.Name, h.Categories.SlugExists)
	if err != nil {
		h.discardImages(ctx, images)
		h.Logger.Error().Err(err).Msg("failed to generate category slug")
		respondError(c, storeStatus(err), "Failed to create category")
		return
	}

	now := time.Now()
	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Images:      images,
		Slug:        categorySlug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Categories.Create(ctx, category); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", categorySlug).Msg("failed to create category")
		respondError(c, storeStatus(err), "Failed to create category")
		return
	}

	h.notify(ctx, push.EventCreated, store.Categories, category.Name, category.Slug)
	respondMutation(c, http.StatusCreated, "Category created", "category", category)
}

// UpdateCategory (Admin Only)
func (h *Handlers) UpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := h.Categories.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Category")
		return
	}

	var input UpdateCategoryInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	oldImages := category.Images
	if uploaded {
		category.Images = images
	}
	category.UpdatedAt = time.Now()

	if err := h.Categories.Update(ctx, category); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", category.Slug).Msg("failed to update category")
		respondError(c, storeStatus(err), "Failed to update category")
		return
	}
	if uploaded {
		h.discardImages(ctx, oldImages)
	}

	h.notify(ctx, push.EventUpdated, store.Categories, category.Name, category.Slug)
	respondMutation(c, http.StatusOK, "Category updated", "category", category)
}

// DeleteCategory (Admin Only)
func (h *Handlers) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := h.Categories.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Category")
		return
	}

	if err := h.Categories.Delete(ctx, category.Slug); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error().Err(err).Str("slug", category.Slug).Msg("failed to delete category")
		}
		respondError(c, storeStatus(err), "Failed to delete category")
		return
	}
	h.discardImages(ctx, category.Images)

	h.notify(ctx, push.EventDeleted, store.Categories, category.Name, category.Slug)
	respondMutation(c, http.StatusOK, "Category deleted", "", nil)
}
