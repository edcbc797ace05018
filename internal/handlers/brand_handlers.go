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

// CreateBrandInput defines the form input for creating a brand
type CreateBrandInput struct {
	Name        string `form:"name" binding:"required,max=255"`
	Company     string `form:"company" binding:"max=255"`
	Website     string `form:"website" binding:"omitempty,url,max=512"`
	Description string `form:"description"`
}

type UpdateBrandInput struct {
	Name        string `form:"name" binding:"omitempty,max=255"`
	Company     string `form:"company" binding:"omitempty,max=255"`
	Website     string `form:"website" binding:"omitempty,url,max=512"`
	Description string `form:"description"`
}

// GetAllBrands is the handler for GET /api/brands/all
func (h *Handlers) GetAllBrands(c *gin.Context) {
	brands, err := h.Brands.List(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list brands")
		respondError(c, http.StatusInternalServerError, "Database query failed")
		return
	}
	respondList(c, "brands", brands, models.BrandSearchFields)
}

// GetBrand is the handler for GET /api/brands/:slug
func (h *Handlers) GetBrand(c *gin.Context) {
	brand, err := h.Brands.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Brand")
		return
	}
	c.JSON(http.StatusOK, gin.H{"brand": brand})
}

// CreateBrand is the handler for POST /api/brands
func (h *Handlers) CreateBrand(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Bind & Validate Form ---
	var input CreateBrandInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	// 2. --- Store Images ---
	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	// 3. --- Create Brand Model ---
	brandSlug, err := uniqueSlug(ctx, input.Name, h.Brands.SlugExists)
	if err != nil {
		h.discardImages(ctx, images)
		h.Logger.Error().Err(err).Msg("failed to generate brand slug")
		respondError(c, storeStatus(err), "Failed to create brand")
		return
	}

	now := time.Now()
	brand := &models.Brand{
		Name:        input.Name,
		Company:     input.Company,
		Website:     input.Website,
		Description: input.Description,
		Images:      images,
		Slug:        brandSlug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 4. --- Save to Database ---
	if err := h.Brands.Create(ctx, brand); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", brandSlug).Msg("failed to create brand")
		respondError(c, storeStatus(err), "Failed to create brand, it may already exist.")
		return
	}

	h.notify(ctx, push.EventCreated, store.Brands, brand.Name, brand.Slug)

	// 5. --- Send Success Response ---
	respondMutation(c, http.StatusCreated, "Brand created successfully", "brand", brand)
}

// UpdateBrand is the handler for PUT /api/brands/:slug
func (h *Handlers) UpdateBrand(c *gin.Context) {
	ctx := c.Request.Context()

	brand, err := h.Brands.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Brand")
		return
	}

	var input UpdateBrandInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	if input.Name != "" {
		brand.Name = input.Name
	}
	if input.Company != "" {
		brand.Company = input.Company
	}
	if input.Website != "" {
		brand.Website = input.Website
	}
	if input.Description != "" {
		brand.Description = input.Description
	}
	oldImages := brand.Images
	if uploaded {
		brand.Images = images
	}
	brand.UpdatedAt = time.Now()

	if err := h.Brands.Update(ctx, brand); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", brand.Slug).Msg("failed to update brand")
		respondError(c, storeStatus(err), "Failed to update brand")
		return
	}
	if uploaded {
		h.discardImages(ctx, oldImages)
	}

	h.notify(ctx, push.EventUpdated, store.Brands, brand.Name, brand.Slug)
	respondMutation(c, http.StatusOK, "Brand updated successfully", "brand", brand)
}

// DeleteBrand is the handler for DELETE /api/brands/:slug
func (h *Handlers) DeleteBrand(c *gin.Context) {
	ctx := c.Request.Context()

	brand, err := h.Brands.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Brand")
		return
	}

	if err := h.Brands.Delete(ctx, brand.Slug); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error().Err(err).Str("slug", brand.Slug).Msg("failed to delete brand")
		}
		respondError(c, storeStatus(err), "Failed to delete brand")
		return
	}
	h.discardImages(ctx, brand.Images)

	h.notify(ctx, push.EventDeleted, store.Brands, brand.Name, brand.Slug)
	respondMutation(c, http.StatusOK, "Brand deleted successfully", "", nil)
}
