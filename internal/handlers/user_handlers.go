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

// --- User Input ---

// CreateUserInput is the multipart form posted by the "add user" screen.
// Images arrive separately as "image[]" files.
type CreateUserInput struct {
	Name    string `form:"name" binding:"required,max=255"`
	Email   string `form:"email" binding:"required,email"`
	Address string `form:"address" binding:"max=512"`
}

// UpdateUserInput carries a partial update. Empty fields keep their value.
type UpdateUserInput struct {
	Name    string `form:"name" binding:"omitempty,max=255"`
	Email   string `form:"email" binding:"omitempty,email"`
	Address string `form:"address" binding:"omitempty,max=512"`
}

// GetAllUsers is the handler for GET /api/users/all
func (h *Handlers) GetAllUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list users")
		respondError(c, http.StatusInternalServerError, "Database query failed")
		return
	}
	respondList(c, "users", users, models.UserSearchFields)
}

// GetUser is the handler for GET /api/users/:slug
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser is the handler for POST /api/users
func (h *Handlers) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Bind & Validate Form ---
	var input CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	// 2. --- Store Images ---
	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	// 3. --- Generate Slug ---
	userSlug, err := uniqueSlug(ctx, input.Name, h.Users.SlugExists)
	if err != nil {
		h.discardImages(ctx, images)
		h.Logger.Error().Err(err).Msg("failed to generate user slug")
		respondError(c, storeStatus(err), "Failed to create user")
		return
	}

	// 4. --- Save to Database ---
	now := time.Now()
	user := &models.User{
		Name:      input.Name,
		Email:     input.Email,
		Address:   input.Address,
		Images:    images,
		Slug:      userSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Users.Create(ctx, user); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", userSlug).Msg("failed to create user")
		respondError(c, storeStatus(err), "Failed to create user, it may already exist.")
		return
	}

	h.notify(ctx, push.EventCreated, store.Users, user.Name, user.Slug)

	// 5. --- Send Success Response ---
	respondMutation(c, http.StatusCreated, "User created successfully", "user", user)
}

// UpdateUser is the handler for PUT /api/users/:slug
func (h *Handlers) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.Users.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "User")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Address != "" {
		user.Address = input.Address
	}
	oldImages := user.Images
	if uploaded {
		user.Images = images
	}
	user.UpdatedAt = time.Now()

	if err := h.Users.Update(ctx, user); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", user.Slug).Msg("failed to update user")
		respondError(c, storeStatus(err), "Failed to update user")
		return
	}
	if uploaded {
		h.discardImages(ctx, oldImages)
	}

	h.notify(ctx, push.EventUpdated, store.Users, user.Name, user.Slug)
	respondMutation(c, http.StatusOK, "User updated successfully", "user", user)
}

// DeleteUser is the handler for DELETE /api/users/:slug
func (h *Handlers) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.Users.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "User")
		return
	}

	if err := h.Users.Delete(ctx, user.Slug); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error().Err(err).Str("slug", user.Slug).Msg("failed to delete user")
		}
		respondError(c, storeStatus(err), "Failed to delete user")
		return
	}
	h.discardImages(ctx, user.Images)

	h.notify(ctx, push.EventDeleted, store.Users, user.Name, user.Slug)
	respondMutation(c, http.StatusOK, "User deleted successfully", "", nil)
}
