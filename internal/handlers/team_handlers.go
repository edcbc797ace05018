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

//
// --- Team Handlers ---
//

type CreateTeamMemberInput struct {
	Name        string `form:"name" binding:"required,max=255"`
	Designation string `form:"designation" binding:"max=255"`
	Email       string `form:"email" binding:"omitempty,email"`
}

type UpdateTeamMemberInput struct {
	Name        string `form:"name" binding:"omitempty,max=255"`
	Designation string `form:"designation" binding:"omitempty,max=255"`
	Email       string `form:"email" binding:"omitempty,email"`
}

// GetAllTeamMembers is the handler for GET /api/teams/all
func (h *Handlers) GetAllTeamMembers(c *gin.Context) {
	members, err := h.Teams.List(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list team members")
		respondError(c, http.StatusInternalServerError, "Database query failed")
		return
	}
	respondList(c, "teams", members, models.TeamSearchFields)
}

// GetTeamMember is the handler for GET /api/teams/:slug
func (h *Handlers) GetTeamMember(c *gin.Context) {
	member, err := h.Teams.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": member})
}

// CreateTeamMember is the handler for POST /api/teams
func (h *Handlers) CreateTeamMember(c *gin.Context) {
	ctx := c.Request.Context()

	var input CreateTeamMemberInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	memberSlug, err := uniqueSlug(ctx, input.Name, h.Teams.SlugExists)
	if err != nil {
		h.discardImages(ctx, images)
		h.Logger.Error().Err(err).Msg("failed to generate team member slug")
		respondError(c, storeStatus(err), "Failed to create team member")
		return
	}

	now := time.Now()
	member := &models.TeamMember{
		Name:        input.Name,
		Designation: input.Designation,
		Email:       input.Email,
		Images:      images,
		Slug:        memberSlug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Teams.Create(ctx, member); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", memberSlug).Msg("failed to create team member")
		respondError(c, storeStatus(err), "Failed to create team member")
		return
	}

	h.notify(ctx, push.EventCreated, store.Teams, member.Name, member.Slug)
	respondMutation(c, http.StatusCreated, "Team member created successfully", "team", member)
}

// UpdateTeamMember is the handler for PUT /api/teams/:slug
func (h *Handlers) UpdateTeamMember(c *gin.Context) {
	ctx := c.Request.Context()

	member, err := h.Teams.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Team member")
		return
	}

	var input UpdateTeamMemberInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	images, uploaded, ok := h.saveImages(c)
	if !ok {
		return
	}

	if input.Name != "" {
		member.Name = input.Name
	}
	if input.Designation != "" {
		member.Designation = input.Designation
	}
	if input.Email != "" {
		member.Email = input.Email
	}
	oldImages := member.Images
	if uploaded {
		member.Images = images
	}
	member.UpdatedAt = time.Now()

	if err := h.Teams.Update(ctx, member); err != nil {
		if uploaded {
			h.discardImages(ctx, images)
		}
		h.Logger.Error().Err(err).Str("slug", member.Slug).Msg("failed to update team member")
		respondError(c, storeStatus(err), "Failed to update team member")
		return
	}
	if uploaded {
		h.discardImages(ctx, oldImages)
	}

	h.notify(ctx, push.EventUpdated, store.Teams, member.Name, member.Slug)
	respondMutation(c, http.StatusOK, "Team member updated successfully", "team", member)
}

// DeleteTeamMember is the handler for DELETE /api/teams/:slug
func (h *Handlers) DeleteTeamMember(c *gin.Context) {
	ctx := c.Request.Context()

	member, err := h.Teams.Get(ctx, c.Param("slug"))
	if err != nil {
		h.respondLookupError(c, err, "Team member")
		return
	}

	if err := h.Teams.Delete(ctx, member.Slug); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error().Err(err).Str("slug", member.Slug).Msg("failed to delete team member")
		}
		respondError(c, storeStatus(err), "Failed to delete team member")
		return
	}
	h.discardImages(ctx, member.Images)

	h.notify(ctx, push.EventDeleted, store.Teams, member.Name, member.Slug)
	respondMutation(c, http.StatusOK, "Team member deleted successfully", "", nil)
}
