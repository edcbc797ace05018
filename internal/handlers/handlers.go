package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/01moynul/taptosell-admin/internal/datatable"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/push"
	"github.com/01moynul/taptosell-admin/internal/store"
	"github.com/01moynul/taptosell-admin/internal/uploads"
)

// --- Repository contracts (implemented by internal/store) ---

type UserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, slug string) (*models.User, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
}

type BrandRepository interface {
	List(ctx context.Context) ([]*models.Brand, error)
	Get(ctx context.Context, slug string) (*models.Brand, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, b *models.Brand) error
	Update(ctx context.Context, b *models.Brand) error
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, slug string) (*models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
}

type TeamRepository interface {
	List(ctx context.Context) ([]*models.TeamMember, error)
	Get(ctx context.Context, slug string) (*models.TeamMember, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, m *models.TeamMember) error
	Update(ctx context.Context, m *models.TeamMember) error
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
}

type NotificationRepository interface {
	List(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	CountUnread(ctx context.Context) (int64, error)
}

// Authenticator issues admin tokens.
type Authenticator interface {
	Login(email, password string) (string, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Users         UserRepository
	Brands        BrandRepository
	Categories    CategoryRepository
	Teams         TeamRepository
	Notifications NotificationRepository

	Images    uploads.ImageStore
	Publisher push.Publisher
	Auth      Authenticator
	Logger    zerolog.Logger
}

// --- Responses ---

// respondError writes the {message, error} shape used by every failure.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message, "error": true})
}

// respondMutation writes the {message, error} shape for a successful write,
// plus the affected record under key when record is non-nil.
func respondMutation(c *gin.Context, status int, message, key string, record any) {
	body := gin.H{"message": message, "error": false}
	if record != nil {
		body[key] = record
	}
	c.JSON(status, body)
}

// storeStatus maps store errors to HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bindingMessage turns validator errors into one readable sentence.
func bindingMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		case "max":
			if fe.Kind() == reflect.String {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			}
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// --- List (data table) ---

type listQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Sort   string `form:"sort"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// respondList runs the data-table search over rows and writes
// {"<key>": [...]}. Pagination metadata is added when page or limit is given.
func respondList[T datatable.Row](c *gin.Context, key string, rows []T, fields []string) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	table := datatable.New(rows, fields, q.Limit)
	table.Search(q.Search)
	if q.Sort != "" {
		table.SortBy(q.Sort, q.Order == "desc")
	}

	if q.Page == 0 && q.Limit == 0 {
		c.JSON(http.StatusOK, gin.H{key: table.Rows(), "total": table.Len()})
		return
	}

	page := q.Page
	if page == 0 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		key:          table.Page(page),
		"total":      table.Len(),
		"page":       page,
		"totalPages": table.TotalPages(),
	})
}

// --- Images ---

// formImages returns the files sent under "image[]" or "image".
func formImages(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	files := append([]*multipart.FileHeader{}, form.File["image[]"]...)
	return append(files, form.File["image"]...), nil
}

// saveImages stores the uploaded images and writes the error response itself
// when that fails. ok is false if the handler must stop.
func (h *Handlers) saveImages(c *gin.Context) (images models.ImageList, uploaded bool, ok bool) {
	files, err := formImages(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart form")
		return nil, false, false
	}
	if len(files) == 0 {
		return models.ImageList{}, false, true
	}

	images, err = uploads.SaveAll(c.Request.Context(), h.Images, files)
	if err != nil {
		if errors.Is(err, uploads.ErrNotAnImage) || errors.Is(err, uploads.ErrFileTooLarge) || errors.Is(err, uploads.ErrTooManyFiles) {
			respondError(c, http.StatusBadRequest, err.Error())
			return nil, false, false
		}
		h.Logger.Error().Err(err).Msg("failed to store uploaded images")
		respondError(c, http.StatusInternalServerError, "Failed to save images")
		return nil, false, false
	}
	return images, true, true
}

// discardImages removes stored images, logging failures. Used after a failed
// write and after a record's images were replaced or deleted.
func (h *Handlers) discardImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := uploads.DeleteAll(ctx, h.Images, urls); err != nil {
		h.Logger.Warn().Err(err).Strs("images", urls).Msg("failed to remove images")
	}
}

// --- Slugs ---

const (
	slugSuffixLen = 6
	reservedSlug  = "all"
)

// uniqueSlug generates a slug from name. If it is taken, a short random suffix
// is appended.
func uniqueSlug(ctx context.Context, name string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		// "all" is the bulk-fetch route.
		if !taken && candidate != reservedSlug {
			return candidate, nil
		}
		suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:slugSuffixLen]
		candidate = base + "-" + suffix
	}
	return "", fmt.Errorf("no free slug for %q: %w", name, store.ErrDuplicate)
}

// --- Push ---

// notify publishes an admin event. Failures are logged and never fail the request.
func (h *Handlers) notify(ctx context.Context, event, collection, name, slug string) {
	msg := push.Message{
		Event:      event,
		Collection: collection,
		Name:       name,
		Slug:       slug,
		SentAt:     time.Now(),
	}
	if err := h.Publisher.Publish(ctx, msg); err != nil {
		h.Logger.Warn().Err(err).
			Str("collection", collection).
			Str("slug", slug).
			Msg("failed to publish push message")
	}
}

// --- Shared parsing ---

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// respondLookupError handles a failed Get by slug.
func (h *Handlers) respondLookupError(c *gin.Context, err error, noun string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, noun+" not found")
		return
	}
	h.Logger.Error().Err(err).Str("slug", c.Param("slug")).Msgf("failed to look up %s", strings.ToLower(noun))
	respondError(c, http.StatusInternalServerError, "Database query failed")
}
