package console

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/01moynul/taptosell-admin/internal/client"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/store"
)

func NewUsersScreen(c *client.Client, out io.Writer, logger zerolog.Logger) *Screen[*models.User] {
	return newScreen(store.Users,
		[]string{"name", "email", "address", "slug"},
		models.UserSearchFields,
		func(ctx context.Context) ([]*models.User, error) {
			return client.List[*models.User](ctx, c, store.Users)
		},
		c, out, logger)
}

func NewBrandsScreen(c *client.Client, out io.Writer, logger zerolog.Logger) *Screen[*models.Brand] {
	return newScreen(store.Brands,
		[]string{"name", "company", "website", "slug"},
		models.BrandSearchFields,
		func(ctx context.Context) ([]*models.Brand, error) {
			return client.List[*models.Brand](ctx, c, store.Brands)
		},
		c, out, logger)
}

func NewCategoriesScreen(c *client.Client, out io.Writer, logger zerolog.Logger) *Screen[*models.Category] {
	return newScreen(store.Categories,
		[]string{"name", "description", "slug"},
		models.CategorySearchFields,
		func(ctx context.Context) ([]*models.Category, error) {
			return client.List[*models.Category](ctx, c, store.Categories)
		},
		c, out, logger)
}

func NewTeamsScreen(c *client.Client, out io.Writer, logger zerolog.Logger) *Screen[*models.TeamMember] {
	return newScreen(store.Teams,
		[]string{"name", "designation", "email", "slug"},
		models.TeamSearchFields,
		func(ctx context.Context) ([]*models.TeamMember, error) {
			return client.List[*models.TeamMember](ctx, c, store.Teams)
		},
		c, out, logger)
}
