// Command admin is the terminal admin panel: list, search, delete and create
// users, brands, categories and team members through the admin API.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/01moynul/taptosell-admin/internal/client"
	"github.com/01moynul/taptosell-admin/internal/config"
	"github.com/01moynul/taptosell-admin/internal/console"
	"github.com/01moynul/taptosell-admin/internal/datatable"
	"github.com/01moynul/taptosell-admin/internal/logging"
	"github.com/01moynul/taptosell-admin/internal/models"
)

// app is shared by every subcommand once flags are parsed.
type app struct {
	apiURL   string
	token    string
	logLevel string

	client *client.Client
	logger zerolog.Logger
	out    io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "admin",
		Short:         "TapToSell admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// Flags win over the environment.
			flags := cmd.Flags()
			if !flags.Changed("api") {
				a.apiURL = cfg.AdminAPIURL
			}
			if !flags.Changed("token") {
				a.token = cfg.AdminToken
			}
			if !flags.Changed("log-level") {
				a.logLevel = cfg.LogLevel
			}

			a.logger = logging.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, "admin", a.logLevel)
			if a.apiURL == "" {
				return fmt.Errorf("--api or ADMIN_API_URL is required")
			}
			a.client = client.New(a.apiURL, client.WithToken(a.token))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "admin API base URL (default $ADMIN_API_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "bearer token for write calls (default $ADMIN_TOKEN)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (default $LOG_LEVEL)")

	root.AddCommand(
		collectionCmd(a, "users", "User", console.NewUsersScreen, []formField{
			{name: "name", usage: "full name", required: true},
			{name: "email", usage: "email address", required: true},
			{name: "address", usage: "postal address"},
		}),
		collectionCmd(a, "brands", "Brand", console.NewBrandsScreen, []formField{
			{name: "name", usage: "brand name", required: true},
			{name: "company", usage: "owning company"},
			{name: "website", usage: "website URL"},
			{name: "description", usage: "description"},
		}),
		collectionCmd(a, "categories", "Category", console.NewCategoriesScreen, []formField{
			{name: "name", usage: "category name", required: true},
			{name: "description", usage: "description"},
		}),
		collectionCmd(a, "teams", "Team member", console.NewTeamsScreen, []formField{
			{name: "name", usage: "full name", required: true},
			{name: "designation", usage: "job title"},
			{name: "email", usage: "email address"},
		}),
		loginCmd(a),
		notificationsCmd(a),
	)
	return root
}

type formField struct {
	name     string
	usage    string
	required bool
}

func collectionCmd[T datatable.Row](a *app, collection, noun string, newScreen func(*client.Client, io.Writer, zerolog.Logger) *console.Screen[T], fields []formField) *cobra.Command {
	cmd := &cobra.Command{
		Use:   collection,
		Short: "Manage " + collection,
	}

	// --- list ---
	var (
		search string
		page   int
		limit  int
		sortBy string
		desc   bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + collection,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := newScreen(a.client, a.out, a.logger)
			if limit > 0 {
				screen.PageSize = limit
			}
			if err := screen.Load(cmd.Context()); err != nil {
				return err
			}
			screen.Search(search)
			if sortBy != "" {
				screen.SortBy(sortBy, desc)
			}
			screen.SetPage(page)
			return screen.Render()
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter rows, case-insensitive")
	list.Flags().IntVar(&page, "page", 1, "page to show")
	list.Flags().IntVar(&limit, "limit", datatable.DefaultPageSize, "rows per page")
	list.Flags().StringVar(&sortBy, "sort", "", "sort by field")
	list.Flags().BoolVar(&desc, "desc", false, "sort descending")

	// --- delete ---
	del := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a " + strings.ToLower(noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := newScreen(a.client, a.out, a.logger)
			if err := screen.Load(cmd.Context()); err != nil {
				return err
			}
			return screen.Delete(cmd.Context(), args[0])
		},
	}

	// --- create ---
	values := make(map[string]*string, len(fields))
	var images []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + strings.ToLower(noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := client.Form{Fields: map[string]string{}, Images: images}
			for name, v := range values {
				if *v != "" {
					form.Fields[name] = *v
				}
			}
			screen := newScreen(a.client, a.out, a.logger)
			return screen.Create(cmd.Context(), form)
		},
	}
	for _, f := range fields {
		values[f.name] = create.Flags().String(f.name, "", f.usage)
		if f.required {
			_ = create.MarkFlagRequired(f.name)
		}
	}
	create.Flags().StringArrayVar(&images, "image", nil, "image file to upload (repeatable)")

	cmd.AddCommand(list, del, create)
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a token for ADMIN_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				a.logger.Error().Err(err).Msg("login failed")
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func notificationsCmd(a *app) *cobra.Command {
	var limit int
	var markRead int64
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, unread first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if markRead > 0 {
				if err := a.client.MarkNotificationRead(cmd.Context(), markRead); err != nil {
					a.logger.Error().Err(err).Int64("id", markRead).Msg("failed to mark notification as read")
					return err
				}
			}
			list, err := a.client.Notifications(cmd.Context(), limit)
			if err != nil {
				a.logger.Error().Err(err).Msg("failed to fetch notifications")
				return err
			}
			printNotifications(a.out, list)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum notifications to show")
	cmd.Flags().Int64Var(&markRead, "read", 0, "mark this notification id as read first")
	return cmd
}

func printNotifications(w io.Writer, list []*models.Notification) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no notifications")
		return
	}
	for _, n := range list {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		line := fmt.Sprintf("%s %4d  %s  %s: %s", mark, n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Title, n.Body)
		if n.Link != nil {
			line += "  (" + *n.Link + ")"
		}
		fmt.Fprintln(w, line)
	}
}
