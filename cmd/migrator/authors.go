package main

import (
	"fmt"

	"bookstore-migrator/internal/config"
	"bookstore-migrator/internal/domains/author/model"
	authorService "bookstore-migrator/internal/domains/author/service"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"
)

func newImportAuthorsCmd(a *app) *cobra.Command {
	var (
		opts  authorService.UserImportOptions
		roles string
	)

	cmd := &cobra.Command{
		Use:     "import-authors",
		Aliases: []string{"import-wordpress-authors"},
		Short:   "Import WordPress users as author profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.container.Config
			if opts.Status == "" {
				opts.Status = cfg.Import.AuthorStatus
			}
			if err := validateStatus(opts.Status); err != nil {
				return err
			}
			opts.Roles = config.SplitList(roles)
			if len(opts.Roles) == 0 {
				opts.Roles = cfg.WordPress.AuthorRoles
			}

			svc, err := a.container.UserImportService()
			if err != nil {
				return err
			}

			result, err := svc.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			logSummary(cmd.Name(), opts.DryRun, result)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Limit, "limit", 0, "only process the first N WordPress users (0 = all)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "read and decide, but write nothing")
	f.BoolVar(&opts.UpdateExisting, "update-existing", false, "overwrite existing author profiles")
	f.StringVar(&opts.Status, "status", "", "status for new profiles (default $AUTHOR_STATUS)")
	f.StringVar(&roles, "roles", "", "comma separated role allow-list (default $WP_AUTHOR_ROLES)")
	f.BoolVar(&opts.ForceStatus, "force-status", false, "write status even when the profile already has one")
	f.StringVar(&opts.AuthorType, "author-type", model.DefaultAuthorType, "author_type written on profiles")

	return cmd
}

func newImportAutoresCmd(a *app) *cobra.Command {
	var opts authorService.AutorImportOptions

	cmd := &cobra.Command{
		Use:     "import-autores",
		Aliases: []string{"import-wordpress-autores"},
		Short:   "Import the WordPress author custom post type into the authors table",
		RunE: func(cmd *cobra.Command, args []string) error {
			// --status="" tắt filter; không truyền flag → WP_AUTHOR_STATUS
			if !cmd.Flags().Changed("status") {
				opts.Status = a.container.Config.WordPress.AuthorStatus
			}

			svc, err := a.container.AutorImportService()
			if err != nil {
				return err
			}

			result, err := svc.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			logSummary(cmd.Name(), opts.DryRun, result)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Limit, "limit", 0, "only process the first N posts (0 = all)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "report what would be upserted without writing")
	f.BoolVar(&opts.UpdateExisting, "update-existing", false, "upsert posts that already have a row")
	f.StringVar(&opts.Status, "status", "", "WordPress post status filter (default $WP_AUTHOR_STATUS)")
	f.StringVar(&opts.Table, "table", authorService.DefaultAuthorsTable, "destination table")
	f.StringVar(&opts.AuthorType, "author-type", model.DefaultAuthorType, "author_type when the post has none")

	return cmd
}

func validateStatus(status string) error {
	err := validation.Validate(status,
		validation.In(model.StatusPending, model.StatusApproved, model.StatusRejected))
	if err != nil {
		return fmt.Errorf("invalid --status %q: %w", status, err)
	}
	return nil
}
