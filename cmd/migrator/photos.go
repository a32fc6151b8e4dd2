package main

import (
	"time"

	authorService "bookstore-migrator/internal/domains/author/service"
	"bookstore-migrator/internal/infrastructure/storage"

	"github.com/spf13/cobra"
)

func newMigratePhotosCmd(a *app) *cobra.Command {
	var (
		opts         authorService.PhotoMigrationOptions
		timeoutMS    int
		retries      int
		retryDelayMS int
	)

	cmd := &cobra.Command{
		Use:     "migrate-photos",
		Aliases: []string{"migrate-author-photos"},
		Short:   "Re-host photos that still point at WordPress uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.container.PhotoMigrationService(cmd.Context(), storage.DownloadOptions{
				Timeout:    time.Duration(timeoutMS) * time.Millisecond,
				Retries:    retries,
				RetryDelay: time.Duration(retryDelayMS) * time.Millisecond,
			})
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
	f.StringVar(&opts.Table, "table", authorService.DefaultAuthorsTable, "table holding photo_url")
	f.StringVar(&opts.Match, "match", authorService.DefaultPhotoMatch, "substring identifying legacy photo URLs")
	f.StringVar(&opts.IDColumn, "id-column", authorService.DefaultPhotoIDField, "primary key column of the table")
	f.StringVar(&opts.Folder, "folder", "", "object key prefix (default = table)")
	f.IntVar(&opts.Limit, "limit", 0, "only process the first N rows (0 = all)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "download and transcode, but skip upload and update")
	f.IntVar(&timeoutMS, "timeout-ms", 20000, "per-attempt download timeout")
	f.IntVar(&retries, "retries", 3, "download attempts per photo")
	f.IntVar(&retryDelayMS, "retry-delay-ms", 1000, "base delay, multiplied by the attempt number")

	return cmd
}
