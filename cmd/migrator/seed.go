package main

import (
	bookService "bookstore-migrator/internal/domains/book/service"

	"github.com/spf13/cobra"
)

func newGenerateSeedCmd(a *app) *cobra.Command {
	var opts bookService.GenerateOptions

	cmd := &cobra.Command{
		Use:   "generate-books-seed",
		Short: "Generate the idempotent books seed script from a JSON or XLSX list",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.container.SeedService(cmd.Context(), opts.Apply)
			if err != nil {
				return err
			}

			result, err := svc.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			logSummary(cmd.Name(), false, result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Input, "input", bookService.DefaultInputPath, "book list (.json or .xlsx)")
	f.StringVar(&opts.Output, "output", bookService.DefaultOutputPath, "where to write the SQL script")
	f.BoolVar(&opts.Apply, "apply", false, "also run the statements against $DATABASE_URL in one transaction")

	return cmd
}
