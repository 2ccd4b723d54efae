package command

import (
	"fmt"

	"libraryhub/internal/microservices/http-api/service"

	"github.com/spf13/cobra"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Rebuild the top authors cache collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		// materializing reads and writes the document store only
		reports := service.NewReportService(nil, store, nil, nil, logger)
		if err := reports.MaterializeTopAuthors(ctx); err != nil {
			return fmt.Errorf("materialize top authors: %w", err)
		}

		cached, err := reports.CachedTopAuthors(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Top authors cache (%d entries):\n\n", len(cached))
		for i, a := range cached {
			fmt.Printf("%2d. %s | books: %d\n", i+1, a.Name, a.BooksCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(materializeCmd)
}
