package command

import (
	"fmt"
	"math/rand/v2"
	"time"

	"libraryhub/internal/docstore"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	seedAuthors int
	seedBooks   int
	seedLinks   int
	seedValue   uint64
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Drop, seed and index the book collections",
	Long: `Drops books, authors and book_authors, seeds them with generated documents and
explains an isbn lookup before and after the indexes are created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		for _, coll := range []string{docstore.BooksCollection, docstore.AuthorsCollection, docstore.BookAuthorsCollection} {
			if err := store.Drop(ctx, coll); err != nil {
				return err
			}
		}

		if seedValue == 0 {
			seedValue = uint64(time.Now().UnixNano())
		}
		set, err := docstore.GenerateSeed(docstore.SeedSize{
			Authors: seedAuthors,
			Books:   seedBooks,
			Links:   seedLinks,
		}, rand.New(rand.NewPCG(seedValue, seedValue>>1)))
		if err != nil {
			return err
		}
		if err := store.Seed(ctx, set); err != nil {
			return err
		}
		logger.Info("seed_inserted",
			"authors", len(set.Authors),
			"books", len(set.Books),
			"links", len(set.Links),
		)

		lookup := bson.D{{Key: "isbnNumber", Value: fmt.Sprintf("ISBN-978-%d", (seedBooks+1)*7/8)}}

		stage, took, err := store.ExplainFind(ctx, docstore.BooksCollection, lookup)
		if err != nil {
			return err
		}
		color.Yellow("Before indexes: stage = %s, time = %.3f ms", stage, ms(took))

		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}

		stage, took, err = store.ExplainFind(ctx, docstore.BooksCollection, lookup)
		if err != nil {
			return err
		}
		color.Cyan("After indexes:  stage = %s, time = %.3f ms", stage, ms(took))
		return nil
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the document store indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}
		color.Green("✓ Indexes created")
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Attach the $jsonSchema validator to books",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := store.EnsureCollections(ctx); err != nil {
			return err
		}
		if err := store.ApplyBooksValidation(ctx); err != nil {
			return err
		}
		color.Green("✓ Books validator applied (moderate, error)")
		return nil
	},
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func init() {
	setupCmd.Flags().IntVar(&seedAuthors, "authors", docstore.DefaultSeedSize.Authors, "number of authors to seed")
	setupCmd.Flags().IntVar(&seedBooks, "books", docstore.DefaultSeedSize.Books, "number of books to seed")
	setupCmd.Flags().IntVar(&seedLinks, "links", docstore.DefaultSeedSize.Links, "number of book-author links to seed")
	setupCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed (0 uses the clock)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(indexesCmd)
	rootCmd.AddCommand(validateCmd)
}
