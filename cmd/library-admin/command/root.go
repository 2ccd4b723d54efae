package command

// root.go defines the root command of library-admin and opens the document store
// for every subcommand.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"libraryhub/database"
	"libraryhub/internal/config"
	"libraryhub/internal/docstore"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	mongoURI string // overrides MONGO_URI
	dbName   string // overrides MONGO_DATABASE
	timeout  time.Duration

	cfg         *config.Config
	logger      *slog.Logger
	mongoClient *mongo.Client
	store       *docstore.Store
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "library-admin",
	Short: "library-admin - document store maintenance for libraryhub",
	Long: `library-admin prepares and maintains the libraryhub document store:
- setup: drop, seed and index the book collections, explaining a lookup before and after
- indexes: create the document store indexes
- validate: attach the books $jsonSchema validator
- materialize: rebuild the top authors cache collection`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if mongoURI != "" {
			cfg.MongoURI = mongoURI
		}
		if dbName != "" {
			cfg.MongoDatabase = dbName
		}

		logger = cfg.NewLogger(os.Stderr)
		slog.SetDefault(logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		mongoClient, err = database.ConnectMongo(ctx, cfg, logger)
		if err != nil {
			return err
		}
		store = docstore.New(mongoClient.Database(cfg.MongoDatabase))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if mongoClient == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return mongoClient.Disconnect(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "document store URI (default from MONGO_URI)")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", "", "document store database (default from MONGO_DATABASE)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall command timeout")
}

// commandContext bounds a subcommand by the --timeout flag
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
