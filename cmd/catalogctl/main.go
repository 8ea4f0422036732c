// Command catalogctl manages the service catalog and admin accounts against
// the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"renovo-backend-go/internal/catalog"
	"renovo-backend-go/internal/config"
	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/db/memstore"
	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/search"
)

var (
	verbose bool
	timeout time.Duration
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage the service catalog and admin accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")

	root.AddCommand(newSeedCmd(), newSearchCmd(), newGrantAdminCmd())
	return root
}

func newLogger() *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

// target holds the repositories a command works against.
type target struct {
	catalog  db.CatalogRepository
	users    db.UserRepository
	provider identity.Provider
}

func openTarget(ctx context.Context, logger *zap.Logger) (*target, func(), error) {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if appConfig.StoreDriver == config.StoreDriverMemory {
		store := memstore.New()
		return &target{catalog: store.Catalog, users: store.Users, provider: identity.NewStaticProvider()}, func() {}, nil
	}
	if err := db.InitFirebase(ctx, appConfig, logger); err != nil {
		return nil, nil, fmt.Errorf("initializing firebase: %w", err)
	}
	client := db.GetFirestoreClient()
	return &target{
		catalog:  db.NewFirestoreCatalogRepository(client),
		users:    db.NewFirestoreUserRepository(client),
		provider: identity.NewFirebaseProvider(db.GetFirebaseAuthClient(), logger),
	}, func() { _ = db.Close() }, nil
}

func newSeedCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Upsert the services listed in a YAML catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offerings, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				for _, o := range offerings {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\n", o.ID, o.Name, o.Price)
				}
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			logger := newLogger()
			t, closeFn, err := openTarget(ctx, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := catalog.Seed(ctx, t.catalog, offerings, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d services\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and print the catalog without writing")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		file  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank catalog services against a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var repo db.CatalogRepository
			if file != "" {
				offerings, err := catalog.LoadFile(file)
				if err != nil {
					return err
				}
				store := memstore.New()
				if _, err := catalog.Seed(ctx, store.Catalog, offerings, newLogger()); err != nil {
					return err
				}
				repo = store.Catalog
			} else {
				t, closeFn, err := openTarget(ctx, newLogger())
				if err != nil {
					return err
				}
				defer closeFn()
				repo = t.catalog
			}

			results, err := search.NewCatalogSearcher(repo).Search(ctx, args[0], limit)
			if err != nil {
				return err
			}
			printOfferings(cmd, results)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "search a YAML catalog file instead of the store")
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "maximum results")
	return cmd
}

func printOfferings(cmd *cobra.Command, offerings []models.ServiceOffering) {
	if len(offerings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matches")
		return
	}
	for _, o := range offerings {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\n", o.ID, o.Name, o.Price)
	}
}

func newGrantAdminCmd() *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "grant-admin <uid>",
		Short: "Give a user the admin role in the user store and the identity provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			t, closeFn, err := openTarget(ctx, newLogger())
			if err != nil {
				return err
			}
			defer closeFn()

			uid := args[0]
			role, admin := models.RoleAdmin, true
			if revoke {
				role, admin = models.RoleUser, false
			}
			if err := t.users.SetRole(ctx, uid, role, admin); err != nil {
				return fmt.Errorf("storing role: %w", err)
			}
			if err := t.provider.SetCustomClaims(ctx, uid, map[string]interface{}{"role": role, "admin": admin}); err != nil {
				return fmt.Errorf("role stored but custom claims failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: role=%s admin=%t\n", uid, role, admin)
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "demote the user back to the user role")
	return cmd
}
