package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/campjournal/internal/server"
	"github.com/dmitrijs2005/campjournal/internal/server/config"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	gs "github.com/dmitrijs2005/campjournal/internal/server/grpc"
)

// maintenance is the part of the server app the jobs use.
type maintenance interface {
	Migrate(ctx context.Context) error
	BackfillCoordinates(ctx context.Context) (int, error)
	PruneRefreshTokens(ctx context.Context) (int64, error)
	Close() error
}

// Seams for tests.
var (
	openApp = func(ctx context.Context) (maintenance, error) {
		return server.NewApp(ctx, config.LoadConfig())
	}

	readPassword = func() ([]byte, error) {
		return term.ReadPassword(int(os.Stdin.Fd()))
	}

	signIn = func(ctx context.Context, addr, email string, password []byte) (*models.TokenPair, error) {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return gs.NewClient(conn).SignIn(ctx, email, string(password))
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "campctl",
		Short:         "CampJournal maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to a JSON or YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			Args:  cobra.ArbitraryArgs,
			RunE: withApp(func(cmd *cobra.Command, app maintenance) error {
				if err := app.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "backfill-coordinates",
			Short: "Fill missing campground coordinates from Places",
			Args:  cobra.ArbitraryArgs,
			RunE: withApp(func(cmd *cobra.Command, app maintenance) error {
				n, err := app.BackfillCoordinates(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d campgrounds\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "prune-tokens",
			Short: "Delete expired refresh tokens",
			Args:  cobra.ArbitraryArgs,
			RunE: withApp(func(cmd *cobra.Command, app maintenance) error {
				n, err := app.PruneRefreshTokens(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d refresh tokens\n", n)
				return nil
			}),
		},
		newTokenCmd(),
	)

	// server flags (-d, -k, ...) are read by the config loader
	for _, c := range append(root.Commands(), root) {
		c.FParseErrWhitelist = cobra.FParseErrWhitelist{UnknownFlags: true}
	}

	return root
}

func withApp(run func(cmd *cobra.Command, app maintenance) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, app)
	}
}

// newTokenCmd signs in to a running server and prints an access token for
// use with grpcurl and similar tools.
func newTokenCmd() *cobra.Command {
	var addr, email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign in and print an access token",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}

			fmt.Fprint(cmd.ErrOrStderr(), "Enter password: ")
			pw, err := readPassword()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			defer clear(pw)

			pair, err := signIn(cmd.Context(), addr, email, pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pair.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:50051", "gRPC server address")
	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}
