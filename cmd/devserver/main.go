package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/havelockadmin/internal/devserver"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := devserver.DefaultConfig()
	var (
		verbose     bool
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:           "havelock-devserver",
		Short:         "Local backend for the Havelock admin client",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

			ctx := cmd.Context()
			srv, err := devserver.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logger.Error("Failed to close server", "error", err)
				}
			}()
			return srv.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	f.StringVar(&cfg.SeedPath, "seed", "", "YAML seed file (default: built-in demo data)")
	f.BoolVar(&cfg.NoSeed, "no-seed", false, "start with an empty database")
	f.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "HMAC secret for access tokens")
	f.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "access token lifetime")
	f.IntVar(&cfg.LoginRate, "login-rate", cfg.LoginRate, "login attempts per minute per client")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&showVersion, "version", false, "show version information")
	return cmd
}

func printVersion() {
	fmt.Printf("Havelock Dev Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
