// Package cli - команды клиента администратора на cobra
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/iocli"
	"github.com/iudanet/havelockadmin/internal/config"
)

// ErrReported - ошибка уже показана на экране; main только выставляет код выхода
var ErrReported = errors.New("error already reported")

// аннотация команд, которым не нужны конфигурация и сессия
const annotationStandalone = "standalone"

// BuildInfo - версия сборки (задается через ldflags в main)
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Options - внешние зависимости CLI
type Options struct {
	IO     iocli.IO
	Stderr io.Writer
	Build  BuildInfo
}

// runtime - состояние одного запуска; в shell общее для всех вложенных команд
type runtime struct {
	app        *App
	viper      *viper.Viper
	opts       Options
	configFile string
	inShell    bool
}

func newRuntime(opts Options) *runtime {
	if opts.IO == nil {
		opts.IO = iocli.NewStdio()
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &runtime{opts: opts, viper: config.NewViper()}
}

// Execute выполняет команду и освобождает ресурсы
func Execute(ctx context.Context, opts Options, args []string) error {
	rt := newRuntime(opts)
	defer rt.close()

	cmd := rt.root()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewRootCommand создает корневую команду havelock-admin
func NewRootCommand(opts Options) *cobra.Command {
	return newRuntime(opts).root()
}

func (rt *runtime) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "havelock-admin",
		Short: "Havelock admin client",
		Long: `Admin client for the event-photography booking backend.

Manages events, bookings, revenue, videos and account settings.
The backend address comes from --api-base-url, HAVELOCK_API_BASE_URL
or api_base_url in the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
	}
	cmd.SetOut(rt.opts.IO)
	cmd.SetErr(rt.opts.Stderr)

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVar(&rt.configFile, "config", "", "path to a YAML config file")

	cmd.AddCommand(
		rt.loginCommand(),
		rt.logoutCommand(),
		rt.statusCommand(),
		rt.forgotPasswordCommand(),
		rt.verifyOTPCommand(),
		rt.resetPasswordCommand(),
		rt.changePasswordCommand(),
		rt.dashboardCommand(),
		rt.revenueCommand(),
		rt.bookingsCommand(),
		rt.eventsCommand(),
		rt.videosCommand(),
		rt.shellCommand(),
		rt.versionCommand(),
	)
	return cmd
}

// setup загружает конфигурацию и собирает App один раз на запуск
func (rt *runtime) setup(cmd *cobra.Command) error {
	if rt.app != nil || cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}
	if err := config.BindFlags(rt.viper, cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	cfg, err := config.Load(rt.viper, rt.configFile)
	if err != nil {
		return err
	}

	logger := newLogger(rt.opts.Stderr, cfg.Verbose)
	app, err := NewApp(cmd.Context(), cfg, rt.opts.IO, logger)
	if err != nil {
		return err
	}
	rt.app = app
	logger.Debug("Client started", "api_base_url", cfg.APIBaseURL, "db", cfg.DBPath)
	return nil
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	if err := rt.app.Close(); err != nil {
		rt.app.logger.Error("Failed to close client", "error", err)
	}
	rt.app = nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (rt *runtime) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			b := rt.opts.Build
			rt.opts.IO.Println("Havelock Admin Client")
			rt.opts.IO.Printf("Version:    %s\n", b.Version)
			rt.opts.IO.Printf("Build Date: %s\n", b.BuildDate)
			rt.opts.IO.Printf("Git Commit: %s\n", b.GitCommit)
			return nil
		},
	}
}

// reported помечает ошибку, которую экран уже нарисовал
func reported(err error) error {
	return fmt.Errorf("%w: %w", ErrReported, err)
}

// viewFailed: экран уже показал "Error: ...", при отказе в доступе добавляем подсказку
func (rt *runtime) viewFailed(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		rt.opts.IO.Println()
		rt.opts.IO.Println("Your session is no longer valid. Run 'havelock-admin login' again.")
	}
	return reported(err)
}
