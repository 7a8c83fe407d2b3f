package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/cuongbtq/applog/internal/app"
	"github.com/cuongbtq/applog/internal/cli"
	"github.com/cuongbtq/applog/internal/config"
	"github.com/cuongbtq/applog/shared/logger"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	root := &cli.CLI{}
	parser, err := kong.New(root,
		kong.Name("applogctl"),
		kong.Description("Track job applications from the command line."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version, "config_path": cli.DefaultConfigPath},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	if err := run(root, kctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(root *cli.CLI, kctx *kong.Context) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if err := cfg.ValidateCLIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Records go to stderr so stdout stays parseable.
	logCfg := cfg.LoggerConfig()
	logCfg.Output = "stderr"
	if root.Verbose {
		logCfg.Level = "debug"
	} else if logCfg.Level == "info" {
		logCfg.Level = "warn"
	}
	appLogger, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLogger, app.Options{SkipMigrate: cli.SkipsMigrate(kctx.Command())})
	if err != nil {
		return err
	}
	defer a.Close()

	return kctx.Run(&cli.Context{
		Context:    ctx,
		Out:        os.Stdout,
		App:        a,
		JSONOutput: root.JSON,
	})
}

// loadConfig falls back to defaults only when the default file is absent.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && isDefaultPath(path) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load config: %w", err)
}

func isDefaultPath(path string) bool {
	return path == cli.DefaultConfigPath
}
