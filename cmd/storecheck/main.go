package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	internalcli "github.com/adyen/storefront-e2e/internal/cli"
	"github.com/adyen/storefront-e2e/internal/config"
)

var version = "0.1.0"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "YAML harness configuration `FILE` (defaults to $E2E_CONFIG)",
}

var filterFlag = &cli.StringFlag{
	Name:  "run",
	Usage: "only scenarios whose name matches `REGEXP`",
}

// loadHarnessConfig applies command-line overrides on top of file and environment
func loadHarnessConfig(c *cli.Context) (*config.HarnessConfig, error) {
	cfg, err := config.LoadHarnessConfig(c.String("config"), os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid harness configuration: %w", err)
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("store") {
		cfg.StoreID = c.String("store")
	}
	if c.IsSet("parallel") {
		cfg.Parallelism = c.Int("parallel")
	}
	if c.IsSet("headed") {
		cfg.Headless = !c.Bool("headed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid harness configuration: %w", err)
	}
	return cfg, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the storefront scenarios in a real browser",
		Flags: []cli.Flag{
			configFlag,
			filterFlag,
			&cli.StringFlag{Name: "base-url", Usage: "storefront `URL` (overrides E2E_BASE_URL)"},
			&cli.StringFlag{Name: "store", Usage: "store `ID` under test (overrides E2E_STORE_ID)"},
			&cli.IntFlag{Name: "parallel", Usage: "scenarios run at once (overrides E2E_PARALLELISM)"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadHarnessConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = internalcli.Run(ctx, cfg, c.String("run"), c.App.Writer)
			if errors.Is(err, internalcli.ErrScenariosFailed) {
				return cli.Exit(err.Error(), 1)
			}
			return err
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the storefront scenarios",
		Flags: []cli.Flag{configFlag, filterFlag},
		Action: func(c *cli.Context) error {
			cfg, err := loadHarnessConfig(c)
			if err != nil {
				return err
			}
			return internalcli.List(cfg, c.String("run"), c.App.Writer)
		},
	}
}

// ServeDemoCommand returns the serve-demo command
func ServeDemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve-demo",
		Usage: "Start the demo storefront the scenarios can run against",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen `PORT` (overrides PORT)"},
		},
		Action: func(c *cli.Context) error {
			return internalcli.ServeDemo(os.Getenv, c.String("port"))
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "storecheck",
		Usage:   "End-to-end checks for multi-tenant storefronts",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			ServeDemoCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		log.Fatal(err)
	}
}
