// Command clubhub runs the club management API and its maintenance tasks.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/clubhub/clubhub/internal/config"
	"github.com/clubhub/clubhub/internal/obs"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Context is handed to every command's Run method.
type Context struct {
	cfg *config.Config
	log zerolog.Logger
}

var cli struct {
	Debug bool `help:"Log at debug level regardless of LOG_LEVEL."`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the HTTP API."`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
	Seed    SeedCmd    `cmd:"" help:"Create the super admin account (and optional demo data) and exit."`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name("clubhub"),
		kong.Description("College club management API."),
	)

	cfg := config.Load()
	level := cfg.App.LogLevel
	if cli.Debug {
		level = "debug"
	}
	log := obs.NewLogger(level, cfg.App.Dev, os.Stderr)

	err := ctx.Run(&Context{cfg: cfg, log: log})
	ctx.FatalIfErrorf(err)
}
