package main

import (
	"context"
	"os"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "music-hub",
		Usage: "User, song and access token REST backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON or TOML configuration file",
				Sources: cli.EnvVars("APP_CONFIG"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run database migrations and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: migrateDB,
			},
			masterTokenCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		hlog.Fatalf("application error: %v", err)
	}
}
