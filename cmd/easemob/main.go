package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags override the EASEMOB_* environment read by app.LoadConfig.
var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "org",
		Usage:   "EaseMob org name",
		EnvVars: []string{"EASEMOB_ORG_NAME"},
	},
	&cli.StringFlag{
		Name:    "app",
		Usage:   "EaseMob app name",
		EnvVars: []string{"EASEMOB_APP_NAME"},
	},
	&cli.StringFlag{
		Name:    "server-url",
		Usage:   "EaseMob REST host",
		EnvVars: []string{"EASEMOB_SERVER_URL"},
	},
	&cli.StringFlag{
		Name:    "token-db",
		Usage:   "sqlite file caching access tokens; empty disables caching",
		EnvVars: []string{"EASEMOB_TOKEN_DB"},
	},
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		EnvVars: []string{"LOG_LEVEL"},
	},
}

func run(args []string) error {
	app := cli.App{
		Name:    "easemob",
		Usage:   "command-line client for the EaseMob REST API",
		Version: versioninfo.Short(),
		Flags:   globalFlags,
	}
	app.Commands = []*cli.Command{
		cmdToken,
		cmdUser,
		cmdBlock,
		cmdGroup,
		cmdMessage,
		cmdHistory,
		cmdRequest,
	}
	return app.Run(args)
}
