package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aussiebroadwan/easemob/internal/app"
	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the environment and applies global flag overrides.
func loadConfig(cctx *cli.Context) app.Config {
	cfg := app.LoadConfig()
	if cctx.IsSet("org") {
		cfg.OrgName = cctx.String("org")
	}
	if cctx.IsSet("app") {
		cfg.AppName = cctx.String("app")
	}
	if cctx.IsSet("server-url") {
		cfg.ServerURL = cctx.String("server-url")
	}
	if cctx.IsSet("token-db") {
		cfg.TokenDB = cctx.String("token-db")
	}
	if cctx.IsSet("log-level") {
		cfg.LogLevel = cctx.String("log-level")
	}
	return cfg
}

// withApp builds the application for a single command. Nothing touches the
// network before a command actually runs.
func withApp(cctx *cli.Context, fn func(a *app.Application) error) error {
	a, err := app.New(cctx.Context, loadConfig(cctx))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger().Warn("failed to close application", "error", err)
		}
	}()
	return fn(a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult reports a boolean endpoint outcome with the status that
// decided it.
func printResult(c *easemob.Client, ok bool, err error) error {
	if err != nil {
		return err
	}
	if ok {
		fmt.Println("ok")
		return nil
	}
	status := 0
	if resp := c.LastResponse(); resp != nil {
		status = resp.StatusCode
	}
	return fmt.Errorf("failed (status %d)", status)
}

func requireArgs(cctx *cli.Context, n int) error {
	if cctx.Args().Len() < n {
		return fmt.Errorf("expected %d argument(s): %s", n, cctx.Command.ArgsUsage)
	}
	return nil
}
