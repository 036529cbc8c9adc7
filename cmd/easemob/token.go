package main

import (
	"fmt"

	"github.com/aussiebroadwan/easemob/internal/app"
	"github.com/aussiebroadwan/easemob/pkg/cryptox"
	"github.com/urfave/cli/v2"
)

var cmdToken = &cli.Command{
	Name:  "token",
	Usage: "show or refresh the cached access token",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "refresh",
			Usage: "discard the cached token and perform a new grant",
		},
		&cli.BoolFlag{
			Name:  "reveal",
			Usage: "print the token itself instead of its fingerprint",
		},
	},
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:   "forget",
			Usage:  "delete the cached token",
			Action: runTokenForget,
		},
	},
	Action: runToken,
}

func runToken(cctx *cli.Context) error {
	return withApp(cctx, func(a *app.Application) error {
		ctx := cctx.Context
		if cctx.Bool("refresh") {
			tr, err := a.RefreshToken(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("expires_in\t%d\n", tr.ExpiresIn)
			if tr.Application != "" {
				fmt.Printf("application\t%s\n", tr.Application)
			}
		}

		tok, err := a.Client().Token(ctx)
		if err != nil {
			return err
		}
		if cctx.Bool("reveal") {
			fmt.Println(tok)
			return nil
		}
		fmt.Printf("fingerprint\t%s\n", cryptox.ShortFingerprint(tok))
		return nil
	})
}

func runTokenForget(cctx *cli.Context) error {
	return withApp(cctx, func(a *app.Application) error {
		if err := a.ForgetToken(cctx.Context); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	})
}
