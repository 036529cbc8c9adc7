package main

import (
	"github.com/aussiebroadwan/easemob/internal/app"
	"github.com/urfave/cli/v2"
)

var cmdUser = &cli.Command{
	Name:  "user",
	Usage: "sub-commands for IM users",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:      "show",
			Usage:     "print a user",
			ArgsUsage: `<username>`,
			Action:    runUserShow,
		},
		&cli.Command{
			Name:      "activate",
			Usage:     "re-enable a user",
			ArgsUsage: `<username>`,
			Action:    runUserActivate,
		},
		&cli.Command{
			Name:      "deactivate",
			Usage:     "disable a user",
			ArgsUsage: `<username>`,
			Action:    runUserDeactivate,
		},
	},
}

var cmdBlock = &cli.Command{
	Name:  "block",
	Usage: "sub-commands for user blocklists",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:      "add",
			Usage:     "block users on behalf of owner",
			ArgsUsage: `<owner> <username>...`,
			Action:    runBlockAdd,
		},
		&cli.Command{
			Name:      "remove",
			Usage:     "unblock a user on behalf of owner",
			ArgsUsage: `<owner> <username>`,
			Action:    runBlockRemove,
		},
	},
}

func runUserShow(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	return withApp(cctx, func(a *app.Application) error {
		resp, err := a.Client().UserDetails(cctx.Context, cctx.Args().First())
		if err != nil {
			return err
		}
		if err := resp.Err(); err != nil {
			return err
		}
		return printJSON(resp.Entities)
	})
}

func runUserActivate(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().Activate(cctx.Context, cctx.Args().First())
		return printResult(a.Client(), ok, err)
	})
}

func runUserDeactivate(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().Deactivate(cctx.Context, cctx.Args().First())
		return printResult(a.Client(), ok, err)
	})
}

func runBlockAdd(cctx *cli.Context) error {
	if err := requireArgs(cctx, 2); err != nil {
		return err
	}
	args := cctx.Args().Slice()
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().AddToBlocks(cctx.Context, args[0], args[1:])
		return printResult(a.Client(), ok, err)
	})
}

func runBlockRemove(cctx *cli.Context) error {
	if err := requireArgs(cctx, 2); err != nil {
		return err
	}
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().RemoveFromBlocks(cctx.Context, cctx.Args().Get(0), cctx.Args().Get(1))
		return printResult(a.Client(), ok, err)
	})
}
