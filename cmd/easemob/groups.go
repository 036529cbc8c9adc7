package main

import (
	"fmt"

	"github.com/aussiebroadwan/easemob/internal/app"
	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/urfave/cli/v2"
)

var cmdGroup = &cli.Command{
	Name:  "group",
	Usage: "sub-commands for chat groups",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:      "show",
			Usage:     "print one or more groups",
			ArgsUsage: `<group-id>...`,
			Action:    runGroupShow,
		},
		&cli.Command{
			Name:      "update",
			Usage:     "change group name, description or member cap",
			ArgsUsage: `<group-id>`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "new group name"},
				&cli.StringFlag{Name: "description", Usage: "new description"},
				&cli.IntFlag{Name: "max-users", Usage: "new member cap"},
			},
			Action: runGroupUpdate,
		},
		&cli.Command{
			Name:      "add-member",
			Usage:     "add one user to a group",
			ArgsUsage: `<group-id> <username>`,
			Action:    runGroupAddMember,
		},
		&cli.Command{
			Name:      "add-members",
			Usage:     "add several users to a group",
			ArgsUsage: `<group-id> <username>...`,
			Action:    runGroupAddMembers,
		},
	},
}

func runGroupShow(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	ids := cctx.Args().Slice()
	return withApp(cctx, func(a *app.Application) error {
		var (
			resp *easemob.GroupResponse
			err  error
		)
		if len(ids) == 1 {
			resp, err = a.Client().GroupDetails(cctx.Context, ids[0])
		} else {
			resp, err = a.Client().GroupsDetails(cctx.Context, ids)
		}
		if err != nil {
			return err
		}
		if err := resp.Err(); err != nil {
			return err
		}
		return printJSON(resp.Data)
	})
}

func runGroupUpdate(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	update := easemob.GroupUpdate{
		GroupName:   cctx.String("name"),
		Description: cctx.String("description"),
		MaxUsers:    cctx.Int("max-users"),
	}
	if update == (easemob.GroupUpdate{}) {
		return fmt.Errorf("nothing to update: set --name, --description or --max-users")
	}
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().UpdateGroup(cctx.Context, cctx.Args().First(), update)
		return printResult(a.Client(), ok, err)
	})
}

func runGroupAddMember(cctx *cli.Context) error {
	if err := requireArgs(cctx, 2); err != nil {
		return err
	}
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().AddMember(cctx.Context, cctx.Args().Get(0), cctx.Args().Get(1))
		return printResult(a.Client(), ok, err)
	})
}

func runGroupAddMembers(cctx *cli.Context) error {
	if err := requireArgs(cctx, 2); err != nil {
		return err
	}
	args := cctx.Args().Slice()
	return withApp(cctx, func(a *app.Application) error {
		ok, err := a.Client().AddMembers(cctx.Context, args[0], args[1:])
		return printResult(a.Client(), ok, err)
	})
}
