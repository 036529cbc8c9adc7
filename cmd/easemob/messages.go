package main

import (
	"fmt"
	"strings"

	"github.com/aussiebroadwan/easemob/internal/app"
	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/urfave/cli/v2"
)

var cmdMessage = &cli.Command{
	Name:  "message",
	Usage: "sub-commands for messages",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:      "send",
			Usage:     "send a text message",
			ArgsUsage: `<text>`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "from",
					Usage: "sender username",
					Value: easemob.DefaultSender,
				},
				&cli.StringSliceFlag{
					Name:     "to",
					Usage:    "recipient username or group id (repeatable)",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "group",
					Usage: "recipients are chat groups",
				},
				&cli.StringSliceFlag{
					Name:  "ext",
					Usage: "extension attribute as key=value (repeatable)",
				},
			},
			Action: runMessageSend,
		},
	},
}

var cmdHistory = &cli.Command{
	Name:  "history",
	Usage: "print a page of chat history",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "ql",
			Usage: "query expression",
			Value: easemob.DefaultChatRecordQL,
		},
		&cli.StringFlag{
			Name:  "cursor",
			Usage: "cursor from a previous page",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "records per page",
			Value: easemob.DefaultChatRecordLimit,
		},
	},
	Action: runHistory,
}

func runMessageSend(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}

	msg := easemob.TextMessage{
		From:    cctx.String("from"),
		To:      cctx.StringSlice("to"),
		Content: strings.Join(cctx.Args().Slice(), " "),
	}
	if cctx.Bool("group") {
		msg.TargetType = easemob.TargetChatGroups
	}
	ext, err := parseKeyValues(cctx.StringSlice("ext"))
	if err != nil {
		return err
	}
	if len(ext) > 0 {
		msg.Ext = ext
	}

	return withApp(cctx, func(a *app.Application) error {
		resp, err := a.Client().SendMessage(cctx.Context, msg)
		if err != nil {
			return err
		}
		if err := resp.Err(); err != nil {
			return err
		}
		for target, result := range resp.Data {
			fmt.Printf("%s\t%s\n", target, result)
		}
		return nil
	})
}

func runHistory(cctx *cli.Context) error {
	q := easemob.ChatRecordQuery{
		QL:     cctx.String("ql"),
		Cursor: cctx.String("cursor"),
		Limit:  cctx.Int("limit"),
	}
	return withApp(cctx, func(a *app.Application) error {
		resp, err := a.Client().ChatRecord(cctx.Context, q)
		if err != nil {
			return err
		}
		if err := resp.Err(); err != nil {
			return err
		}
		if err := printJSON(resp.Entities); err != nil {
			return err
		}
		if resp.Cursor != "" {
			a.Logger().Info("more history available", "cursor", resp.Cursor)
		}
		return nil
	})
}

func parseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", p)
		}
		out[k] = v
	}
	return out, nil
}
