package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/aussiebroadwan/easemob/internal/app"
	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/urfave/cli/v2"
)

var cmdRequest = &cli.Command{
	Name:      "request",
	Usage:     "send a raw authenticated request and print the response body",
	ArgsUsage: `<verb> <path>`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "body",
			Usage: "JSON request body",
		},
		&cli.StringSliceFlag{
			Name:  "query",
			Usage: "query parameter as key=value (repeatable)",
		},
	},
	Action: runRequest,
}

func runRequest(cctx *cli.Context) error {
	if err := requireArgs(cctx, 2); err != nil {
		return err
	}

	verb, err := easemob.ParseVerb(cctx.Args().Get(0))
	if err != nil {
		return err
	}

	opts := &easemob.RequestOptions{}
	if raw := cctx.String("body"); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("--body is not valid JSON")
		}
		opts.Body = json.RawMessage(raw)
	}
	if pairs := cctx.StringSlice("query"); len(pairs) > 0 {
		kv, err := parseKeyValues(pairs)
		if err != nil {
			return err
		}
		opts.Query = url.Values{}
		for k, v := range kv {
			opts.Query.Add(k, v.(string))
		}
	}

	return withApp(cctx, func(a *app.Application) error {
		resp, err := a.Client().Dispatch(cctx.Context, verb, cctx.Args().Get(1), opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "HTTP %d\n", resp.StatusCode)
		_, err = os.Stdout.Write(resp.Body)
		return err
	})
}
