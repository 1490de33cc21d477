package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/bsau3130/ipxe/pkg/zinfo"
)

// directiveListing is the JSON shape of one record. COPY/PACK carry
// len/align, SUBx carry divisor.
type directiveListing struct {
	Index   int     `json:"index"`
	Tag     string  `json:"tag"`
	Offset  uint32  `json:"offset"`
	Len     *uint32 `json:"len,omitempty"`
	Align   *uint32 `json:"align,omitempty"`
	Divisor *uint32 `json:"divisor,omitempty"`
}

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "List the directives in a .zinfo stream",
		ArgsUsage: "<file.zinfo>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the directive list as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("inspect: expected <file.zinfo>")
			}

			records, err := zinfo.Load(cmd.Args().Get(0))
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(records)
			}
			for i, rec := range records {
				fmt.Printf("%4d  %s\n", i, rec)
			}
			fmt.Printf("%d directives\n", len(records))
			return nil
		},
	}
}

func printJSON(records []zinfo.Record) error {
	listings := make([]directiveListing, 0, len(records))
	for i, rec := range records {
		l := directiveListing{
			Index:  i,
			Tag:    rec.Tag.String(),
			Offset: rec.Offset,
		}
		switch rec.Tag {
		case zinfo.TagSubByte, zinfo.TagSubWord, zinfo.TagSubLong:
			divisor := rec.Divisor()
			l.Divisor = &divisor
		default:
			length, align := rec.Len, rec.Align
			l.Len = &length
			l.Align = &align
		}
		listings = append(listings, l)
	}

	out, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	return writeFull(os.Stdout, out)
}
