package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/bsau3130/ipxe/internal/compress"
	"github.com/bsau3130/ipxe/internal/logger"
	"github.com/bsau3130/ipxe/pkg/zimage"
	"github.com/bsau3130/ipxe/pkg/zinfo"
)

func buildCmd() *cli.Command {
	var (
		outputPath     string
		capacityFactor int64
	)

	return &cli.Command{
		Name:      "build",
		Usage:     "Assemble the compressed image from a binary and its .zinfo stream",
		ArgsUsage: "<file.bin> <file.zinfo>",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path ('-' writes the image to stdout)",
				Value:       "-",
				Destination: &outputPath,
			},
			&cli.IntFlag{
				Name:        "capacity-factor",
				Usage:       "output capacity as a multiple of the input length",
				Value:       4,
				Destination: &capacityFactor,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return errors.New("build: expected <file.bin> <file.zinfo>")
			}
			binPath := cmd.Args().Get(0)
			zinfoPath := cmd.Args().Get(1)

			applyConfig(cmd, LoadConfig(), &capacityFactor)
			if capacityFactor < 1 {
				return fmt.Errorf("build: capacity factor %d is not positive", capacityFactor)
			}

			log := logger.Setup(logFormat, logLevel).With("build_id", uuid.NewString())

			in, err := zimage.OpenInput(binPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", binPath, err)
			}
			defer func() { _ = in.Close() }()

			records, err := zinfo.Load(zinfoPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", zinfoPath, err)
			}
			log.Debug("inputs loaded",
				"input_len", in.Len(), "directives", len(records))

			comp, err := compress.NewZstd()
			if err != nil {
				return fmt.Errorf("compressor: %w", err)
			}
			defer func() { _ = comp.Close() }()

			img, err := zimage.Assemble(in, uint64(capacityFactor)*in.Len(), comp, log, records)
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}

			if err := writeImage(outputPath, img); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}
			return nil
		},
	}
}

func writeImage(path string, img []byte) error {
	if path == "-" {
		return writeFull(os.Stdout, img)
	}
	return os.WriteFile(path, img, 0o644)
}

func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
