//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/obinnaokechukwu/ffframes"
	"github.com/obinnaokechukwu/ffframes/internal/config"
	"github.com/obinnaokechukwu/ffframes/internal/dump"
	ffflog "github.com/obinnaokechukwu/ffframes/internal/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (r *runner) extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "write decoded frames as images",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory", EnvVars: []string{"FFFRAMES_OUTPUT"}},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "image format: png, bmp, tiff or ppm", EnvVars: []string{"FFFRAMES_FORMAT"}},
			&cli.IntFlag{Name: "width", Usage: "resize frames to this width (with --height)"},
			&cli.IntFlag{Name: "height", Usage: "resize frames to this height (with --width)"},
			&cli.StringFlag{Name: "scale", Usage: "scaling algorithm (bicubic, bilinear, lanczos, area, point, ...)"},
			&cli.IntFlag{Name: "every", Usage: "write every Nth frame"},
			&cli.IntFlag{Name: "max", Usage: "stop after this many frames per input (0 = all)"},
			&cli.IntFlag{Name: "concurrency", Aliases: []string{"j"}, Usage: "inputs decoded at once", EnvVars: []string{"FFFRAMES_CONCURRENCY"}},
		},
		Action: r.extract,
	}
}

// extractFlags applies the command's flags over the configured values.
func extractFlags(c *cli.Context, e config.ExtractConfig) config.ExtractConfig {
	if c.IsSet("output") {
		e.OutputDir = c.String("output")
	}
	if c.IsSet("format") {
		e.Format = c.String("format")
	}
	if c.IsSet("width") {
		e.Width = c.Int("width")
	}
	if c.IsSet("height") {
		e.Height = c.Int("height")
	}
	if c.IsSet("scale") {
		e.Scale = c.String("scale")
	}
	if c.IsSet("every") {
		e.Every = c.Int("every")
	}
	if c.IsSet("max") {
		e.Max = c.Int("max")
	}
	if c.IsSet("concurrency") {
		e.Concurrency = c.Int("concurrency")
	}
	return e
}

func (r *runner) extract(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("extract: no input files", 2)
	}

	cfg := r.cfg
	cfg.Extract = extractFlags(c, cfg.Extract)
	if err := cfg.Validate(); err != nil {
		return err
	}
	flags, err := ffframes.ParseScaleFlags(cfg.Extract.Scale)
	if err != nil {
		return err
	}

	inputs := c.Args().Slice()
	if err := uniqueOutputs(cfg.Extract.OutputDir, inputs); err != nil {
		return err
	}
	if err := r.initFFmpeg(); err != nil {
		return err
	}

	written := make([]int, len(inputs))

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(cfg.Extract.Concurrency)
	for i, path := range inputs {
		i, path := i, path
		g.Go(func() error {
			n, err := r.extractOne(ctx, path, cfg.Extract, flags)
			written[i] = n
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	err = g.Wait()

	for i, path := range inputs {
		fmt.Fprintf(c.App.Writer, "%s: %d frames in %s\n", path, written[i], dump.Dir(cfg.Extract.OutputDir, path))
	}
	return err
}

// uniqueOutputs rejects inputs that would write into the same directory,
// which only happens when the same file is named twice.
func uniqueOutputs(dir string, inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		d := dump.Dir(dir, in)
		if prev, ok := seen[d]; ok {
			return cli.Exit(fmt.Sprintf("extract: %s and %s would both write to %s", prev, in, d), 2)
		}
		seen[d] = in
	}
	return nil
}

// extractOne decodes path and writes every e.Every-th frame, up to e.Max.
func (r *runner) extractOne(ctx context.Context, path string, e config.ExtractConfig, flags ffframes.ScaleFlags) (int, error) {
	log := ffflog.WithComponent(r.log, "extract")

	s, err := ffframes.Open(path,
		ffframes.WithSize(e.Width, e.Height),
		ffframes.WithScaleFlags(flags),
		ffframes.WithLogger(log),
		ffframes.WithMetrics(r.metrics),
	)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	written := 0
	for e.Max == 0 || written < e.Max {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, err
		}
		if f.Index()%int64(e.Every) != 0 {
			continue
		}

		out := dump.Path(e.OutputDir, path, f.Index(), e.Format)
		rgb := dump.RGB{Pix: f.Data(), Width: f.Width(), Height: f.Height(), Stride: f.Stride()}
		if err := dump.WriteFile(out, e.Format, rgb); err != nil {
			return written, err
		}
		written++
	}

	log.Info().Str("path", path).Int("frames", written).Msg("extracted")
	return written, nil
}
