//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/obinnaokechukwu/ffframes"
	"github.com/urfave/cli/v2"
)

func (r *runner) probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "describe the video stream of each file",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print a JSON array instead of text"},
		},
		Action: r.probe,
	}
}

func (r *runner) probe(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("probe: no input files", 2)
	}
	if err := r.initFFmpeg(); err != nil {
		return err
	}

	infos := make([]ffframes.Info, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		info, err := r.describe(path)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	for _, info := range infos {
		printInfo(c.App.Writer, info)
	}
	return nil
}

func (r *runner) describe(path string) (ffframes.Info, error) {
	s, err := ffframes.Open(path, ffframes.WithLogger(r.log), ffframes.WithMetrics(r.metrics))
	if err != nil {
		return ffframes.Info{}, err
	}
	defer s.Close()
	return s.Info()
}

func printInfo(w io.Writer, i ffframes.Info) {
	fmt.Fprintf(w, "%s\n", i.Filename)
	fmt.Fprintf(w, "  format:     %s", i.Format)
	if i.FormatLongName != "" {
		fmt.Fprintf(w, " (%s)", i.FormatLongName)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  stream:     #%d of %d\n", i.StreamIndex, i.StreamCount)
	fmt.Fprintf(w, "  codec:      %s, %s\n", i.Codec, i.PixelFormat)
	fmt.Fprintf(w, "  size:       %dx%d\n", i.Width, i.Height)
	fmt.Fprintf(w, "  frame rate: %s (%.3f fps)\n", i.FrameRate, i.FrameRate.Float64())
	fmt.Fprintf(w, "  time base:  %s (stream %s)\n", i.TimeBase, i.StreamTimeBase)
	if i.Frames > 0 {
		fmt.Fprintf(w, "  frames:     %d\n", i.Frames)
	}
	fmt.Fprintf(w, "  duration:   %s\n", i.Duration)
	fmt.Fprintf(w, "  bit rate:   %d b/s\n", i.BitRate)
}
