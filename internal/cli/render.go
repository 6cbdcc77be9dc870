package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/render/sink"
	"github.com/matzehuels/coinmap/pkg/widget"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	output  string
	formats string
	width   float64
	height  float64
	padding float64
	scale   float64
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the category treemap to a file",
		Long: `Fetch categories and render the treemap.

Formats: svg (interactive tooltip), html (page with heading), png, json (layout export).
Several formats can be given comma-separated; each is written next to -o with its own extension.
When the fetch fails the error state is rendered instead and the command exits non-zero.`,
		Example: `  coinmap render -o treemap.svg
  coinmap render -f html,png -o out/treemap
  coinmap render -f json -o - | jq '.leaves[0]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if !cmd.Flags().Changed("width") {
				opts.width = cfg.Chart.Width
			}
			if !cmd.Flags().Changed("height") {
				opts.height = cfg.Chart.Height
			}
			if !cmd.Flags().Changed("padding") {
				opts.padding = cfg.Chart.Padding
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()

			client, backend, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			return c.runRender(ctx, client, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "treemap.svg", "output file (- for stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, html, png, json (default from -o extension)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "gap between rectangles")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "PNG pixel scale")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the response cache")

	return cmd
}

// runRender fetches once and writes one artifact per requested format.
// A failed fetch still writes the error state; the fetch error is returned
// after all files are written.
func (c *CLI) runRender(ctx context.Context, src widget.Source, opts renderOpts, stdout, stderr io.Writer) error {
	formats, err := parseFormats(opts.formats, opts.output)
	if err != nil {
		return err
	}
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	if opts.output == "-" && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
	}
	if err := errors.ValidateDimensions(opts.width, opts.height); err != nil {
		return err
	}
	if opts.padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
	}

	spin := newSpinner(ctx, stderr, "Fetching categories...")
	spin.Start()
	prog := newProgress(c.Logger)

	// One fetch feeds every format. The probe chart normalizes the data and
	// assigns the generation id shared by all artifacts.
	probe := widget.New(src, sink.NewJSONCanvas(opts.width, opts.height), widget.Options{Padding: opts.padding})
	var fetchErr error
	if opts.refresh {
		fetchErr = probe.Refresh(ctx)
	} else {
		fetchErr = probe.Mount(ctx)
	}
	if fetchErr != nil {
		spin.StopWithError(widget.ErrorMessage(fetchErr))
	} else {
		spin.Stop()
		prog.done(fmt.Sprintf("Fetched %d categories", len(probe.Categories())))
	}

	replay := replaySource(probe.Categories(), fetchErr)
	for _, format := range formats {
		path := outputPath(opts.output, format, len(formats) > 1)
		data, err := renderFormat(ctx, replay, format, probe.Generation(), opts)
		if err != nil {
			return err
		}
		if err := writeOutput(path, data, stdout); err != nil {
			return err
		}
		if path != "-" {
			printFile(stderr, path)
		}
	}
	return fetchErr
}

// renderFormat draws one chart from src onto a fresh canvas for format.
func renderFormat(ctx context.Context, src widget.Source, format, generation string, opts renderOpts) ([]byte, error) {
	canvas, err := sink.NewCanvas(format, opts.width, opts.height, sink.Options{
		Scale:      opts.scale,
		Padding:    opts.padding,
		Generation: generation,
	})
	if err != nil {
		return nil, err
	}
	// Mount draws the error state on failure, which is what gets written.
	_ = widget.New(src, canvas, widget.Options{Padding: opts.padding}).Mount(ctx)
	data, err := canvas.Bytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}

// replaySource serves the result of a previous fetch.
func replaySource(cats []category.Category, err error) widget.Source {
	return widget.SourceFunc(func(context.Context, bool) ([]category.Category, error) {
		if err != nil {
			return nil, err
		}
		return append([]category.Category(nil), cats...), nil
	})
}

// parseFormats resolves the comma-separated format list. When it is empty
// the format is taken from the output extension, falling back to svg.
func parseFormats(list, output string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		ext := strings.TrimPrefix(filepath.Ext(output), ".")
		if ext == "" {
			return []string{sink.FormatSVG}, nil
		}
		f, err := sink.ParseFormat(ext)
		if err != nil {
			return nil, err
		}
		return []string{f}, nil
	}

	var formats []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(list, ",") {
		f, err := sink.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// outputPath returns where format is written. With several formats the
// output's extension is replaced by each format's.
func outputPath(output, format string, multi bool) string {
	if output == "-" {
		return output
	}
	if !multi && filepath.Ext(output) != "" {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
