package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/observability"
	"github.com/matzehuels/schematic/pkg/render/sink"
	"github.com/matzehuels/schematic/pkg/render/symbol"
)

// Render generates output artifacts in the requested formats. Rendering is
// pure: the same diagram and options always produce the same bytes.
func Render(ctx context.Context, d *circuit.Diagram, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := renderFormat(ctx, d, format, svgOpts, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, d *circuit.Diagram, format string, svgOpts []sink.SVGOption, opts Options) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err) }()

	switch format {
	case FormatSVG:
		data = sink.RenderSVG(d, svgOpts...)
	case FormatPNG:
		data, err = sink.RenderPNG(ctx, d, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, d, svgOpts...)
	case FormatJSON:
		data, err = sink.RenderJSON(d)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		return nil, err
	}
	return data, nil
}

// buildSVGOptions maps pipeline options onto SVG sink options.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	theme, err := symbol.ThemeByName(opts.Theme)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithTheme(theme)}
	if opts.Legend {
		svgOpts = append(svgOpts, sink.WithLegend())
	}
	return svgOpts, nil
}

// RenderError draws the inline error panel for a block that failed to parse.
func RenderError(err error, raw string, opts Options) []byte {
	var svgOpts []sink.SVGOption
	if theme, terr := symbol.ThemeByName(opts.Theme); terr == nil {
		svgOpts = append(svgOpts, sink.WithTheme(theme))
	}
	return sink.RenderErrorSVG(panelMessage(err), raw, svgOpts...)
}

// panelMessage is the error text without the code prefix, keeping the cause.
func panelMessage(err error) string {
	msg := errors.UserMessage(err)
	if cause := stderrors.Unwrap(err); cause != nil && errors.GetCode(err) != "" {
		msg += ": " + cause.Error()
	}
	return msg
}
