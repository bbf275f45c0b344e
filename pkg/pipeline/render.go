package pipeline

import (
	"context"
	"fmt"

	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
)

// pngScale is the raster scale for PNG exports.
const pngScale = 2.0

// RenderFormats exports s in each of opts.Formats.
func RenderFormats(ctx context.Context, s snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, s snapshot.Snapshot, format string, opts Options) ([]byte, error) {
	frame := s.Frame()
	switch format {
	case FormatJSON:
		return snapshot.Marshal(s)
	case FormatSVG:
		return render.RenderSVG(frame, render.WithMeasurer(opts.Measurer)), nil
	case FormatDOT:
		return []byte(toDOT(s, opts)), nil
	case FormatNeato:
		return render.RenderDOT(ctx, toDOT(s, opts))
	case FormatPNG:
		return render.ToPNG(render.RenderSVG(frame, render.WithMeasurer(opts.Measurer)), pngScale)
	case FormatPDF:
		return render.ToPDF(render.RenderSVG(frame, render.WithMeasurer(opts.Measurer)))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func toDOT(s snapshot.Snapshot, opts Options) string {
	return render.ToDOT(s.Frame(), render.DOTOptions{
		TextKey: opts.Measurer.TextKey,
		Columns: opts.Measurer.Columns(opts.MindMap.ItemWidth),
	})
}
