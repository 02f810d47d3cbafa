package view

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Render rasterises f at the given resolution.
func Render(f Figure, dpi int) image.Image {
	w, h := f.Size()
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(FigureColor))
	f.Draw(draw.New(c))
	return c.Image()
}

// Formats lists the file types WriteTo and Save understand.
var Formats = []string{"png", "jpg", "svg", "pdf"}

func canvasFor(format string, w, h vg.Length, dpi int) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(FigureColor))}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(FigureColor))}, nil
	case "svg":
		return vgsvg.New(w, h), nil
	case "pdf":
		return vgpdf.New(w, h), nil
	}
	return nil, fmt.Errorf("unsupported figure format %q (available: %v)", format, Formats)
}

// WriteTo draws f in the given format to w.
func WriteTo(w io.Writer, f Figure, format string, dpi int) error {
	fw, fh := f.Size()
	c, err := canvasFor(format, fw, fh, dpi)
	if err != nil {
		return err
	}
	f.Draw(draw.New(c))
	_, err = c.WriteTo(w)
	return err
}

// Save writes f to path, choosing the format from the file extension.
func Save(f Figure, path string, dpi int) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%s: no file extension to pick a format from", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTo(file, f, format, dpi); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
