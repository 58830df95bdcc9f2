package chart

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leapstack-labs/leapgantt/pkg/core"
)

// Image formats supported by RenderImage.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ImageOptions configures RenderImage.
type ImageOptions struct {
	Format string
	Width  int
	Height int
	// FontPath points at a TrueType font. The built-in font has no CJK glyphs,
	// so schedules with Chinese labels need one.
	FontPath string
}

const (
	imagePadding   = 16
	imageTitleSize = 14.0
	imageTextSize  = 10.0
	imageLegendRow = 24
	imageAxisRow   = 22
	imageMinRow    = 12
)

var (
	gridColor = drawing.Color{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}
	textColor = drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// ImageFormat maps a file name or format string to a supported format.
func ImageFormat(name string) (string, error) {
	n := strings.ToLower(name)
	switch {
	case n == FormatPNG || strings.HasSuffix(n, ".png"):
		return FormatPNG, nil
	case n == FormatSVG || strings.HasSuffix(n, ".svg"):
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported image format %q (expected png or svg)", name)
}

// RenderImage draws spec as a static Gantt chart.
func RenderImage(w io.Writer, spec core.ChartSpec, opts ImageOptions) error {
	if opts.Width == 0 {
		opts.Width = 1200
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	opts.Height = max(opts.Height, minImageHeight(spec))

	var provider gochart.RendererProvider
	switch opts.Format {
	case FormatPNG, "":
		provider = gochart.PNG
	case FormatSVG:
		provider = gochart.SVG
	default:
		return fmt.Errorf("unsupported image format %q", opts.Format)
	}

	font, err := loadFont(opts.FontPath)
	if err != nil {
		return err
	}

	r, err := provider(opts.Width, opts.Height)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	r.SetFont(font)

	g := &ganttCanvas{r: r, spec: spec, width: opts.Width, height: opts.Height}
	g.draw()

	if err := r.Save(w); err != nil {
		return fmt.Errorf("failed to encode %s: %w", opts.Format, err)
	}
	return nil
}

// minImageHeight is the height at which every row gets imageMinRow pixels.
func minImageHeight(spec core.ChartSpec) int {
	h := 2*imagePadding + imageLegendRow + imageAxisRow + len(spec.Categories)*imageMinRow
	if spec.Title != "" {
		h += int(imageTitleSize) + imagePadding
	}
	return h
}

func loadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return gochart.GetDefaultFont()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return font, nil
}

// ganttCanvas lays out one chart on a go-chart renderer.
type ganttCanvas struct {
	r      gochart.Renderer
	spec   core.ChartSpec
	width  int
	height int

	left, top, right, bottom int
	min, max                 time.Time
}

func (g *ganttCanvas) draw() {
	g.fillRect(0, 0, g.width, g.height, drawing.ColorWhite, drawing.ColorWhite)

	g.top = imagePadding
	if g.spec.Title != "" {
		g.text(g.spec.Title, imageTitleSize, imagePadding, imagePadding+int(imageTitleSize))
		g.top += int(imageTitleSize) + imagePadding
	}
	g.top += imageLegendRow

	g.r.SetFontSize(imageTextSize)
	labelWidth := 0
	for _, c := range g.spec.Categories {
		if w := g.r.MeasureText(c).Width(); w > labelWidth {
			labelWidth = w
		}
	}
	g.left = imagePadding + labelWidth + imagePadding/2
	g.right = g.width - imagePadding
	g.bottom = g.height - imagePadding - imageAxisRow

	g.min, g.max = g.spec.AxisMin, g.spec.AxisMax
	if !g.max.After(g.min) {
		g.max = g.min.Add(24 * time.Hour)
	}

	g.drawLegend()
	g.drawGrid()
	g.drawPrimitives()
}

// rowCenter returns the vertical center and height of row i.
func (g *ganttCanvas) rowCenter(i int) (int, int, bool) {
	n := len(g.spec.Categories)
	if i < 0 || i >= n {
		return 0, 0, false
	}
	rowH := (g.bottom - g.top) / n
	return g.top + i*rowH + rowH/2, rowH, true
}

func (g *ganttCanvas) x(t time.Time) int {
	span := g.max.Sub(g.min).Seconds()
	off := t.Sub(g.min).Seconds()
	return g.left + int(float64(g.right-g.left)*off/span)
}

func (g *ganttCanvas) drawLegend() {
	x := g.left
	y := g.top - imageLegendRow/2
	g.r.SetFontSize(imageTextSize)
	for _, e := range g.spec.Legend {
		c := hexColor(e.Color)
		g.fillRect(x, y-5, x+10, y+5, c, c)
		g.text(e.Resource, imageTextSize, x+14, y+4)
		x += 14 + g.r.MeasureText(e.Resource).Width() + imagePadding
	}
}

func (g *ganttCanvas) drawGrid() {
	for i, c := range g.spec.Categories {
		y, _, _ := g.rowCenter(i)
		g.text(c, imageTextSize, imagePadding, y+4)
	}

	for _, tick := range dateTicks(g.min, g.max, 8) {
		x := g.x(tick)
		g.line(x, g.top, x, g.bottom, gridColor)
		label := tick.Format("2006-01-02")
		w := g.r.MeasureText(label).Width()
		g.text(label, imageTextSize, x-w/2, g.bottom+imageAxisRow-6)
	}
	g.line(g.left, g.bottom, g.right, g.bottom, textColor)
}

func (g *ganttCanvas) drawPrimitives() {
	fallback := DefaultFallbackColor
	for _, p := range g.spec.Primitives {
		y, rowH, ok := g.rowCenter(p.RowIndex())
		if !ok {
			continue
		}
		color := hexColor(g.spec.ColorOf(p.Owner(), fallback))
		half := rowH / 3
		if half < 2 {
			half = 2
		}

		switch v := p.(type) {
		case core.Bar:
			x1, x2 := g.x(v.Start), g.x(v.End())
			if x2 < x1 {
				x1, x2 = x2, x1
			}
			if x2 == x1 {
				x2 = x1 + 1
			}
			g.fillRect(x1, y-half, x2, y+half, color, color)
		case core.Marker:
			fill := hexColor(g.spec.MilestoneColor)
			g.diamond(g.x(v.At), y, 8, fill, color)
		}
	}
}

func (g *ganttCanvas) fillRect(x1, y1, x2, y2 int, fill, stroke drawing.Color) {
	g.r.SetFillColor(fill)
	g.r.SetStrokeColor(stroke)
	g.r.SetStrokeWidth(1)
	g.r.MoveTo(x1, y1)
	g.r.LineTo(x2, y1)
	g.r.LineTo(x2, y2)
	g.r.LineTo(x1, y2)
	g.r.Close()
	g.r.FillStroke()
}

func (g *ganttCanvas) diamond(x, y, size int, fill, stroke drawing.Color) {
	g.r.SetFillColor(fill)
	g.r.SetStrokeColor(stroke)
	g.r.SetStrokeWidth(2)
	g.r.MoveTo(x, y-size)
	g.r.LineTo(x+size, y)
	g.r.LineTo(x, y+size)
	g.r.LineTo(x-size, y)
	g.r.Close()
	g.r.FillStroke()
}

func (g *ganttCanvas) line(x1, y1, x2, y2 int, c drawing.Color) {
	g.r.SetStrokeColor(c)
	g.r.SetStrokeWidth(1)
	g.r.MoveTo(x1, y1)
	g.r.LineTo(x2, y2)
	g.r.Stroke()
}

func (g *ganttCanvas) text(s string, size float64, x, y int) {
	g.r.SetFontSize(size)
	g.r.SetFontColor(textColor)
	g.r.Text(s, x, y)
}

// dateTicks returns at most n+1 midnight ticks spanning [from, to], spaced
// by a whole number of days.
func dateTicks(from, to time.Time, n int) []time.Time {
	days := int(to.Sub(from).Hours()/24) + 1
	step := days / n
	if step < 1 {
		step = 1
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	var ticks []time.Time
	for t := start; !t.After(to); t = t.AddDate(0, 0, step) {
		if !t.Before(from) {
			ticks = append(ticks, t)
		}
	}
	return ticks
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
