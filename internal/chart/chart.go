// Package chart renders aggregates as fixed-size PNG bar charts.
package chart

import (
	"fmt"
	"math"
	"os"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// 10in x 6in at 120dpi.
const (
	Width  = 1200
	Height = 720
	DPI    = 120

	labelFontSize = 8.0
	axisTitleSize = 10.0
	// labels run up and to the right, ending under their bar
	labelRotation = -45.0
	maxLabelWidth = 360

	padTop     = 50
	padRight   = 20
	minPadLeft = 60

	// room right of the canvas for the y-axis ticks and title
	yAxisReserve = 140
	labelMargin  = 10
	maxBarPitch  = 80
)

var cos45 = math.Sqrt2 / 2

const maxPlotValue = 1e300

// Bar is one labelled value, plotted in slice order.
type Bar struct {
	Label string
	Value float64
}

type BarChartOptions struct {
	Title  string
	XLabel string
	YLabel string

	// ValueFormat is the fmt verb for y tick labels. Empty picks one from the
	// tick step.
	ValueFormat string

	// IntegerValues keeps y ticks on whole numbers.
	IntegerValues bool

	Bars []Bar
}

var barColor = drawing.Color{R: 31, G: 119, B: 180, A: 255}

// RenderBars draws opts as a bar chart and writes it as PNG to path, replacing
// any existing file.
func RenderBars(path string, opts BarChartOptions) error {
	if len(opts.Bars) == 0 {
		return fmt.Errorf("render %s: no bars to plot", path)
	}

	maxValue := 0.0
	for _, b := range opts.Bars {
		if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
			return fmt.Errorf("render %s: bar %q has non-finite value %v", path, b.Label, b.Value)
		}
		// ticks above this overflow to +Inf
		if math.Abs(b.Value) > maxPlotValue {
			return fmt.Errorf("render %s: bar %q value %g out of range", path, b.Label, b.Value)
		}
		maxValue = math.Max(maxValue, b.Value)
	}

	labels, widths, textHeight, err := measureLabels(opts.Bars)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	l := computeLayout(widths, textHeight)

	bars := make([]gochart.Value, 0, len(opts.Bars))
	for _, b := range opts.Bars {
		bars = append(bars, gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{FillColor: barColor, StrokeColor: barColor, StrokeWidth: 1},
		})
	}

	ticks := niceTicks(maxValue, opts.IntegerValues, opts.ValueFormat)
	graph := gochart.BarChart{
		Title:      opts.Title,
		TitleStyle: gochart.Style{FontSize: 14},
		Width:      Width,
		Height:     Height,
		DPI:        DPI,
		Background: gochart.Style{
			Padding: gochart.Box{Top: padTop, Left: l.PadLeft, Right: padRight, Bottom: l.PadBottom},
		},
		BarWidth:     l.BarWidth,
		BarSpacing:   l.BarSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		// tick labels are drawn by xAxis, unwrapped
		XAxis: gochart.Style{Hidden: true},
		YAxis: gochart.YAxis{
			Name:  opts.YLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: ticks[len(ticks)-1].Value},
			Ticks: ticks,
		},
		Bars: bars,
	}
	graph.Elements = []gochart.Renderable{xAxis(labels, widths, textHeight, l, opts.XLabel)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := graph.Render(gochart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// layout is the chart geometry that depends on the bar labels.
type layout struct {
	PadLeft    int
	PadBottom  int
	BarWidth   int
	BarSpacing int
}

// barCenter mirrors BarChart's bar placement: each bar sits in a slot of
// BarWidth+BarSpacing starting at the canvas left edge.
func (l layout) barCenter(canvasLeft, i int) int {
	return canvasLeft + l.BarSpacing>>1 + i*(l.BarWidth+l.BarSpacing) + l.BarWidth/2
}

func (l *layout) setBars(n int) {
	pitch := (Width - l.PadLeft - padRight - yAxisReserve) / n
	if pitch > maxBarPitch {
		pitch = maxBarPitch
	}
	if pitch < 2 {
		pitch = 2
	}
	// zero would make BarChart fall back to its defaults
	l.BarWidth = pitch * 3 / 5
	if l.BarWidth < 1 {
		l.BarWidth = 1
	}
	l.BarSpacing = pitch - l.BarWidth
}

// computeLayout reserves room below the canvas for the longest rotated label
// plus the x-axis title, and left of it for labels of the first bars.
func computeLayout(widths []int, textHeight int) layout {
	maxW := 0
	for _, w := range widths {
		if w > maxW {
			maxW = w
		}
	}
	l := layout{PadLeft: minPadLeft}
	l.PadBottom = labelMargin + textHeight/2 + int(math.Ceil(float64(maxW+textHeight)*cos45)) +
		labelMargin + 2*textHeight + labelMargin

	// bar pitch depends on the left pad and the left pad on the pitch
	for pass := 0; pass < 3; pass++ {
		l.setBars(len(widths))
		need := minPadLeft
		for i, w := range widths {
			reach := int(math.Ceil(float64(w)*cos45)) - l.barCenter(0, i) + labelMargin
			if reach > need {
				need = reach
			}
		}
		if need > Width/3 {
			need = Width / 3
		}
		l.PadLeft = need
	}
	l.setBars(len(widths))
	return l
}

func newMeasurer() (gochart.Renderer, error) {
	r, err := gochart.PNG(Width, Height)
	if err != nil {
		return nil, err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetDPI(DPI)
	r.SetFont(font)
	r.SetFontSize(labelFontSize)
	return r, nil
}

// measureLabels returns the labels as they will be drawn, their unrotated
// pixel widths, and the tallest label height.
func measureLabels(bars []Bar) ([]string, []int, int, error) {
	r, err := newMeasurer()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("measure labels: %w", err)
	}
	labels := make([]string, len(bars))
	widths := make([]int, len(bars))
	textHeight := 0
	for i, b := range bars {
		labels[i] = fitLabel(r, b.Label)
		tb := r.MeasureText(labels[i])
		widths[i] = tb.Width()
		if tb.Height() > textHeight {
			textHeight = tb.Height()
		}
	}
	return labels, widths, textHeight, nil
}

// fitLabel shortens labels wider than maxLabelWidth, marking the cut with "...".
func fitLabel(r gochart.Renderer, label string) string {
	if r.MeasureText(label).Width() <= maxLabelWidth {
		return label
	}
	runes := []rune(label)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		s := strings.TrimSpace(string(runes)) + "..."
		if r.MeasureText(s).Width() <= maxLabelWidth {
			return s
		}
	}
	return string(runes)
}

// xAxis draws the baseline, one rotated label per bar and the axis title.
func xAxis(labels []string, widths []int, textHeight int, l layout, title string) gochart.Renderable {
	return func(r gochart.Renderer, canvasBox gochart.Box, defaults gochart.Style) {
		r.SetStrokeColor(drawing.ColorBlack)
		r.SetStrokeWidth(1)
		r.MoveTo(canvasBox.Left, canvasBox.Bottom)
		r.LineTo(canvasBox.Right, canvasBox.Bottom)
		r.Stroke()
		r.ResetStyle()

		labelStyle := gochart.Style{
			FontSize:            labelFontSize,
			FontColor:           drawing.ColorBlack,
			TextRotationDegrees: labelRotation,
		}.InheritFrom(defaults)
		top := canvasBox.Bottom + labelMargin + textHeight/2
		for i, label := range labels {
			reach := int(float64(widths[i]) * cos45)
			x := l.barCenter(canvasBox.Left, i) - reach + textHeight/2
			gochart.Draw.Text(r, label, x, top+reach, labelStyle)
		}

		if title == "" {
			return
		}
		ts := gochart.Style{FontSize: axisTitleSize, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		ts.GetTextOptions().WriteToRenderer(r)
		tb := r.MeasureText(title)
		r.ResetStyle()
		gochart.Draw.Text(r, title, canvasBox.Left+(canvasBox.Width()-tb.Width())/2, Height-labelMargin, ts)
	}
}

// niceTicks returns y ticks from zero past maxValue with a 1/2/5 step.
func niceTicks(maxValue float64, integer bool, format string) []gochart.Tick {
	if maxValue <= 0 {
		maxValue = 1
	}
	top := maxValue * 1.05
	rough := top / 6
	mag := math.Pow(10, math.Floor(math.Log10(rough)))
	step := 10 * mag
	for _, c := range []float64{1, 2, 5} {
		if c*mag >= rough {
			step = c * mag
			break
		}
	}
	if integer {
		step = math.Max(1, math.Ceil(step))
	}
	if format == "" {
		switch {
		case step >= 1:
			format = "%.0f"
		case step >= 0.1:
			format = "%.1f"
		default:
			format = "%.2f"
		}
	}
	n := int(math.Ceil(top / step))
	if n < 1 {
		n = 1
	}
	ticks := make([]gochart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := float64(i) * step
		ticks = append(ticks, gochart.Tick{Value: v, Label: fmt.Sprintf(format, v)})
	}
	return ticks
}
