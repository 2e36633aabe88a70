package chart

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func assertPNGSize(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if cfg.Width != Width || cfg.Height != Height {
		t.Fatalf("expected %dx%d, got %dx%d", Width, Height, cfg.Width, cfg.Height)
	}
}

func TestRenderBars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.png")
	err := RenderBars(path, BarChartOptions{
		Title:  "Call Type Frequency",
		XLabel: "Call type",
		YLabel: "Count",
		Bars: []Bar{
			{Label: "Medical Emergency", Value: 12},
			{Label: "Alarm", Value: 7},
			{Label: "Structure Fire", Value: 3},
		},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	assertPNGSize(t, path)
}

func TestRenderBarsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.png")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}
	opts := BarChartOptions{Title: "t", IntegerValues: true, Bars: []Bar{{Label: "only", Value: 0}}}
	if err := RenderBars(path, opts); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	assertPNGSize(t, path)
}

func TestRenderBarsManyCategories(t *testing.T) {
	bars := make([]Bar, 0, 80)
	for i := 0; i < 80; i++ {
		bars = append(bars, Bar{Label: "Type", Value: float64(80 - i)})
	}
	path := filepath.Join(t.TempDir(), "many.png")
	if err := RenderBars(path, BarChartOptions{Title: "many", XLabel: "x", YLabel: "y", Bars: bars}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	assertPNGSize(t, path)
}

func TestRenderBarsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := RenderBars(path, BarChartOptions{Title: "empty"}); err == nil {
		t.Fatalf("expected error for empty bar set")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written for an empty chart")
	}
}

func TestRenderBarsRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), math.MaxFloat64} {
		path := filepath.Join(t.TempDir(), "bad.png")
		err := RenderBars(path, BarChartOptions{Title: "bad", Bars: []Bar{{Label: "A", Value: 1}, {Label: "B", Value: v}}})
		if err == nil {
			t.Fatalf("expected error for value %v", v)
		}
	}
}

func TestLayoutBottomPaddingGrowsWithLabel(t *testing.T) {
	r, err := newMeasurer()
	if err != nil {
		t.Fatalf("measurer: %v", err)
	}
	short := r.MeasureText("Alarm")
	long := r.MeasureText("Gas Leak (Natural and LP Gases)")
	if long.Width() <= short.Width() {
		t.Fatalf("expected longer label to measure wider: %d vs %d", long.Width(), short.Width())
	}

	shortLayout := computeLayout([]int{short.Width()}, short.Height())
	longLayout := computeLayout([]int{long.Width()}, long.Height())
	if longLayout.PadBottom <= shortLayout.PadBottom {
		t.Fatalf("bottom padding should grow with label width: %d vs %d", longLayout.PadBottom, shortLayout.PadBottom)
	}
	// rotated label plus the axis title must fit in the reserved band
	extent := int(float64(long.Width()) * cos45)
	if longLayout.PadBottom < extent+2*long.Height() {
		t.Fatalf("padding %d too small for rotated extent %d", longLayout.PadBottom, extent)
	}
	if longLayout.PadBottom > Height/2 {
		t.Fatalf("padding %d leaves no room for bars", longLayout.PadBottom)
	}
}

func TestLayoutLeftPaddingFitsFirstLabel(t *testing.T) {
	l := computeLayout([]int{300, 20, 20}, 12)
	if l.PadLeft <= minPadLeft {
		t.Fatalf("expected left padding above minimum for a long first label, got %d", l.PadLeft)
	}
	start := l.barCenter(l.PadLeft, 0) - int(300*cos45)
	if start < 0 {
		t.Fatalf("first label starts off canvas at x=%d", start)
	}
}

func TestLayoutBarsFitCanvas(t *testing.T) {
	for _, n := range []int{1, 3, 15, 80} {
		widths := make([]int, n)
		for i := range widths {
			widths[i] = 60
		}
		l := computeLayout(widths, 12)
		if l.BarWidth < 1 || l.BarSpacing < 1 {
			t.Fatalf("n=%d: bar width %d spacing %d must be positive", n, l.BarWidth, l.BarSpacing)
		}
		if total := n * (l.BarWidth + l.BarSpacing); total > Width-l.PadLeft-padRight-yAxisReserve {
			t.Fatalf("n=%d: bars need %dpx, more than the canvas", n, total)
		}
	}
}

func TestFitLabel(t *testing.T) {
	r, err := newMeasurer()
	if err != nil {
		t.Fatalf("measurer: %v", err)
	}
	for _, label := range []string{"Citizen Assist / Service Call", "Gas Leak (Natural and LP Gases)", "Elevator / Escalator Rescue"} {
		if got := fitLabel(r, label); got != label {
			t.Fatalf("label %q should be kept whole, got %q", label, got)
		}
	}
	long := strings.Repeat("Very Long Call Type ", 20)
	got := fitLabel(r, long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected shortened label, got %q", got)
	}
	if w := r.MeasureText(got).Width(); w > maxLabelWidth {
		t.Fatalf("shortened label is %dpx wide, limit %d", w, maxLabelWidth)
	}
}

// darkPixels counts near-black pixels, i.e. text and axis lines but not bars.
func darkPixels(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r>>8 < 100 && g>>8 < 100 && bl>>8 < 100 {
				n++
			}
		}
	}
	return n
}

func TestRenderBarsDrawsWholeLabels(t *testing.T) {
	dir := t.TempDir()
	render := func(name, second string) string {
		path := filepath.Join(dir, name)
		err := RenderBars(path, BarChartOptions{
			Title:         "Call Type Frequency",
			IntegerValues: true,
			Bars:          []Bar{{Label: "Alarm", Value: 5}, {Label: second, Value: 3}},
		})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		return path
	}
	firstWord := darkPixels(t, render("first_word.png", "Citizen"))
	whole := darkPixels(t, render("whole.png", "Citizen Assist / Service Call"))
	if whole-firstWord < 100 {
		t.Fatalf("expected the rest of the label to be drawn: %d dark pixels vs %d for the first word", whole, firstWord)
	}
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(7, true, "%.0f")
	if ticks[0].Value != 0 || ticks[len(ticks)-1].Value < 7 {
		t.Fatalf("ticks should span 0..7, got %+v", ticks)
	}
	for _, tk := range ticks {
		if tk.Value != math.Trunc(tk.Value) || strings.Contains(tk.Label, ".") {
			t.Fatalf("count ticks must be whole numbers, got %+v", tk)
		}
	}

	ticks = niceTicks(62.05, false, "")
	if len(ticks) > 12 || ticks[len(ticks)-1].Value < 62.05 {
		t.Fatalf("unexpected ticks for 62.05: %+v", ticks)
	}

	ticks = niceTicks(2, true, "")
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Value-ticks[i-1].Value < 1 {
			t.Fatalf("integer ticks need a step of at least 1, got %+v", ticks)
		}
	}
}
