// Package report provides Reporter implementations for streaming per-epoch
// metrics: a line-chart renderer, a SQLite history store, and a fan-out
// combinator.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/mlkit-go/seqtrain/pkg/errors"
	"github.com/mlkit-go/seqtrain/train"
)

// windowTitles maps a series window (the part before "/") to a chart title.
var windowTitles = map[string]string{
	"loss":     "Loss - Epoch",
	"accuracy": "Accuracy - Epoch",
}

// PlotReporter collects per-epoch series and renders one PNG line chart per
// window on Close. Series named "loss/train" and "loss/valid" share the
// "loss" chart as separate lines.
type PlotReporter struct {
	dir string
	env string

	series map[string]plotter.XYs
	order  []string
}

// NewPlotReporter creates the output directory if needed. env names the run
// and prefixes every chart file.
func NewPlotReporter(dir, env string) (*PlotReporter, error) {
	if dir == "" {
		return nil, errors.NewConfigError("plot_dir", "must not be empty", dir)
	}
	if env == "" {
		env = "seqtrain"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create plot directory")
	}
	return &PlotReporter{
		dir:    dir,
		env:    env,
		series: make(map[string]plotter.XYs),
	}, nil
}

// Log appends one observation to the named series.
func (r *PlotReporter) Log(epoch int, series string, value float64) error {
	if _, ok := r.series[series]; !ok {
		r.order = append(r.order, series)
	}
	r.series[series] = append(r.series[series], plotter.XY{X: float64(epoch), Y: value})
	return nil
}

// Close renders the collected series to PNG files, one chart per window.
func (r *PlotReporter) Close() error {
	windows := make(map[string][]string)
	for _, name := range r.order {
		window := name
		if i := strings.IndexByte(name, '/'); i >= 0 {
			window = name[:i]
		}
		windows[window] = append(windows[window], name)
	}

	names := make([]string, 0, len(windows))
	for w := range windows {
		names = append(names, w)
	}
	sort.Strings(names)

	for _, window := range names {
		if err := r.render(window, windows[window]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PlotReporter) render(window string, seriesNames []string) error {
	p := plot.New()
	title, ok := windowTitles[window]
	if !ok {
		title = window + " - Epoch"
	}
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = window
	p.Legend.Top = true

	args := make([]interface{}, 0, 2*len(seriesNames))
	for _, name := range seriesNames {
		label := name
		if i := strings.IndexByte(name, '/'); i >= 0 {
			label = name[i+1:]
		}
		args = append(args, label, r.series[name])
	}

	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return errors.Wrapf(err, "failed to plot %s", window)
	}

	path := filepath.Join(r.dir, fmt.Sprintf("%s-%s.png", r.env, window))
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}

var _ train.Reporter = (*PlotReporter)(nil)
