// Package charts renders the comparison figures from result artifacts.
//
// Every chart reads the result files of both bindings by their fixed
// names under the results directory. A missing input file skips that
// chart with a warning; the remaining charts still render, so partial
// benchmark runs still produce partial figures.
package charts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/inferlab/ortbench/results"
)

// Fixed output filenames, one per analysis.
const (
	ColdStartChart      = "cold_start_comparison.png"
	LatencyBoxplotChart = "latency_boxplot.png"
	ThreadLatencyChart  = "thread_scaling_latency.png"
	ThreadFPSChart      = "thread_scaling_fps.png"
	MemoryChart         = "memory_vs_threads.png"
	RSSCurveChart       = "rss_curve.png"
)

// Python-side artifact names. The Python harness writes these into the
// shared results directory; the charts only read them.
const (
	pythonComprehensiveCSV = "python_thread_config_comprehensive.csv"
	pythonRSSCurveCSV      = "python_rss_curve.csv"
	pythonColdStartLabel   = "python_cold_start"
	pythonBaselineLabel    = "python_baseline"
)

const (
	chartWidth  = 7 * vg.Inch
	chartHeight = 4.5 * vg.Inch
)

// Generator renders the figures. ResultsDir holds the result artifacts
// of both bindings; OutputDir receives the PNG files and is usually the
// same directory.
type Generator struct {
	ResultsDir string
	OutputDir  string
}

// All renders every chart whose inputs exist and returns the number
// rendered. Individual failures are warnings, not errors, so a partial
// results directory still yields whatever figures it supports.
func (g *Generator) All() int {
	if err := results.EnsureDir(g.OutputDir); err != nil {
		log.WithError(err).Error("Cannot create chart output directory")
		return 0
	}

	rendered := 0
	for _, c := range []struct {
		name   string
		render func() error
	}{
		{ColdStartChart, g.ColdStart},
		{LatencyBoxplotChart, g.LatencyBoxplot},
		{ThreadLatencyChart, g.ThreadLatency},
		{ThreadFPSChart, g.ThreadFPS},
		{MemoryChart, g.MemoryVsThreads},
		{RSSCurveChart, g.RSSCurve},
	} {
		if err := c.render(); err != nil {
			log.WithError(err).WithField("chart", c.name).Warn("Chart skipped")
			continue
		}
		log.WithField("chart", c.name).Info("Chart rendered")
		rendered++
	}
	return rendered
}

// ColdStart draws grouped bars of cold start vs stable latency for each
// binding that produced a cold start result file.
func (g *Generator) ColdStart() error {
	type series struct {
		label string
		data  *results.ParsedColdStart
	}
	var groups []series
	for _, s := range []struct{ name, label string }{
		{"go_cold_start", "Go"},
		{pythonColdStartLabel, "Python"},
	} {
		parsed, err := results.ParseColdStartFile(results.ResultPath(g.ResultsDir, s.name))
		if err != nil {
			if os.IsNotExist(err) {
				log.WithField("binding", s.label).Debug("No cold start result")
				continue
			}
			return err
		}
		groups = append(groups, series{label: s.label, data: parsed})
	}
	if len(groups) == 0 {
		return errors.New("no cold start result files found")
	}

	cold := make(plotter.Values, len(groups))
	stable := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, s := range groups {
		cold[i] = s.data.ColdStart
		stable[i] = s.data.Stable
		names[i] = s.label
	}

	p := plot.New()
	p.Title.Text = "Cold Start vs Stable Latency"
	p.Y.Label.Text = "Latency (ms)"

	w := vg.Points(24)
	coldBars, err := plotter.NewBarChart(cold, w)
	if err != nil {
		return err
	}
	coldBars.Offset = -w / 2
	coldBars.Color = plotutil.Color(0)
	stableBars, err := plotter.NewBarChart(stable, w)
	if err != nil {
		return err
	}
	stableBars.Offset = w / 2
	stableBars.Color = plotutil.Color(1)

	p.Add(coldBars, stableBars)
	p.Legend.Add("Cold Start", coldBars)
	p.Legend.Add("Stable", stableBars)
	p.Legend.Top = true
	p.NominalX(names...)

	return g.save(p, ColdStartChart)
}

// LatencyBoxplot draws one box per binding from the raw latency dumps
// of the baseline benchmark.
func (g *Generator) LatencyBoxplot() error {
	type series struct {
		label   string
		samples []float64
	}
	var boxes []series
	for _, s := range []struct{ name, label string }{
		{"go_baseline", "Go"},
		{pythonBaselineLabel, "Python"},
	} {
		samples, err := results.ReadLatencySamples(results.LatencyDataPath(g.ResultsDir, s.name))
		if err != nil {
			if os.IsNotExist(err) {
				log.WithField("binding", s.label).Debug("No latency dump")
				continue
			}
			return err
		}
		boxes = append(boxes, series{label: s.label, samples: samples})
	}
	if len(boxes) == 0 {
		return errors.New("no latency dumps found")
	}

	p := plot.New()
	p.Title.Text = "Inference Latency Distribution"
	p.Y.Label.Text = "Latency (ms)"

	names := make([]string, len(boxes))
	for i, s := range boxes {
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(s.samples))
		if err != nil {
			return err
		}
		p.Add(box)
		names[i] = s.label
	}
	p.NominalX(names...)

	return g.save(p, LatencyBoxplotChart)
}

// ThreadLatency draws average latency against thread count for each
// binding's comprehensive CSV.
func (g *Generator) ThreadLatency() error {
	return g.threadLines(ThreadLatencyChart, "Latency vs Thread Count",
		"Average Latency (ms)", func(r results.ThreadRow) float64 {
			return float64(r.AvgMs)
		})
}

// ThreadFPS draws throughput against thread count.
func (g *Generator) ThreadFPS() error {
	return g.threadLines(ThreadFPSChart, "Throughput vs Thread Count",
		"FPS", func(r results.ThreadRow) float64 {
			return float64(r.FPS)
		})
}

// MemoryVsThreads draws start and stable RSS against thread count, one
// pair of lines per binding.
func (g *Generator) MemoryVsThreads() error {
	p := plot.New()
	p.Title.Text = "Memory vs Thread Count"
	p.X.Label.Text = "Thread Count"
	p.Y.Label.Text = "RSS (MB)"

	var lines []interface{}
	err := g.eachSweep(func(label string, rows []results.ThreadRow) {
		start := make(plotter.XYs, len(rows))
		stable := make(plotter.XYs, len(rows))
		for i, r := range rows {
			start[i].X = float64(r.Threads)
			start[i].Y = float64(r.StartRSS)
			stable[i].X = float64(r.Threads)
			stable[i].Y = float64(r.StableRSS)
		}
		lines = append(lines, label+" Start RSS", start, label+" Stable RSS", stable)
	})
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return errors.New("no thread sweep CSVs found")
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return g.save(p, MemoryChart)
}

func (g *Generator) threadLines(file, title, yLabel string, value func(results.ThreadRow) float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Thread Count"
	p.Y.Label.Text = yLabel

	var lines []interface{}
	err := g.eachSweep(func(label string, rows []results.ThreadRow) {
		pts := make(plotter.XYs, len(rows))
		for i, r := range rows {
			pts[i].X = float64(r.Threads)
			pts[i].Y = value(r)
		}
		lines = append(lines, label, pts)
	})
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return errors.New("no thread sweep CSVs found")
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return g.save(p, file)
}

// eachSweep visits each binding's thread sweep CSV that exists.
func (g *Generator) eachSweep(visit func(label string, rows []results.ThreadRow)) error {
	for _, s := range []struct{ path, label string }{
		{results.ComprehensiveCSVPath(g.ResultsDir), "Go"},
		{filepath.Join(g.ResultsDir, pythonComprehensiveCSV), "Python"},
	} {
		rows, err := results.ReadComprehensiveCSV(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				log.WithField("binding", s.label).Debug("No thread sweep CSV")
				continue
			}
			return err
		}
		visit(s.label, rows)
	}
	return nil
}

// RSSCurve draws RSS over elapsed time from the stability curve CSVs.
func (g *Generator) RSSCurve() error {
	p := plot.New()
	p.Title.Text = "RSS Over Time"
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "RSS (MB)"
	p.Y.Min = 0

	var lines []interface{}
	for _, s := range []struct{ path, label string }{
		{results.RSSCurvePath(g.ResultsDir), "Go"},
		{filepath.Join(g.ResultsDir, pythonRSSCurveCSV), "Python"},
	} {
		rows, err := results.ReadRSSCurve(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				log.WithField("binding", s.label).Debug("No RSS curve CSV")
				continue
			}
			return err
		}
		pts := make(plotter.XYs, len(rows))
		for i, r := range rows {
			pts[i].X = float64(r.Elapsed)
			pts[i].Y = float64(r.RSSMB)
		}
		lines = append(lines, s.label, pts)
	}
	if len(lines) == 0 {
		return errors.New("no RSS curve CSVs found")
	}

	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	return g.save(p, RSSCurveChart)
}

// save writes the figure as PNG plus its PDF twin for print use; the
// plot.Save writer is selected by extension.
func (g *Generator) save(p *plot.Plot, name string) error {
	png := filepath.Join(g.OutputDir, name)
	if err := p.Save(chartWidth, chartHeight, png); err != nil {
		return errors.Wrapf(err, "saving %s", name)
	}

	pdf := strings.TrimSuffix(png, filepath.Ext(png)) + ".pdf"
	if err := p.Save(chartWidth, chartHeight, pdf); err != nil {
		return errors.Wrapf(err, "saving %s", filepath.Base(pdf))
	}
	return nil
}
