package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/inferlab/ortbench/bench"
)

// Fixed3 and Fixed2 are float64 values that marshal to CSV with fixed
// decimal places, keeping the CSV artifacts bit-comparable across runs
// like the text files.
type Fixed3 float64

// MarshalCSV renders the value with three decimals.
func (f Fixed3) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(f), 'f', 3, 64), nil
}

// UnmarshalCSV parses the rendered value back.
func (f *Fixed3) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Fixed3(v)
	return nil
}

// Fixed2 is Fixed3 with two decimals.
type Fixed2 float64

// MarshalCSV renders the value with two decimals.
func (f Fixed2) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(f), 'f', 2, 64), nil
}

// UnmarshalCSV parses the rendered value back.
func (f *Fixed2) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Fixed2(v)
	return nil
}

// ThreadRow is one row of the thread scaling comparison, in the fixed
// column order both the text table and the CSV twin use.
type ThreadRow struct {
	Threads   int    `csv:"Threads"`
	AvgMs     Fixed3 `csv:"Avg_Latency_ms"`
	StdDevMs  Fixed3 `csv:"Std_Dev_ms"`
	FPS       Fixed2 `csv:"FPS"`
	P50Ms     Fixed3 `csv:"P50_ms"`
	P90Ms     Fixed3 `csv:"P90_ms"`
	P99Ms     Fixed3 `csv:"P99_ms"`
	StartRSS  Fixed2 `csv:"Start_RSS_MB"`
	StableRSS Fixed2 `csv:"Stable_RSS_MB"`
}

// ComprehensiveTablePath is the text table of the thread sweep.
func ComprehensiveTablePath(dir string) string {
	return filepath.Join(dir, "go_thread_config_comprehensive.txt")
}

// ComprehensiveCSVPath is the structured twin of the text table.
func ComprehensiveCSVPath(dir string) string {
	return filepath.Join(dir, "go_thread_config_comprehensive.csv")
}

func threadRows(sweep []bench.ThreadResult) []ThreadRow {
	rows := make([]ThreadRow, 0, len(sweep))
	for _, t := range sweep {
		a := t.Aggregate
		rows = append(rows, ThreadRow{
			Threads:   t.Threads,
			AvgMs:     Fixed3(a.Stats.Mean),
			StdDevMs:  Fixed3(a.Stats.StdDev),
			FPS:       Fixed2(a.Stats.FPS),
			P50Ms:     Fixed3(a.Stats.P50),
			P90Ms:     Fixed3(a.Stats.P90),
			P99Ms:     Fixed3(a.Stats.P99),
			StartRSS:  Fixed2(a.StartRSS),
			StableRSS: Fixed2(a.StableRSS),
		})
	}
	return rows
}

// WriteComprehensiveTable writes the whitespace-aligned text table plus
// its CSV twin, one row per thread count in sweep order.
func WriteComprehensiveTable(dir string, sweep []bench.ThreadResult) error {
	rows := threadRows(sweep)

	var b strings.Builder
	b.WriteString("===== Thread Configuration Comparison =====\n\n")
	fmt.Fprintf(&b, "%-10s %-16s %-13s %-10s %-12s %-12s %-12s %-15s %-15s\n",
		"Threads", "Avg Latency(ms)", "Std Dev(ms)", "FPS",
		"P50(ms)", "P90(ms)", "P99(ms)", "Start RSS(MB)", "Stable RSS(MB)")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-10d %-16.3f %-13.3f %-10.2f %-12.3f %-12.3f %-12.3f %-15.2f %-15.2f\n",
			r.Threads, float64(r.AvgMs), float64(r.StdDevMs), float64(r.FPS),
			float64(r.P50Ms), float64(r.P90Ms), float64(r.P99Ms),
			float64(r.StartRSS), float64(r.StableRSS))
	}
	if err := WriteTextFile(ComprehensiveTablePath(dir), b.String()); err != nil {
		return err
	}

	f, err := os.Create(ComprehensiveCSVPath(dir))
	if err != nil {
		return errors.Wrap(err, "creating comprehensive CSV")
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrap(err, "writing comprehensive CSV")
	}
	return nil
}

// ReadComprehensiveCSV reads the thread sweep rows back from the CSV
// twin.
func ReadComprehensiveCSV(path string) ([]ThreadRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []ThreadRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return rows, nil
}
