package results

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/inferlab/ortbench/bench"
)

// curveTimeFormat matches the timestamp format of the Python binding's
// curve file.
const curveTimeFormat = "2006-01-02 15:04:05.000"

// CurveTime marshals a timestamp in the curve file's fixed format.
type CurveTime time.Time

// MarshalCSV renders the timestamp.
func (t CurveTime) MarshalCSV() (string, error) {
	return time.Time(t).Format(curveTimeFormat), nil
}

// UnmarshalCSV parses the rendered timestamp back.
func (t *CurveTime) UnmarshalCSV(s string) error {
	parsed, err := time.Parse(curveTimeFormat, s)
	if err != nil {
		return err
	}
	*t = CurveTime(parsed)
	return nil
}

// CurveRow is one RSS sample of a long stability run. The CSV header
// is fixed: Timestamp,Elapsed_Seconds,RSS_MB.
type CurveRow struct {
	Timestamp CurveTime `csv:"Timestamp"`
	Elapsed   Fixed3    `csv:"Elapsed_Seconds"`
	RSSMB     Fixed2    `csv:"RSS_MB"`
}

// RSSCurvePath is the curve file of the long stability run.
func RSSCurvePath(dir string) string {
	return filepath.Join(dir, "go_rss_curve.csv")
}

// WriteRSSCurve persists the stability run's RSS samples.
func WriteRSSCurve(dir string, curve []bench.CurvePoint) error {
	rows := make([]CurveRow, 0, len(curve))
	for _, p := range curve {
		rows = append(rows, CurveRow{
			Timestamp: CurveTime(p.Timestamp),
			Elapsed:   Fixed3(p.Elapsed),
			RSSMB:     Fixed2(p.RSSMB),
		})
	}

	f, err := os.Create(RSSCurvePath(dir))
	if err != nil {
		return errors.Wrap(err, "creating RSS curve file")
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrap(err, "writing RSS curve")
	}
	return nil
}

// ReadRSSCurve reads the curve back for charting.
func ReadRSSCurve(path string) ([]CurveRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []CurveRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return rows, nil
}
