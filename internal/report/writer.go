// Package report renders a coordinator.Report to the formats an
// operator or a downstream pipeline consumes: a human-readable console
// summary, CSV for spreadsheets, and JSON for machine consumption.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/disketch/disketch/internal/coordinator"
	"github.com/disketch/disketch/internal/hhdetector"
)

// Writer renders a full report to w.
type Writer interface {
	Write(w io.Writer, report *coordinator.Report) error
}

// CSVWriter renders the two-row summary the original tool's
// disketch_simulator emitted: one row per method, cumulative confusion
// matrix and derived metrics across the whole run.
type CSVWriter struct{}

func (CSVWriter) Write(w io.Writer, report *coordinator.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"method", "precision", "recall", "f1", "accuracy", "tp", "fp", "fn", "tn"}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(metricsRow("FullSketch", report.FullSketchStats)); err != nil {
		return err
	}
	if err := cw.Write(metricsRow("DiSketch", report.DiSketchStats)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func metricsRow(method string, d hhdetector.Detector) []string {
	return []string{
		method,
		strconv.FormatFloat(d.Precision(), 'f', 6, 64),
		strconv.FormatFloat(d.Recall(), 'f', 6, 64),
		strconv.FormatFloat(d.F1(), 'f', 6, 64),
		strconv.FormatFloat(d.Accuracy(), 'f', 6, 64),
		strconv.Itoa(d.TP), strconv.Itoa(d.FP), strconv.Itoa(d.FN), strconv.Itoa(d.TN),
	}
}

// JSONWriter renders the full report as a single JSON document,
// supplementing the original tool's stdout-only summary with a
// machine-readable form a pipeline stage downstream of the simulator
// can parse directly.
type JSONWriter struct {
	Indent bool
}

func (j JSONWriter) Write(w io.Writer, report *coordinator.Report) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

// PrintMetrics writes a short human-readable confusion-matrix summary
// for both detectors, mirroring the original tool's console report.
func PrintMetrics(w io.Writer, report *coordinator.Report) {
	fmt.Fprintln(w, "=== full sketch ===")
	printDetector(w, report.FullSketchStats)
	fmt.Fprintln(w, "=== disketch ===")
	printDetector(w, report.DiSketchStats)
}

func printDetector(w io.Writer, d hhdetector.Detector) {
	fmt.Fprintf(w, "tp=%d tn=%d fp=%d fn=%d\n", d.TP, d.TN, d.FP, d.FN)
	fmt.Fprintf(w, "accuracy=%.4f precision=%.4f recall=%.4f f1=%.4f fpr=%.4f fnr=%.4f\n",
		d.Accuracy(), d.Precision(), d.Recall(), d.F1(), d.FPR(), d.FNR())
}
