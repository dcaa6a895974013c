package hhdetector

import "testing"

func TestDetectClassifiesConfusionMatrix(t *testing.T) {
	ideal := map[string]uint64{
		"heavy-both":     100,
		"heavy-missed":   100,
		"light-flagged":  1,
		"light-correct":  1,
	}
	estimate := func(flow string) uint64 {
		switch flow {
		case "heavy-both":
			return 100
		case "heavy-missed":
			return 1
		case "light-flagged":
			return 100
		default:
			return 1
		}
	}

	var d Detector
	Detect(&d, ideal, estimate, 10)

	if d.TP != 1 || d.FN != 1 || d.FP != 1 || d.TN != 1 {
		t.Fatalf("got TP=%d TN=%d FP=%d FN=%d, want 1 each", d.TP, d.TN, d.FP, d.FN)
	}
}

func TestMetricsZeroWhenNoData(t *testing.T) {
	var d Detector
	if got := d.Accuracy(); got != 0 {
		t.Errorf("Accuracy() = %v, want 0", got)
	}
	if got := d.Precision(); got != 0 {
		t.Errorf("Precision() = %v, want 0", got)
	}
	if got := d.F1(); got != 0 {
		t.Errorf("F1() = %v, want 0", got)
	}
}

func TestNonPositiveThresholdMeansEverythingHeavy(t *testing.T) {
	ideal := map[string]uint64{"a": 1, "b": 0}
	estimate := func(string) uint64 { return 1 }

	var d Detector
	Detect(&d, ideal, estimate, 0)

	if d.FP != 0 || d.FN != 0 {
		t.Errorf("expected no false classifications with threshold<=0, got FP=%d FN=%d", d.FP, d.FN)
	}
	if d.TP != 2 {
		t.Errorf("TP = %d, want 2", d.TP)
	}
}
