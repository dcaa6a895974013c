package hhdetector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedMetricsFromConfusionMatrix(t *testing.T) {
	d := Detector{TP: 3, TN: 5, FP: 1, FN: 1}

	assert.InDelta(t, 0.8, d.Accuracy(), 1e-9)
	assert.InDelta(t, 0.75, d.Precision(), 1e-9)
	assert.InDelta(t, 0.75, d.Recall(), 1e-9)
	assert.InDelta(t, 0.75, d.F1(), 1e-9)
	assert.InDelta(t, 1.0/6, d.FPR(), 1e-9)
	assert.InDelta(t, 0.25, d.FNR(), 1e-9)
}

func TestResetClearsConfusionMatrix(t *testing.T) {
	d := Detector{TP: 1, TN: 1, FP: 1, FN: 1}
	d.Reset()
	assert.Equal(t, Detector{}, d)
}
