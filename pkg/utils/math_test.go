package utils

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, -1, 1, -1},
		{3, -1, 1, 1},
		{-1, -1, 1, -1},
		{1, -1, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShortestAngularDistance(t *testing.T) {
	got := ShortestAngularDistance(math.Pi-0.1, -math.Pi+0.1)
	if math.Abs(got-0.2) > 1e-12 {
		t.Errorf("ShortestAngularDistance across the wrap = %v, want 0.2", got)
	}
}

func TestEuclideanDistance(t *testing.T) {
	if got := EuclideanDistance(0, 0, 3, 4); got != 5 {
		t.Errorf("EuclideanDistance = %v, want 5", got)
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite([]float64{1, 2, 3}, []float64{0}) {
		t.Errorf("expected finite slices to pass")
	}
	if AllFinite([]float64{1, math.NaN()}) {
		t.Errorf("expected NaN to fail")
	}
	if AllFinite([]float64{math.Inf(1)}) {
		t.Errorf("expected Inf to fail")
	}
}
