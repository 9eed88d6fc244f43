package cluster

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// blobs builds two well-separated point clouds in 2D: rows 0..3 near the
// origin, rows 4..7 near (10, 10).
func blobs() *mat.Dense {
	return mat.NewDense(8, 2, []float64{
		0.0, 0.1,
		0.2, 0.0,
		-0.1, 0.2,
		0.1, -0.2,
		10.0, 10.1,
		10.2, 10.0,
		9.9, 10.2,
		10.1, 9.8,
	})
}

/*
TestFit_SeparatesBlobs fits k=2 over two obvious clouds and verifies the
labeling puts each cloud in its own cluster, the inertia is small, and the
centroids land near the cloud centers.
*/
func TestFit_SeparatesBlobs(t *testing.T) {
	km := &KMeans{K: 2}
	labels, err := km.Fit(blobs())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if len(labels) != 8 {
		t.Fatalf("labels=%d; want 8", len(labels))
	}
	for i := 1; i < 4; i++ {
		if labels[i] != labels[0] {
			t.Fatalf("origin cloud split: labels=%v", labels)
		}
	}
	for i := 5; i < 8; i++ {
		if labels[i] != labels[4] {
			t.Fatalf("far cloud split: labels=%v", labels)
		}
	}
	if labels[0] == labels[4] {
		t.Fatalf("clouds merged: labels=%v", labels)
	}
	if km.Inertia() > 1.0 {
		t.Fatalf("inertia=%v; want < 1 for separated clouds", km.Inertia())
	}

	c := km.Centroids()
	far := labels[4]
	if got := c.At(far, 0); math.Abs(got-10.05) > 0.2 {
		t.Fatalf("far centroid x=%v; want ~10.05", got)
	}
}

/*
TestFit_Reproducible verifies that the same seed yields the same labeling
across independent fits.
*/
func TestFit_Reproducible(t *testing.T) {
	a, err := (&KMeans{K: 2, Seed: 42}).Fit(blobs())
	if err != nil {
		t.Fatalf("fit a: %v", err)
	}
	b, err := (&KMeans{K: 2, Seed: 42}).Fit(blobs())
	if err != nil {
		t.Fatalf("fit b: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed diverged: %v vs %v", a, b)
	}
}

func TestFit_Errors(t *testing.T) {
	if _, err := (&KMeans{K: 2}).Fit(nil); err == nil {
		t.Fatalf("nil matrix accepted")
	}
	if _, err := (&KMeans{K: 0}).Fit(blobs()); err == nil {
		t.Fatalf("k=0 accepted")
	}
	if _, err := (&KMeans{K: 9}).Fit(blobs()); err == nil {
		t.Fatalf("k > rows accepted")
	}
}

func TestFit_SingleCluster(t *testing.T) {
	km := &KMeans{K: 1}
	labels, err := km.Fit(blobs())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, l := range labels {
		if l != 0 {
			t.Fatalf("labels=%v; want all zero", labels)
		}
	}
}
