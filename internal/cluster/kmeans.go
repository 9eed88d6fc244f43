package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Defaults for KMeans configuration.
const (
	DefaultMaxIter  = 100
	DefaultRestarts = 10
	DefaultSeed     = 42
)

// KMeans partitions rows of a feature matrix into K clusters with Lloyd's
// algorithm. Initialization picks K distinct rows at random; Restarts
// independent runs are performed and the assignment with the lowest inertia
// (sum of squared distances to the nearest centroid) wins. All randomness
// comes from the configured Seed, so a run is reproducible.
type KMeans struct {
	K        int
	MaxIter  int   // defaults to DefaultMaxIter
	Restarts int   // defaults to DefaultRestarts
	Seed     int64 // defaults to DefaultSeed

	centroids *mat.Dense
	inertia   float64
}

// Fit clusters the rows of X and returns one cluster label per row. It
// requires K >= 1 and at least K rows. The fitted model retains the winning
// centroids for later inspection.
func (m *KMeans) Fit(X *mat.Dense) ([]int, error) {
	if X == nil {
		return nil, fmt.Errorf("kmeans: nil feature matrix")
	}
	n, p := X.Dims()
	if m.K < 1 {
		return nil, fmt.Errorf("kmeans: k must be >= 1, got %d", m.K)
	}
	if n < m.K {
		return nil, fmt.Errorf("kmeans: need at least %d rows, got %d", m.K, n)
	}

	maxIter := m.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	restarts := m.Restarts
	if restarts <= 0 {
		restarts = DefaultRestarts
	}
	seed := m.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	best := math.Inf(1)
	var bestLabels []int
	var bestCentroids *mat.Dense

	for r := 0; r < restarts; r++ {
		labels, centroids, inertia := m.run(X, n, p, maxIter, rng)
		if inertia < best {
			best = inertia
			bestLabels = labels
			bestCentroids = centroids
		}
	}

	m.centroids = bestCentroids
	m.inertia = best
	return bestLabels, nil
}

// run performs one seeded Lloyd iteration to convergence or maxIter.
func (m *KMeans) run(X *mat.Dense, n, p, maxIter int, rng *rand.Rand) ([]int, *mat.Dense, float64) {
	// Distinct random rows as starting centroids.
	centroids := mat.NewDense(m.K, p, nil)
	for i, idx := range rng.Perm(n)[:m.K] {
		centroids.SetRow(i, mat.Row(nil, idx, X))
	}

	labels := make([]int, n)
	row := make([]float64, p)
	diff := make([]float64, p)
	inertia := 0.0

	for it := 0; it < maxIter; it++ {
		changed := false
		inertia = 0

		// Assignment step.
		for i := 0; i < n; i++ {
			mat.Row(row, i, X)
			bestK, bestD := 0, math.Inf(1)
			for k := 0; k < m.K; k++ {
				floats.SubTo(diff, row, mat.Row(nil, k, centroids))
				d := floats.Dot(diff, diff)
				if d < bestD {
					bestK, bestD = k, d
				}
			}
			if labels[i] != bestK {
				changed = true
			}
			labels[i] = bestK
			inertia += bestD
		}

		// Update step: mean of assigned rows; an emptied cluster keeps its
		// previous centroid.
		counts := make([]int, m.K)
		sums := mat.NewDense(m.K, p, nil)
		for i := 0; i < n; i++ {
			k := labels[i]
			counts[k]++
			mat.Row(row, i, X)
			for j := 0; j < p; j++ {
				sums.Set(k, j, sums.At(k, j)+row[j])
			}
		}
		for k := 0; k < m.K; k++ {
			if counts[k] == 0 {
				continue
			}
			for j := 0; j < p; j++ {
				centroids.Set(k, j, sums.At(k, j)/float64(counts[k]))
			}
		}

		if !changed && it > 0 {
			break
		}
	}
	return labels, centroids, inertia
}

// Centroids returns the fitted cluster centers (K x features), or nil before
// Fit.
func (m *KMeans) Centroids() *mat.Dense { return m.centroids }

// Inertia returns the winning run's sum of squared distances to the nearest
// centroid.
func (m *KMeans) Inertia() float64 { return m.inertia }
