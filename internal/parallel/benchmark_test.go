package parallel

import (
	"context"
	"math"
	"testing"
)

func BenchmarkWorkerPool_Create(b *testing.B) {
	for i := 0; i < b.N; i++ {
		pool := NewWorkerPool(4)
		pool.Close()
	}
}

// BenchmarkWorkerPool_RunColumns approximates a 64-column grid build where
// each column evaluates a handful of transcendental functions per sample.
func BenchmarkWorkerPool_RunColumns(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	const cols, rows = 64, 64
	out := make([][]float64, cols)
	for i := range out {
		out[i] = make([]float64, rows)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_ = pool.Run(context.Background(), cols, func(i int) {
			for j := range rows {
				out[i][j] = math.Atan2(float64(j), float64(i)+1) * math.Hypot(float64(i), float64(j))
			}
		})
	}
}
