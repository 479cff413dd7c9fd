// Package performance は評価ループで繰り返し確保される作業用行列の
// プールを提供します。
package performance

import (
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// MatrixPool recycles the backing slices of scratch matrices. It is safe
// for concurrent use; a matrix must not be used after Put.
type MatrixPool struct {
	pool     sync.Pool
	created  atomic.Int64
	recycled atomic.Int64
	inUse    atomic.Int64

	mu   sync.Mutex
	peak int64
}

// PoolStats tracks pool usage
type PoolStats struct {
	TotalAllocated   int64
	TotalRecycled    int64
	CurrentInUse     int64
	PeakUsage        int64
	AverageReuseRate float64
}

// NewMatrixPool creates an empty pool.
func NewMatrixPool() *MatrixPool {
	mp := &MatrixPool{}
	mp.pool.New = func() interface{} {
		mp.created.Add(1)
		return new([]float64)
	}
	return mp
}

// Get returns a zeroed rows×cols matrix.
func (mp *MatrixPool) Get(rows, cols int) *mat.Dense {
	current := mp.inUse.Add(1)
	mp.mu.Lock()
	if current > mp.peak {
		mp.peak = current
	}
	mp.mu.Unlock()

	buf := mp.pool.Get().(*[]float64)
	n := rows * cols
	if cap(*buf) < n {
		*buf = make([]float64, n)
	}
	data := (*buf)[:n]
	clear(data)
	return mat.NewDense(rows, cols, data)
}

// Put returns m's storage to the pool.
func (mp *MatrixPool) Put(m *mat.Dense) {
	if m == nil {
		return
	}
	data := m.RawMatrix().Data
	mp.inUse.Add(-1)
	mp.recycled.Add(1)
	mp.pool.Put(&data)
}

// Stats returns current pool statistics.
func (mp *MatrixPool) Stats() PoolStats {
	mp.mu.Lock()
	peak := mp.peak
	mp.mu.Unlock()

	total := mp.created.Load()
	recycled := mp.recycled.Load()
	reuseRate := float64(0)
	if total > 0 {
		reuseRate = float64(recycled) / float64(total)
	}
	return PoolStats{
		TotalAllocated:   total,
		TotalRecycled:    recycled,
		CurrentInUse:     mp.inUse.Load(),
		PeakUsage:        peak,
		AverageReuseRate: reuseRate,
	}
}
