package performance

import (
	"sync"
	"testing"
)

func TestMatrixPoolGetPut(t *testing.T) {
	mp := NewMatrixPool()

	m := mp.Get(3, 2)
	if r, c := m.Dims(); r != 3 || c != 2 {
		t.Fatalf("Dims() = (%d, %d), want (3, 2)", r, c)
	}
	m.Set(1, 1, 5)
	mp.Put(m)

	// 再利用された行列はゼロクリアされている
	again := mp.Get(2, 3)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if v := again.At(i, j); v != 0 {
				t.Fatalf("At(%d, %d) = %v, want 0", i, j, v)
			}
		}
	}
	mp.Put(again)

	stats := mp.Stats()
	if stats.CurrentInUse != 0 {
		t.Errorf("CurrentInUse = %d, want 0", stats.CurrentInUse)
	}
	if stats.TotalRecycled != 2 {
		t.Errorf("TotalRecycled = %d, want 2", stats.TotalRecycled)
	}
	if stats.PeakUsage != 1 {
		t.Errorf("PeakUsage = %d, want 1", stats.PeakUsage)
	}
	if stats.TotalAllocated < 1 {
		t.Errorf("TotalAllocated = %d, want at least 1", stats.TotalAllocated)
	}
}

func TestMatrixPoolGrows(t *testing.T) {
	mp := NewMatrixPool()
	small := mp.Get(1, 1)
	mp.Put(small)
	big := mp.Get(10, 10)
	if r, c := big.Dims(); r != 10 || c != 10 {
		t.Fatalf("Dims() = (%d, %d), want (10, 10)", r, c)
	}
	big.Set(9, 9, 1)
	mp.Put(big)
	mp.Put(nil)
}

func TestMatrixPoolConcurrent(t *testing.T) {
	mp := NewMatrixPool()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m := mp.Get(4, 4)
				m.Set(0, 0, float64(g))
				mp.Put(m)
			}
		}(g)
	}
	wg.Wait()

	stats := mp.Stats()
	if stats.CurrentInUse != 0 {
		t.Errorf("CurrentInUse = %d, want 0", stats.CurrentInUse)
	}
	if stats.TotalRecycled != 800 {
		t.Errorf("TotalRecycled = %d, want 800", stats.TotalRecycled)
	}
	if stats.PeakUsage < 1 || stats.PeakUsage > 8 {
		t.Errorf("PeakUsage = %d, want within [1, 8]", stats.PeakUsage)
	}
}
