package learning

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	tbl := NewTable()
	tbl.Observe([]string{"我", "回答", "问题", "回答", "。"})

	assert.Equal(t, 2, tbl.Len())
	assert.InDelta(t, 0.10, tbl.Weight("回答"), 1e-12)
	assert.InDelta(t, 0.05, tbl.Weight("问题"), 1e-12)
	assert.Equal(t, 0.0, tbl.Weight("我"))
}

func TestTop_Ordering(t *testing.T) {
	tbl := NewTable()
	tbl.Observe([]string{"乙乙", "甲甲", "丙丙", "丙丙"})

	top := tbl.Top(0)
	require.Len(t, top, 3)
	assert.Equal(t, "丙丙", top[0].Word)
	// Equal weights fall back to word order.
	assert.Equal(t, "乙乙", top[1].Word)
	assert.Equal(t, "甲甲", top[2].Word)

	assert.Len(t, tbl.Top(1), 1)
	assert.Len(t, tbl.Top(10), 3)
}

func TestObserve_PrunesToKeepEntries(t *testing.T) {
	tbl := NewTable()
	tbl.Observe([]string{"heavy", "heavy"})

	batch := make([]string, 0, MaxEntries)
	for i := 0; i < MaxEntries; i++ {
		batch = append(batch, fmt.Sprintf("w%05d", i))
	}
	tbl.Observe(batch)

	assert.Equal(t, KeepEntries, tbl.Len())
	assert.InDelta(t, 0.10, tbl.Weight("heavy"), 1e-12)
	assert.InDelta(t, 0.05, tbl.Weight("w00000"), 1e-12)
	// The lexically largest tied words are dropped.
	assert.Equal(t, 0.0, tbl.Weight(fmt.Sprintf("w%05d", MaxEntries-1)))
}

func TestSnapshotRestore(t *testing.T) {
	tbl := NewTable()
	tbl.Observe([]string{"回答"})

	snap := tbl.Snapshot()
	snap["回答"] = 99
	assert.InDelta(t, 0.05, tbl.Weight("回答"), 1e-12)

	other := NewTable()
	other.Restore(map[string]float64{"问题": 1.5, "回答": 0.5})
	assert.Equal(t, 2, other.Len())
	assert.Equal(t, "问题", other.Top(1)[0].Word)
}

func TestObserve_Concurrent(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				tbl.Observe([]string{"问题"})
			}
		}()
	}
	wg.Wait()
	assert.InDelta(t, 800*Increment, tbl.Weight("问题"), 1e-9)
}
