package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		chunkSize int64
		wantCount int
		wantLast  int64
		wantErr   bool
	}{
		{name: "two and a half megabytes", size: 2_500_000, chunkSize: DefaultSize, wantCount: 3, wantLast: 402_848},
		{name: "exact multiple", size: 3 * DefaultSize, chunkSize: DefaultSize, wantCount: 3, wantLast: DefaultSize},
		{name: "smaller than chunk", size: 10, chunkSize: DefaultSize, wantCount: 1, wantLast: 10},
		{name: "empty artifact", size: 0, chunkSize: DefaultSize, wantCount: 1, wantLast: 0},
		{name: "one byte chunks", size: 5, chunkSize: 1, wantCount: 5, wantLast: 1},
		{name: "zero chunk size", size: 5, chunkSize: 0, wantErr: true},
		{name: "negative size", size: -1, chunkSize: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlan(tt.size, tt.chunkSize)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, plan.Count)
			assert.Equal(t, tt.wantLast, plan.LastChunkSize())
		})
	}
}

func TestPlan_PartialLastChunkRanges(t *testing.T) {
	plan, err := NewPlan(2_500_000, DefaultSize)
	require.NoError(t, err)

	var sizes []int64
	for r := range plan.All() {
		sizes = append(sizes, r.Len())
	}
	assert.Equal(t, []int64{1_048_576, 1_048_576, 402_848}, sizes)
}

func TestPlan_RangesCoverArtifact(t *testing.T) {
	for _, chunkSize := range []int64{1, 3, 7, 64, 1000} {
		for size := int64(0); size <= 300; size++ {
			plan, err := NewPlan(size, chunkSize)
			require.NoError(t, err)

			want := int((size + chunkSize - 1) / chunkSize)
			if size == 0 {
				want = 1
			}

			var next int64
			count := 0
			for r := range plan.All() {
				require.Equal(t, count, r.Index)
				require.Equal(t, next, r.Start, "size=%d chunkSize=%d index=%d", size, chunkSize, r.Index)
				require.LessOrEqual(t, r.Start, r.End)
				require.LessOrEqual(t, r.Len(), chunkSize)
				next = r.End
				count++
			}
			require.Equal(t, size, next)
			require.Equal(t, want, count)
		}
	}
}

func TestPlan_AllIsRestartable(t *testing.T) {
	plan, err := NewPlan(10, 4)
	require.NoError(t, err)

	collect := func() []Range {
		var out []Range
		for r := range plan.All() {
			out = append(out, r)
		}
		return out
	}

	first := collect()
	assert.Equal(t, first, collect())
	assert.Len(t, first, 3)

	for r := range plan.All() {
		assert.Equal(t, 0, r.Index)
		break
	}
}
