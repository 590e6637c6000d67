package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindIDInOrderedList(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		list []int64
		want int
	}{
		{name: "empty list", id: 5, list: nil, want: -1},
		{name: "single hit", id: 5, list: []int64{5}, want: 0},
		{name: "single miss", id: 4, list: []int64{5}, want: -1},
		{name: "middle", id: 30, list: []int64{10, 20, 30, 40, 50}, want: 2},
		{name: "first", id: 10, list: []int64{10, 20, 30}, want: 0},
		{name: "last", id: 30, list: []int64{10, 20, 30}, want: 2},
		{name: "absent between", id: 25, list: []int64{10, 20, 30}, want: -1},
		{name: "below range", id: 1, list: []int64{10, 20, 30}, want: -1},
		{name: "above range", id: 99, list: []int64{10, 20, 30}, want: -1},
		{name: "duplicates return first index", id: 20, list: []int64{10, 20, 20, 20, 30}, want: 1},
		{name: "placeholder prefix", id: 7, list: []int64{-1, -1, -1, 3, 7, 9}, want: 4},
		{name: "placeholder prefix miss", id: 5, list: []int64{-1, -1, 3, 7}, want: -1},
		{name: "searching the placeholder", id: -1, list: []int64{-1, -1, 3}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindIDInOrderedList(tt.id, tt.list))
		})
	}
}

// Свойство: каждый вставленный id находится, и найденный индекс
// действительно указывает на него.
func TestFindIDInOrderedList_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 100; round++ {
		n := rng.Intn(200)
		list := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			list = append(list, int64(rng.Intn(500)))
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

		for _, id := range list {
			idx := FindIDInOrderedList(id, list)
			require.GreaterOrEqual(t, idx, 0)
			require.Equal(t, id, list[idx])
			if idx > 0 {
				require.NotEqual(t, id, list[idx-1], "must return the first matching index")
			}
		}

		idx := FindIDInOrderedList(1000, list)
		require.Equal(t, -1, idx)
	}
}
