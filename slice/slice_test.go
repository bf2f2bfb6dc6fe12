package slice

import (
	"slices"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(i int) int64 { return int64(i * 10) })
	if !slices.Equal(got, []int64{10, 20, 30}) {
		t.Errorf("got %v, wanted [10 20 30]", got)
	}
	if got := Map([]int(nil), func(i int) int { return i }); len(got) != 0 {
		t.Errorf("got %v, wanted empty", got)
	}
}

func TestSum(t *testing.T) {
	if got := Sum([]int64{13921, 13921, 8671}); got != 36513 {
		t.Errorf("got %d, wanted 36513", got)
	}
	if got := Sum([]float64{}); got != 0 {
		t.Errorf("got %f, wanted 0", got)
	}
}

func TestMax(t *testing.T) {
	if got := Max([]int64{-3, 13921, 8671}); got != 13921 {
		t.Errorf("got %d, wanted 13921", got)
	}
	if got := Max([]float64{-2.5, -1.5}); got != -1.5 {
		t.Errorf("got %f, wanted -1.5", got)
	}
	if got := Max([]int(nil)); got != 0 {
		t.Errorf("got %d, wanted 0", got)
	}
}
