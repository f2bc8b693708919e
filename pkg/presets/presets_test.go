package presets

import "testing"

func TestTop100IsSubsetOfTop1000(t *testing.T) {
	in1000 := make(map[int]bool, len(Top1000))
	for _, p := range Top1000 {
		in1000[p] = true
	}
	for _, p := range Top100 {
		if !in1000[p] {
			t.Errorf("port %d in Top100 but not in Top1000", p)
		}
	}
}

func TestPresetsAreSortedAndDeduped(t *testing.T) {
	for _, list := range [][]int{Top100, Top1000} {
		for i := 1; i < len(list); i++ {
			if list[i] <= list[i-1] {
				t.Fatalf("preset not strictly increasing at index %d: %v, %v", i, list[i-1], list[i])
			}
		}
	}
}

func TestGet(t *testing.T) {
	if got := Get("top-100"); len(got) != len(Top100) {
		t.Errorf("Get(top-100) returned %d ports, want %d", len(got), len(Top100))
	}
	if got := Get("top1000"); len(got) != len(Top1000) {
		t.Errorf("Get(top1000) returned %d ports, want %d", len(got), len(Top1000))
	}
	if got := Get("nonsense"); got != nil {
		t.Errorf("Get(nonsense) = %v, want nil", got)
	}
}
