package solves

import "testing"

func TestMarkAndCheck(t *testing.T) {
	for id := 1; id <= MaxChallenges; id++ {
		mask := MarkSolved(0, id)
		if !IsSolved(mask, id) {
			t.Errorf("challenge %d not solved after marking", id)
		}
		if mask != int64(1)<<uint(id-1) {
			t.Errorf("challenge %d set wrong bit: %b", id, mask)
		}
		for other := 1; other <= MaxChallenges; other++ {
			if other != id && IsSolved(mask, other) {
				t.Errorf("marking %d also solved %d", id, other)
			}
		}
	}
}

func TestMarkIdempotent(t *testing.T) {
	var mask int64
	for _, id := range []int{1, 3, 63, 3, 1} {
		mask = MarkSolved(mask, id)
	}
	if mask != MarkSolved(MarkSolved(MarkSolved(0, 1), 3), 63) {
		t.Errorf("re-marking changed the mask: %b", mask)
	}
}

func TestMarkPreservesExisting(t *testing.T) {
	mask := MarkSolved(0, 2)
	mask = MarkSolved(mask, 5)
	if !IsSolved(mask, 2) || !IsSolved(mask, 5) {
		t.Errorf("mask lost a bit: %b", mask)
	}
	if IsSolved(mask, 3) {
		t.Errorf("unexpected bit set: %b", mask)
	}
}

func TestChallengeThreeBitValue(t *testing.T) {
	// Challenge id 3 occupies bit value 4.
	mask := MarkSolved(0, 3)
	if mask&4 == 0 {
		t.Errorf("challenge 3 should set bit value 4, got %b", mask)
	}
}

func TestOutOfRangeIDs(t *testing.T) {
	for _, id := range []int{0, -1, 64, 100} {
		if IsSolved(^int64(0), id) {
			t.Errorf("id %d reported solved", id)
		}
		if MarkSolved(0, id) != 0 {
			t.Errorf("id %d mutated the mask", id)
		}
	}
}
