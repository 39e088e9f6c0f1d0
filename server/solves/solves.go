// Package solves tracks which challenges a team has solved using a 64-bit
// bitmask: bit (id - 1) is set iff the challenge with that id is solved.
package solves

// MaxChallenges is the highest challenge id the mask can represent. The
// solves column is a BIGINT, so ids above 63 have no bit to live in; the
// admin endpoints refuse to create challenges past this ceiling.
const MaxChallenges = 63

// IsSolved reports whether challenge id is recorded in mask. Ids outside
// 1..MaxChallenges are never solved.
func IsSolved(mask int64, id int) bool {
	if id < 1 || id > MaxChallenges {
		return false
	}
	return mask&(1<<uint(id-1)) != 0
}

// MarkSolved returns mask with challenge id recorded. Marking an already
// solved challenge is a no-op, as is an id outside 1..MaxChallenges.
func MarkSolved(mask int64, id int) int64 {
	if id < 1 || id > MaxChallenges {
		return mask
	}
	return mask | (1 << uint(id-1))
}
