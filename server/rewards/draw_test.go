package rewards

import (
	"math/rand"
	"testing"
)

var scarcePrizes = []Prize{CyberStickers, CyberDiscordRole, CyberDiscordEmote, AarinSerenade}

// ownedSubset expands a bitmask over scarcePrizes into an ownership map.
func ownedSubset(bits int) map[Prize]bool {
	owned := make(map[Prize]bool)
	for i, p := range scarcePrizes {
		if bits&(1<<i) != 0 {
			owned[p] = true
		}
	}
	return owned
}

func TestDrawWeightsSumForAllOwnershipSubsets(t *testing.T) {
	for bits := 0; bits < 1<<len(scarcePrizes); bits++ {
		owned := ownedSubset(bits)
		weights := DrawWeights(owned)

		sum := 0
		for _, pw := range weights {
			sum += pw.Weight
			if owned[pw.Prize] && pw.Weight != 0 {
				t.Errorf("subset %04b: owned prize %q kept weight %d", bits, pw.Prize, pw.Weight)
			}
			if pw.Weight < 0 {
				t.Errorf("subset %04b: negative weight for %q", bits, pw.Prize)
			}
		}
		if sum != WeightTotal {
			t.Errorf("subset %04b: weights sum to %d, want %d", bits, sum, WeightTotal)
		}
	}
}

func TestDrawWeightsRedistributionRatio(t *testing.T) {
	// Zeroing every scarce prize moves 330 tenths into the unlimited pair,
	// split 60/40 on top of their 402/268 base.
	weights := DrawWeights(ownedSubset(0b1111))
	if weights[0].Prize != ZoomBackground || weights[0].Weight != 402+198 {
		t.Errorf("zoom background weight = %d, want 600", weights[0].Weight)
	}
	if weights[1].Prize != ProfilePicture || weights[1].Weight != 268+132 {
		t.Errorf("profile picture weight = %d, want 400", weights[1].Weight)
	}
}

func TestDrawBaseWeights(t *testing.T) {
	weights := DrawWeights(nil)
	want := map[Prize]int{
		ZoomBackground:    402,
		ProfilePicture:    268,
		CyberStickers:     20,
		CyberDiscordRole:  300,
		CyberDiscordEmote: 5,
		AarinSerenade:     5,
	}
	for _, pw := range weights {
		if pw.Weight != want[pw.Prize] {
			t.Errorf("base weight for %q = %d, want %d", pw.Prize, pw.Weight, want[pw.Prize])
		}
	}
}

func TestDrawCumulativeBoundaries(t *testing.T) {
	// Base order: zoom 402, pfp 268, stickers 20, role 300, emote 5,
	// serenade 5. Check the first and last roll of each band.
	cases := []struct {
		roll int
		want Prize
	}{
		{0, ZoomBackground},
		{401, ZoomBackground},
		{402, ProfilePicture},
		{669, ProfilePicture},
		{670, CyberStickers},
		{689, CyberStickers},
		{690, CyberDiscordRole},
		{989, CyberDiscordRole},
		{990, CyberDiscordEmote},
		{994, CyberDiscordEmote},
		{995, AarinSerenade},
		{999, AarinSerenade},
	}
	for _, tc := range cases {
		if got := Draw(nil, tc.roll); got != tc.want {
			t.Errorf("Draw(nil, %d) = %q, want %q", tc.roll, got, tc.want)
		}
	}
}

func TestDrawNeverYieldsOwnedScarcePrize(t *testing.T) {
	for bits := 0; bits < 1<<len(scarcePrizes); bits++ {
		owned := ownedSubset(bits)
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 5000; i++ {
			if p := Draw(owned, rng.Intn(WeightTotal)); owned[p] {
				t.Fatalf("subset %04b: drew owned scarce prize %q", bits, p)
			}
		}
	}
}

func TestScarceClassification(t *testing.T) {
	for _, p := range scarcePrizes {
		if !Scarce(p) {
			t.Errorf("%q should be scarce", p)
		}
	}
	if Scarce(ZoomBackground) || Scarce(ProfilePicture) {
		t.Error("unlimited prizes reported scarce")
	}
}
