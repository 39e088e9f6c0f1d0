package rewards

// Prize is one of the six draw outcomes.
type Prize string

const (
	ZoomBackground    Prize = "Zoom Background"
	ProfilePicture    Prize = "Profile Picture"
	CyberStickers     Prize = "Cyber Stickers"
	CyberDiscordRole  Prize = "Cyber Discord Role"
	CyberDiscordEmote Prize = "Cyber Discord Emote"
	AarinSerenade     Prize = "Aarin Serenade"
)

// WeightTotal is the sum of all draw weights. Weights are kept in tenths of
// a percent so the half-percent prizes and the 60/40 redistribution stay
// integer-exact.
const WeightTotal = 1000

// PrizeWeight pairs a prize with its current draw weight.
type PrizeWeight struct {
	Prize  Prize
	Weight int
}

// Base odds: 40.2% / 26.8% for the two unlimited prizes, 2% stickers,
// 30% role, 0.5% emote, 0.5% serenade. The unlimited pair splits its mass
// 60/40 and absorbs removed scarce weight at the same ratio.
var baseWeights = []PrizeWeight{
	{ZoomBackground, 402},
	{ProfilePicture, 268},
	{CyberStickers, 20},
	{CyberDiscordRole, 300},
	{CyberDiscordEmote, 5},
	{AarinSerenade, 5},
}

// Scarce prizes may be won at most once per team.
var scarce = map[Prize]bool{
	CyberStickers:     true,
	CyberDiscordRole:  true,
	CyberDiscordEmote: true,
	AarinSerenade:     true,
}

// Scarce reports whether a prize is limited to one per team.
func Scarce(p Prize) bool {
	return scarce[p]
}

// DrawWeights computes the weight vector for one draw given which scarce
// prizes the team already owns. Owned scarce prizes are zeroed and their
// mass moves into Zoom Background and Profile Picture at 60/40. Every
// scarce weight is a multiple of 5, so the split is exact and the vector
// always sums to WeightTotal.
func DrawWeights(owned map[Prize]bool) []PrizeWeight {
	weights := make([]PrizeWeight, len(baseWeights))
	removed := 0
	for i, bw := range baseWeights {
		w := bw.Weight
		if scarce[bw.Prize] && owned[bw.Prize] {
			removed += w
			w = 0
		}
		weights[i] = PrizeWeight{bw.Prize, w}
	}
	weights[0].Weight += removed * 6 / 10
	weights[1].Weight += removed * 4 / 10
	return weights
}

// Draw maps a uniform roll in [0, WeightTotal) to a prize via the
// cumulative weights for the team's current ownership. A prize with zero
// weight can never be returned.
func Draw(owned map[Prize]bool, roll int) Prize {
	weights := DrawWeights(owned)
	for _, pw := range weights {
		if roll < pw.Weight {
			return pw.Prize
		}
		roll -= pw.Weight
	}
	// Unreachable for rolls in range; the unlimited prizes always carry
	// the remaining mass.
	return weights[0].Prize
}
