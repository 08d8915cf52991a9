package srr

// Team is a team index in 0..n-1. The index order doubles as the ranking:
// team 0 is the top seed.
type Team int

// Round is a round index in 0..n-2.
type Round int

// Letter is a home/away status letter.
type Letter byte

const (
	Home Letter = 'H'
	Away Letter = 'A'
)

// Other returns the opposite letter.
func (l Letter) Other() Letter {
	if l == Home {
		return Away
	}
	return Home
}

// BreakPattern identifies one entry of the break-pattern catalog: the round
// the break falls on and the letter the team repeats there. The full
// home/away string is derived from it by Domain.Pattern.
type BreakPattern struct {
	Round  Round
	Letter Letter
}

// Match is an ordered pairing: Home hosts Away.
type Match struct {
	Home Team
	Away Team
}
