package engine

import "github.com/pokearena/arena-server/internal/arena"

// Combatant is one side of a battle: a player address with the committed
// card and its registry stat block.
type Combatant struct {
	Address string
	CardID  uint64
	Stats   arena.CardStats
}

// Outcome is the resolved result of a battle. Powers are the resolved
// (type-adjusted) values used for the comparison.
type Outcome struct {
	Winner      Combatant
	Loser       Combatant
	WinnerPower int64
	LoserPower  int64
	TieBroken   bool
}

// Resolve computes each side's power against the other's type and picks the
// winner. Equal powers fall through to the tie-breaker; the result is a
// total order, so there is never an ambiguous outcome.
func (tc *TypeChart) Resolve(a, b Combatant) Outcome {
	pa := tc.ResolvePower(a.Stats, b.Stats.Type)
	pb := tc.ResolvePower(b.Stats, a.Stats.Type)

	switch {
	case pa > pb:
		return Outcome{Winner: a, Loser: b, WinnerPower: pa, LoserPower: pb}
	case pb > pa:
		return Outcome{Winner: b, Loser: a, WinnerPower: pb, LoserPower: pa}
	}
	if breakTie(a, b) {
		return Outcome{Winner: a, Loser: b, WinnerPower: pa, LoserPower: pb, TieBroken: true}
	}
	return Outcome{Winner: b, Loser: a, WinnerPower: pb, LoserPower: pa, TieBroken: true}
}

// breakTie reports whether a beats b when resolved powers are equal: higher
// speed wins; at equal speed the lower card identifier wins (earlier mints
// are senior). There is no further tiebreak level.
func breakTie(a, b Combatant) bool {
	if a.Stats.Speed != b.Stats.Speed {
		return a.Stats.Speed > b.Stats.Speed
	}
	return a.CardID < b.CardID
}
