package engine

import "github.com/pokearena/arena-server/internal/arena"

// Effectiveness is the outcome code for an (attacker, defender) type
// matchup. Entries default to Normal unless explicitly set.
type Effectiveness uint8

const (
	Normal         Effectiveness = iota // x1
	SuperEffective                      // x2
	Resisted                            // x0.5
	Immune                              // x0
)

// MultiplierPercent returns the power multiplier for this effectiveness in
// percent, keeping all battle math in integers.
func (e Effectiveness) MultiplierPercent() int64 {
	switch e {
	case SuperEffective:
		return 200
	case Resisted:
		return 50
	case Immune:
		return 0
	default:
		return 100
	}
}

// TypeChart is an immutable matrix over the full type enumeration, indexed
// [attacker][defender]. It is constructed once at engine initialization and
// read-only thereafter.
type TypeChart struct {
	chart [arena.NumCardTypes][arena.NumCardTypes]Effectiveness
}

// Effectiveness looks up the matchup code for attacker vs defender.
func (tc *TypeChart) Effectiveness(attacker, defender arena.CardType) Effectiveness {
	return tc.chart[attacker][defender]
}

func (tc *TypeChart) set(attacker arena.CardType, eff Effectiveness, defenders ...arena.CardType) {
	for _, d := range defenders {
		tc.chart[attacker][d] = eff
	}
}

// NewTypeChart builds the canonical matchup matrix.
func NewTypeChart() *TypeChart {
	tc := &TypeChart{}

	tc.set(arena.TypeNormal, Resisted, arena.TypeRock)
	tc.set(arena.TypeNormal, Immune, arena.TypeGhost)

	tc.set(arena.TypeFire, SuperEffective, arena.TypeGrass, arena.TypeIce, arena.TypeBug)
	tc.set(arena.TypeFire, Resisted, arena.TypeFire, arena.TypeWater, arena.TypeRock, arena.TypeDragon)

	tc.set(arena.TypeWater, SuperEffective, arena.TypeFire, arena.TypeGround, arena.TypeRock)
	tc.set(arena.TypeWater, Resisted, arena.TypeWater, arena.TypeGrass, arena.TypeDragon)

	tc.set(arena.TypeGrass, SuperEffective, arena.TypeWater, arena.TypeGround, arena.TypeRock)
	tc.set(arena.TypeGrass, Resisted, arena.TypeFire, arena.TypeGrass, arena.TypePoison, arena.TypeFlying, arena.TypeBug, arena.TypeDragon)

	tc.set(arena.TypeElectric, SuperEffective, arena.TypeWater, arena.TypeFlying)
	tc.set(arena.TypeElectric, Resisted, arena.TypeGrass, arena.TypeElectric, arena.TypeDragon)
	tc.set(arena.TypeElectric, Immune, arena.TypeGround)

	tc.set(arena.TypeIce, SuperEffective, arena.TypeGrass, arena.TypeGround, arena.TypeFlying, arena.TypeDragon)
	tc.set(arena.TypeIce, Resisted, arena.TypeFire, arena.TypeWater, arena.TypeIce)

	tc.set(arena.TypeFighting, SuperEffective, arena.TypeNormal, arena.TypeIce, arena.TypeRock)
	tc.set(arena.TypeFighting, Resisted, arena.TypePoison, arena.TypeFlying, arena.TypePsychic, arena.TypeBug)
	tc.set(arena.TypeFighting, Immune, arena.TypeGhost)

	tc.set(arena.TypePoison, SuperEffective, arena.TypeGrass)
	tc.set(arena.TypePoison, Resisted, arena.TypePoison, arena.TypeGround, arena.TypeRock, arena.TypeGhost)

	tc.set(arena.TypeGround, SuperEffective, arena.TypeFire, arena.TypeElectric, arena.TypePoison, arena.TypeRock)
	tc.set(arena.TypeGround, Resisted, arena.TypeGrass, arena.TypeBug)
	tc.set(arena.TypeGround, Immune, arena.TypeFlying)

	tc.set(arena.TypeFlying, SuperEffective, arena.TypeGrass, arena.TypeFighting, arena.TypeBug)
	tc.set(arena.TypeFlying, Resisted, arena.TypeElectric, arena.TypeRock)

	tc.set(arena.TypePsychic, SuperEffective, arena.TypeFighting, arena.TypePoison)
	tc.set(arena.TypePsychic, Resisted, arena.TypePsychic)

	tc.set(arena.TypeBug, SuperEffective, arena.TypeGrass, arena.TypePsychic)
	tc.set(arena.TypeBug, Resisted, arena.TypeFire, arena.TypeFighting, arena.TypePoison, arena.TypeFlying, arena.TypeGhost)

	tc.set(arena.TypeRock, SuperEffective, arena.TypeFire, arena.TypeIce, arena.TypeFlying, arena.TypeBug)
	tc.set(arena.TypeRock, Resisted, arena.TypeFighting, arena.TypeGround)

	tc.set(arena.TypeGhost, SuperEffective, arena.TypeGhost, arena.TypePsychic)
	tc.set(arena.TypeGhost, Immune, arena.TypeNormal)

	tc.set(arena.TypeDragon, SuperEffective, arena.TypeDragon)

	return tc
}
