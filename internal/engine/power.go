package engine

import "github.com/pokearena/arena-server/internal/arena"

// Rarity multipliers in percent: Common x1.00, Uncommon x1.20, Rare x1.50,
// UltraRare x2.00, Legendary x3.00.
var rarityPercent = map[arena.Rarity]int64{
	arena.RarityCommon:    100,
	arena.RarityUncommon:  120,
	arena.RarityRare:      150,
	arena.RarityUltraRare: 200,
	arena.RarityLegendary: 300,
}

// BasePower computes the type-neutral battle power of a stat block:
// 2*hp + 3*attack + 2*defense + 3*speed, scaled by the card's rarity.
func BasePower(stats arena.CardStats) int64 {
	raw := 2*int64(stats.HP) + 3*int64(stats.Attack) + 2*int64(stats.Defense) + 3*int64(stats.Speed)
	pct, ok := rarityPercent[stats.Rarity]
	if !ok {
		pct = 100
	}
	return raw * pct / 100
}

// ResolvePower applies the type-chart multiplier for this matchup on top of
// the base power. All math is integer; identical inputs always produce the
// same power.
func (tc *TypeChart) ResolvePower(stats arena.CardStats, opponentType arena.CardType) int64 {
	eff := tc.Effectiveness(stats.Type, opponentType)
	return BasePower(stats) * eff.MultiplierPercent() / 100
}
