package arena

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CardType is the elemental type of a card. The enumeration is closed; the
// type chart is a full matrix over it.
type CardType uint8

const (
	TypeNormal CardType = iota
	TypeFire
	TypeWater
	TypeGrass
	TypeElectric
	TypeIce
	TypeFighting
	TypePoison
	TypeGround
	TypeFlying
	TypePsychic
	TypeBug
	TypeRock
	TypeGhost
	TypeDragon

	// NumCardTypes bounds the type-chart matrix.
	NumCardTypes = int(TypeDragon) + 1
)

var cardTypeNames = [NumCardTypes]string{
	"normal", "fire", "water", "grass", "electric", "ice", "fighting",
	"poison", "ground", "flying", "psychic", "bug", "rock", "ghost",
	"dragon",
}

func (t CardType) String() string {
	if int(t) < len(cardTypeNames) {
		return cardTypeNames[t]
	}
	return fmt.Sprintf("cardtype(%d)", uint8(t))
}

// MarshalJSON emits the type name so API payloads stay readable.
func (t CardType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ParseCardType maps a registry-supplied type name to its enum value.
func ParseCardType(s string) (CardType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range cardTypeNames {
		if n == name {
			return CardType(i), nil
		}
	}
	return TypeNormal, fmt.Errorf("unknown card type %q", s)
}

// Rarity is a card's mint rarity tier.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityUltraRare
	RarityLegendary
)

var rarityNames = []string{"common", "uncommon", "rare", "ultra_rare", "legendary"}

func (r Rarity) String() string {
	if int(r) < len(rarityNames) {
		return rarityNames[r]
	}
	return fmt.Sprintf("rarity(%d)", uint8(r))
}

// MarshalJSON emits the rarity name so API payloads stay readable.
func (r Rarity) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// ParseRarity maps a registry-supplied rarity name to its enum value.
func ParseRarity(s string) (Rarity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range rarityNames {
		if n == name {
			return Rarity(i), nil
		}
	}
	return RarityCommon, fmt.Errorf("unknown rarity %q", s)
}

// CardStats is the read-only stat block served by the external card
// registry. It is never persisted by this engine.
type CardStats struct {
	HP      uint32   `json:"hp"`
	Attack  uint32   `json:"attack"`
	Defense uint32   `json:"defense"`
	Speed   uint32   `json:"speed"`
	Type    CardType `json:"type"`
	Rarity  Rarity   `json:"rarity"`
}
