// internal/game/types.go
//
// Core data types for the fishing game engine.
// Defines:
//   - User: the persisted per-player record (worms, money, creel, equipment).
//   - CaughtFish: a single catch result, pending until sold or kept.
//   - Item / Effect: equipment instances and their stat bundles.
//   - Bonuses: the composed effect of everything currently equipped.

package game

import "time"

// Equipment slot names. Each slot holds at most one item; an item's
// catalog type determines the only slot it may occupy.
const (
	SlotBeer      = "beer"
	SlotGear      = "gear"
	SlotBait      = "bait"
	SlotAccessory = "accessory"
)

// slotOrder fixes the iteration order over equipment slots so durability
// decay and bonus composition are deterministic.
var slotOrder = []string{SlotBeer, SlotGear, SlotBait, SlotAccessory}

// Effect is the stat bundle an item grants while equipped. A zero field
// means the item does not carry that effect.
type Effect struct {
	ChanceBonus     float64 `json:"chance_bonus,omitempty"`
	RareWeightBonus float64 `json:"rare_weight_bonus,omitempty"`
	PriceMultiplier float64 `json:"price_multiplier,omitempty"`
	CritChance      float64 `json:"crit_chance,omitempty"`
}

// Item is an owned equipment instance. Durability starts at 500 and drops
// by one per catch attempt while equipped; at zero the item is destroyed.
type Item struct {
	Name       string `json:"name"`
	Durability int    `json:"durability"`
	Effect     Effect `json:"effect"`
}

// CaughtFish is one catch. It lives in the pending slot until the player
// sells or keeps it; there is no separate catch history.
type CaughtFish struct {
	Name     string    `json:"name"`
	Weight   float64   `json:"weight"`
	Price    int       `json:"price"`
	Type     string    `json:"type"`
	IsGolden bool      `json:"is_golden,omitempty"`
	CaughtAt time.Time `json:"caught_at"`
}

// User is the full per-player record, keyed externally by an opaque id.
// The JSON shape doubles as the persisted format.
type User struct {
	Name         string           `json:"name"`
	Worms        int              `json:"worms"`
	Money        int              `json:"money"`
	Creel        []CaughtFish     `json:"catch"`
	LastCatch    *CaughtFish      `json:"last_catch"`
	Achievements []string         `json:"achievements"`
	BagLimit     int              `json:"bag_limit"`
	Inventory    []Item           `json:"inventory"`
	Equipped     map[string]*Item `json:"items"`
	CreatedAt    time.Time        `json:"created_at"`
	LastActive   time.Time        `json:"last_active"`
}

// Clone returns a deep copy, so snapshots handed to callers never alias
// engine-owned state. Empty slices stay empty rather than becoming nil,
// keeping the wire format at [] instead of null.
func (u *User) Clone() *User {
	c := *u
	if u.Creel != nil {
		c.Creel = append([]CaughtFish{}, u.Creel...)
	}
	if u.Achievements != nil {
		c.Achievements = append([]string{}, u.Achievements...)
	}
	if u.Inventory != nil {
		c.Inventory = append([]Item{}, u.Inventory...)
	}
	if u.LastCatch != nil {
		f := *u.LastCatch
		c.LastCatch = &f
	}
	c.Equipped = make(map[string]*Item, len(u.Equipped))
	for slot, it := range u.Equipped {
		if it == nil {
			c.Equipped[slot] = nil
			continue
		}
		cp := *it
		c.Equipped[slot] = &cp
	}
	return &c
}

// Bonuses is the composed effect of the four equipment slots.
// Additive fields start at 0; the price multiplier starts at 1.0 and
// composes multiplicatively.
type Bonuses struct {
	ChanceBonus     float64 `json:"chance_bonus"`
	PriceMultiplier float64 `json:"price_multiplier"`
	RareWeightBonus float64 `json:"rare_weight_bonus"`
	CritChance      float64 `json:"crit_chance"`
}

// Species describes one catchable fish kind. AbsMax is informational for
// ordinary draws; heavy-tail catches are capped by the additive formula
// in the catch resolver instead.
type Species struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	MinWeight  float64 `json:"min_weight"`
	MaxWeight  float64 `json:"max_weight"`
	AbsMax     float64 `json:"abs_max"`
	PricePerKg int     `json:"price_per_kg"`
}
