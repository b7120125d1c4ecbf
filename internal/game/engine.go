// internal/game/engine.go
//
// The game engine. Owns every user record and applies all mutation rules:
// registration, catch resolution, selling/keeping fish, the shop, and
// equipment management. Mutations are serialized behind one lock and
// written through to durable storage before the call returns.
//
// Catch resolution order (the cost is paid before the outcome is known):
//  1. worm decrement + last-active bump
//  2. bonus composition from equipped items
//  3. durability decay (every attempt, success or not)
//  4. success draw at 0.7 + chance_bonus
//  5. golden draw, species pick, heavy-tail draw, weight draw
//  6. achievement evaluation against the catch and the user

package game

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	startWorms     = 10
	startBagLimit  = 20
	itemDurability = 500

	baseCatchChance = 0.7
	goldenChance    = 1e-6
	heavyTailChance = 0.001
	heavyTailScale  = 10.0
	heavyTailCap    = 450.0
	giantWeight     = 200.0

	wormPrice       = 10
	bagStep         = 10
	bagPriceLow     = 500_000
	bagPriceHigh    = 10_000_000
	bagHighTierFrom = 40
)

// Saver persists one user record. The engine calls it after every
// mutation, before reporting success.
type Saver interface {
	Save(ctx context.Context, id string, u *User) error
}

// Engine holds the full user map in memory, mirrored to a Saver.
type Engine struct {
	mu    sync.RWMutex
	users map[string]*User
	saver Saver
	rng   Rand
}

// NewEngine builds an engine over previously loaded users (may be nil).
// A nil rng gets a crypto-seeded math/rand source.
func NewEngine(users map[string]*User, saver Saver, rng Rand) *Engine {
	if users == nil {
		users = make(map[string]*User)
	}
	if rng == nil {
		rng = newSeededRand()
	}
	return &Engine{users: users, saver: saver, rng: rng}
}

// persist writes the record through to storage. The in-memory mutation
// stays applied either way; the caller decides what to tell the client.
func (e *Engine) persist(ctx context.Context, id string, u *User) error {
	if err := e.saver.Save(ctx, id, u); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("persist user")
		return fmt.Errorf("save user %s: %w", id, err)
	}
	return nil
}

func emptySlots() map[string]*Item {
	slots := make(map[string]*Item, len(slotOrder))
	for _, s := range slotOrder {
		slots[s] = nil
	}
	return slots
}

// Register creates the user if missing, otherwise refreshes the display
// name and backfills fields absent from older persisted records.
func (e *Engine) Register(ctx context.Context, id, name string) (*RegisterResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	if u, ok := e.users[id]; ok {
		u.Name = name
		u.LastActive = now
		if u.Creel == nil {
			u.Creel = []CaughtFish{}
		}
		if u.Achievements == nil {
			u.Achievements = []string{}
		}
		if u.Inventory == nil {
			u.Inventory = []Item{}
		}
		if u.Equipped == nil {
			u.Equipped = emptySlots()
		}
		if err := e.persist(ctx, id, u); err != nil {
			return nil, err
		}
		return &RegisterResult{Status: "existing", User: u.Clone()}, nil
	}

	u := &User{
		Name:         name,
		Worms:        startWorms,
		Money:        0,
		Creel:        []CaughtFish{},
		Achievements: []string{},
		BagLimit:     startBagLimit,
		Inventory:    []Item{},
		Equipped:     emptySlots(),
		CreatedAt:    now,
		LastActive:   now,
	}
	e.users[id] = u
	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &RegisterResult{Status: "registered", User: u.Clone()}, nil
}

// computeBonuses composes the effects of the four equipment slots.
// Additive bonuses sum; the price multiplier composes multiplicatively,
// so an empty loadout yields exactly 1.0.
func computeBonuses(u *User) Bonuses {
	b := Bonuses{PriceMultiplier: 1.0}
	for _, slot := range slotOrder {
		it := u.Equipped[slot]
		if it == nil {
			continue
		}
		b.ChanceBonus += it.Effect.ChanceBonus
		b.RareWeightBonus += it.Effect.RareWeightBonus
		b.CritChance += it.Effect.CritChance
		if it.Effect.PriceMultiplier != 0 {
			b.PriceMultiplier *= it.Effect.PriceMultiplier
		}
	}
	return b
}

// decayEquipment ages every equipped item by one use and removes the ones
// that broke, returning their names.
func decayEquipment(u *User) []string {
	broken := []string{}
	for _, slot := range slotOrder {
		it := u.Equipped[slot]
		if it == nil {
			continue
		}
		it.Durability--
		if it.Durability <= 0 {
			broken = append(broken, it.Name)
			u.Equipped[slot] = nil
		}
	}
	return broken
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// resolveCatch picks the species and weight for a successful attempt.
func (e *Engine) resolveCatch(b Bonuses) CaughtFish {
	now := time.Now().UTC()

	if e.rng.Float64() < goldenChance {
		price := int(goldenFish.MaxWeight * float64(goldenFish.PricePerKg) * b.PriceMultiplier)
		return CaughtFish{
			Name:     goldenFish.Name,
			Weight:   goldenFish.MaxWeight,
			Price:    price,
			Type:     goldenFish.Type,
			IsGolden: true,
			CaughtAt: now,
		}
	}

	sp := species[e.rng.Intn(len(species))]

	var weight float64
	if sp.Type == typeCatfish && e.rng.Float64() < heavyTailChance+b.RareWeightBonus {
		weight = round2(sp.MaxWeight + 0.01 + math.Min(e.rng.ExpFloat64()*heavyTailScale, heavyTailCap))
	} else {
		weight = round2(sp.MinWeight + e.rng.Float64()*(sp.MaxWeight-sp.MinWeight))
	}

	price := int(weight * float64(sp.PricePerKg) * b.PriceMultiplier)
	return CaughtFish{
		Name:     sp.Name,
		Weight:   weight,
		Price:    price,
		Type:     sp.Type,
		CaughtAt: now,
	}
}

// Catch runs one attempt. The worm is spent and equipment ages whether or
// not anything bites.
func (e *Engine) Catch(ctx context.Context, id string) (*CatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if u.Worms <= 0 {
		return nil, ErrNoWorms
	}

	u.Worms--
	u.LastActive = time.Now().UTC()

	bonuses := computeBonuses(u)
	broken := decayEquipment(u)

	// Deliberately unclamped: a chance bonus pushing the sum past 1.0
	// means every draw succeeds.
	if e.rng.Float64() >= baseCatchChance+bonuses.ChanceBonus {
		u.LastCatch = nil
		if err := e.persist(ctx, id, u); err != nil {
			return nil, err
		}
		return &CatchResult{
			Success:     false,
			Message:     failMessages[e.rng.Intn(len(failMessages))],
			WormsLeft:   u.Worms,
			BrokenItems: broken,
		}, nil
	}

	fish := e.resolveCatch(bonuses)
	u.LastCatch = &fish

	newAchievements := unlockAchievements(u, &fish)

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}

	return &CatchResult{
		Success:         true,
		Fish:            &fish,
		NewAchievements: newAchievements,
		WormsLeft:       u.Worms,
		BrokenItems:     broken,
		IsGiant:         fish.Weight > giantWeight && !fish.IsGolden,
	}, nil
}

// SellPending sells the pending catch for its computed price.
func (e *Engine) SellPending(ctx context.Context, id string) (*SellResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if u.LastCatch == nil {
		return nil, ErrNoPendingCatch
	}

	fish := *u.LastCatch
	u.Money += fish.Price
	u.LastCatch = nil
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &SellResult{
		Success:     true,
		MoneyEarned: fish.Price,
		NewBalance:  u.Money,
		FishSold:    fish,
	}, nil
}

// KeepPending moves the pending catch into the creel if there is room.
func (e *Engine) KeepPending(ctx context.Context, id string) (*KeepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if u.LastCatch == nil {
		return nil, ErrNoPendingCatch
	}
	if len(u.Creel) >= u.BagLimit {
		return nil, ErrCreelFull
	}

	fish := *u.LastCatch
	u.Creel = append(u.Creel, fish)
	u.LastCatch = nil
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &KeepResult{
		Success:    true,
		FishKept:   fish,
		CreelCount: len(u.Creel),
	}, nil
}

// SellFromCreel sells the creel entry at index, preserving the order of
// the remaining entries.
func (e *Engine) SellFromCreel(ctx context.Context, id string, index int) (*SellResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if index < 0 || index >= len(u.Creel) {
		return nil, ErrInvalidIndex
	}

	fish := u.Creel[index]
	u.Creel = append(u.Creel[:index], u.Creel[index+1:]...)
	u.Money += fish.Price
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &SellResult{
		Success:     true,
		MoneyEarned: fish.Price,
		NewBalance:  u.Money,
		FishSold:    fish,
	}, nil
}

// BuyItem purchases a catalog item straight into its equipment slot.
func (e *Engine) BuyItem(ctx context.Context, id, itemName string) (*BuyItemResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cat, ok := shopItems[itemName]
	if !ok {
		return nil, ErrUnknownItem
	}
	if u.Money < cat.Price {
		return nil, ErrInsufficientFunds
	}
	if u.Equipped[cat.Type] != nil {
		return nil, ErrSlotOccupied
	}

	u.Money -= cat.Price
	u.Equipped[cat.Type] = &Item{
		Name:       itemName,
		Durability: itemDurability,
		Effect:     cat.Effect,
	}
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &BuyItemResult{Success: true, ItemBought: itemName, NewBalance: u.Money}, nil
}

// BuyWorms converts money into worms at a fixed unit price.
func (e *Engine) BuyWorms(ctx context.Context, id string, count int) (*BuyWormsResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cost := count * wormPrice
	if u.Money < cost {
		return nil, ErrInsufficientFunds
	}

	u.Money -= cost
	u.Worms += count
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &BuyWormsResult{
		Success:     true,
		WormsBought: count,
		Cost:        cost,
		NewBalance:  u.Money,
		TotalWorms:  u.Worms,
	}, nil
}

// ExtendBag grows the creel capacity by 10; the price jumps once the
// limit reaches 40.
func (e *Engine) ExtendBag(ctx context.Context, id string) (*ExtendBagResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cost := bagPriceLow
	if u.BagLimit >= bagHighTierFrom {
		cost = bagPriceHigh
	}
	if u.Money < cost {
		return nil, ErrInsufficientFunds
	}

	u.Money -= cost
	u.BagLimit += bagStep
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &ExtendBagResult{
		Success:     true,
		NewBagLimit: u.BagLimit,
		Cost:        cost,
		NewBalance:  u.Money,
	}, nil
}

// Unequip clears a slot. The item goes back to inventory only if it has
// durability left; a depleted item is discarded.
func (e *Engine) Unequip(ctx context.Context, id, slot string) (*UnequipResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if !validSlot(slot) {
		return nil, ErrInvalidSlot
	}
	it := u.Equipped[slot]
	if it == nil {
		return nil, ErrSlotEmpty
	}

	if it.Durability > 0 {
		u.Inventory = append(u.Inventory, *it)
	}
	u.Equipped[slot] = nil
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &UnequipResult{Success: true, ItemUnequipped: it.Name, Slot: slot}, nil
}

// Equip moves the inventory item at index into its slot. The slot is
// determined by the item's catalog type, not by the instance.
func (e *Engine) Equip(ctx context.Context, id string, index int) (*EquipResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if index < 0 || index >= len(u.Inventory) {
		return nil, ErrInvalidIndex
	}

	it := u.Inventory[index]
	cat, ok := shopItems[it.Name]
	if !ok {
		return nil, ErrUnknownItemType
	}
	if u.Equipped[cat.Type] != nil {
		return nil, ErrSlotOccupied
	}

	equipped := it
	u.Equipped[cat.Type] = &equipped
	u.Inventory = append(u.Inventory[:index], u.Inventory[index+1:]...)
	u.LastActive = time.Now().UTC()

	if err := e.persist(ctx, id, u); err != nil {
		return nil, err
	}
	return &EquipResult{Success: true, ItemEquipped: it.Name, Slot: cat.Type}, nil
}

func validSlot(slot string) bool {
	for _, s := range slotOrder {
		if s == slot {
			return true
		}
	}
	return false
}

// State returns a composed read-only snapshot of one player.
func (e *Engine) State(id string) (*StateView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	c := u.Clone()
	return &StateView{
		User: UserSummary{
			Name:         c.Name,
			Money:        c.Money,
			Worms:        c.Worms,
			BagLimit:     c.BagLimit,
			Achievements: c.Achievements,
		},
		Inventory: c.Inventory,
		Equipped:  c.Equipped,
		Creel:     c.Creel,
		LastCatch: c.LastCatch,
		Bonuses:   computeBonuses(u),
	}, nil
}

// TopPlayers ranks users by money, descending. Ties break on user id so
// the ordering is stable across calls.
func (e *Engine) TopPlayers(limit int) []TopEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	type ranked struct {
		id string
		u  *User
	}
	all := make([]ranked, 0, len(e.users))
	for id, u := range e.users {
		all = append(all, ranked{id: id, u: u})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].u.Money != all[j].u.Money {
			return all[i].u.Money > all[j].u.Money
		}
		return all[i].id < all[j].id
	})

	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]TopEntry, len(all))
	for i, r := range all {
		out[i] = TopEntry{
			Rank:              i + 1,
			Name:              r.u.Name,
			Money:             r.u.Money,
			AchievementsCount: len(r.u.Achievements),
		}
	}
	return out
}

// AllAchievements lists the catalog without per-user state.
func (e *Engine) AllAchievements() []AchievementStatus {
	out := make([]AchievementStatus, len(achievementCatalog))
	for i, a := range achievementCatalog {
		out[i] = AchievementStatus{ID: a.ID, Name: a.Name, Description: a.Description}
	}
	return out
}

// UserAchievements lists the catalog annotated with the user's unlocks.
func (e *Engine) UserAchievements(id string) ([]AchievementStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	u, ok := e.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]AchievementStatus, len(achievementCatalog))
	for i, a := range achievementCatalog {
		out[i] = AchievementStatus{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Unlocked:    hasAchievement(u, a.ID),
		}
	}
	return out, nil
}

// UserCount reports the number of registered users (liveness probe).
func (e *Engine) UserCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.users)
}
