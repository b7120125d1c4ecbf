package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand feeds predetermined draws to the catch resolver so tests
// can walk specific probability branches. Exhausted queues fall back to
// values that fail every probability check.
type scriptedRand struct {
	floats []float64
	ints   []int
	exps   []float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.999999
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) ExpFloat64() float64 {
	if len(r.exps) == 0 {
		return 1
	}
	v := r.exps[0]
	r.exps = r.exps[1:]
	return v
}

type nopSaver struct{}

func (nopSaver) Save(ctx context.Context, id string, u *User) error { return nil }

type failSaver struct{}

func (failSaver) Save(ctx context.Context, id string, u *User) error {
	return errors.New("disk full")
}

func newTestEngine(rng Rand) *Engine {
	return NewEngine(nil, nopSaver{}, rng)
}

func register(t *testing.T, e *Engine, id, name string) *User {
	t.Helper()
	res, err := e.Register(context.Background(), id, name)
	require.NoError(t, err)
	return res.User
}

func TestRegisterDefaults(t *testing.T) {
	e := newTestEngine(nil)

	res, err := e.Register(context.Background(), "42", "Tester")
	require.NoError(t, err)
	assert.Equal(t, "registered", res.Status)

	u := res.User
	assert.Equal(t, "Tester", u.Name)
	assert.Equal(t, 10, u.Worms)
	assert.Equal(t, 0, u.Money)
	assert.Equal(t, 20, u.BagLimit)
	assert.Empty(t, u.Creel)
	assert.Empty(t, u.Achievements)
	assert.Empty(t, u.Inventory)
	require.Len(t, u.Equipped, 4)
	for _, slot := range []string{SlotBeer, SlotGear, SlotBait, SlotAccessory} {
		item, ok := u.Equipped[slot]
		assert.True(t, ok)
		assert.Nil(t, item)
	}
}

func TestRegisterExisting(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "42", "Tester")

	res, err := e.Register(context.Background(), "42", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "existing", res.Status)
	assert.Equal(t, "Renamed", res.User.Name)
	assert.Equal(t, 10, res.User.Worms)
}

func TestRegisterBackfillsOldRecords(t *testing.T) {
	e := newTestEngine(nil)
	// A record persisted before inventory and equipment existed.
	e.users["old"] = &User{Name: "Old", Worms: 3, BagLimit: 20}

	res, err := e.Register(context.Background(), "old", "Old")
	require.NoError(t, err)
	assert.Equal(t, "existing", res.Status)
	assert.NotNil(t, res.User.Creel)
	assert.NotNil(t, res.User.Achievements)
	assert.NotNil(t, res.User.Inventory)
	require.Len(t, res.User.Equipped, 4)
}

func TestCatchRequiresRegistration(t *testing.T) {
	e := newTestEngine(nil)
	_, err := e.Catch(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCatchNoWorms(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Dry")
	e.users["1"].Worms = 0

	_, err := e.Catch(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoWorms)
	assert.Equal(t, 0, e.users["1"].Worms)
}

func TestCatchFailureStillCostsAWorm(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.99}, ints: []int{3}}
	e := newTestEngine(rng)
	register(t, e, "1", "Unlucky")

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, failMessages[3], res.Message)
	assert.Equal(t, 9, res.WormsLeft)
	assert.Nil(t, res.Fish)
	assert.Nil(t, e.users["1"].LastCatch)
}

func TestCatchExactWeightUnlocksAchievement(t *testing.T) {
	// success, no golden, catfish, no heavy tail, uniform draw hitting
	// 5.0 + (9.88/45)*45 = 14.88 kg.
	rng := &scriptedRand{
		floats: []float64{0.1, 0.5, 0.9, 9.88 / 45.0},
		ints:   []int{2},
	}
	e := newTestEngine(rng)
	register(t, e, "1", "Sniper")

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Fish)
	assert.Equal(t, "Сом", res.Fish.Name)
	assert.InDelta(t, 14.88, res.Fish.Weight, 1e-9)
	assert.Equal(t, 2976, res.Fish.Price)
	assert.Equal(t, 9, res.WormsLeft)
	assert.False(t, res.IsGiant)

	require.Len(t, res.NewAchievements, 1)
	assert.Equal(t, "🎯 Бог рыбалки", res.NewAchievements[0].Name)
	assert.Contains(t, e.users["1"].Achievements, "fish_weight_14_88")

	// Same draws again: the achievement must not re-unlock.
	rng.floats = []float64{0.1, 0.5, 0.9, 9.88 / 45.0}
	rng.ints = []int{2}
	res2, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, res2.Success)
	assert.Empty(t, res2.NewAchievements)
	assert.Len(t, e.users["1"].Achievements, 1)
}

func TestCatchGoldenFish(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.0, 0.0}}
	e := newTestEngine(rng)
	register(t, e, "1", "Lucky")

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Fish)
	assert.Equal(t, "Золотая рыбка", res.Fish.Name)
	assert.Equal(t, 1.0, res.Fish.Weight)
	assert.Equal(t, 1_000_000, res.Fish.Price)
	assert.Equal(t, "золотая", res.Fish.Type)
	assert.True(t, res.Fish.IsGolden)
	assert.False(t, res.IsGiant, "the legendary fish is never reported as giant")

	var names []string
	for _, a := range res.NewAchievements {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"🌟 Исполнилось желание", "💰 Богач"}, names)
}

func TestCatchHeavyTail(t *testing.T) {
	// Heavy-tail draw succeeds, exponential term 2.0 → 50 + 0.01 + 20.
	rng := &scriptedRand{
		floats: []float64{0.1, 0.5, 0.0005},
		ints:   []int{2},
		exps:   []float64{2.0},
	}
	e := newTestEngine(rng)
	register(t, e, "1", "Whaler")

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.InDelta(t, 70.01, res.Fish.Weight, 1e-9)
	assert.False(t, res.IsGiant)
}

func TestCatchHeavyTailCapAndGiantFlag(t *testing.T) {
	// Exponential term 50 → additive part capped at 450: 50 + 0.01 + 450.
	rng := &scriptedRand{
		floats: []float64{0.1, 0.5, 0.0005},
		ints:   []int{2},
		exps:   []float64{50.0},
	}
	e := newTestEngine(rng)
	register(t, e, "1", "Ahab")

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.InDelta(t, 500.01, res.Fish.Weight, 1e-9)
	assert.Greater(t, res.Fish.Price, 9980)
	assert.True(t, res.IsGiant)

	var names []string
	for _, a := range res.NewAchievements {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"💪 Монстр рыбалки", "💰 Богач"}, names)
}

func TestCatchDecaysDurability(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.99}, ints: []int{0}}
	e := newTestEngine(rng)
	register(t, e, "1", "Gearhead")
	e.users["1"].Equipped[SlotBeer] = &Item{Name: "Светлое пиво", Durability: 2, Effect: Effect{ChanceBonus: 0.05}}
	e.users["1"].Equipped[SlotGear] = &Item{Name: "Ультраблесна", Durability: 1, Effect: Effect{RareWeightBonus: 0.03}}

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ультраблесна"}, res.BrokenItems)
	assert.Nil(t, e.users["1"].Equipped[SlotGear])
	require.NotNil(t, e.users["1"].Equipped[SlotBeer])
	assert.Equal(t, 1, e.users["1"].Equipped[SlotBeer].Durability)
}

func TestCatchChanceBonusSaturates(t *testing.T) {
	// chance_bonus pushing the sum past 1.0 makes every draw succeed.
	rng := &scriptedRand{floats: []float64{0.9999, 0.5, 0.9}, ints: []int{0}}
	e := newTestEngine(rng)
	register(t, e, "1", "Stacked")
	e.users["1"].Equipped[SlotBeer] = &Item{Name: "Сусло древнего рыбака", Durability: 500, Effect: Effect{ChanceBonus: 0.2}}
	e.users["1"].Equipped[SlotGear] = &Item{Name: "Уловистая блесна", Durability: 500, Effect: Effect{ChanceBonus: 0.1}}
	e.users["1"].Equipped[SlotBait] = &Item{Name: "Личинка ручейника", Durability: 500, Effect: Effect{ChanceBonus: 0.1}}

	res, err := e.Catch(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestComputeBonusesEmptyLoadout(t *testing.T) {
	e := newTestEngine(nil)
	u := register(t, e, "1", "Bare")

	b := computeBonuses(u)
	assert.Equal(t, 0.0, b.ChanceBonus)
	assert.Equal(t, 0.0, b.RareWeightBonus)
	assert.Equal(t, 0.0, b.CritChance)
	assert.Equal(t, 1.0, b.PriceMultiplier)
}

func TestComputeBonusesComposition(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Rich")
	u := e.users["1"]
	u.Equipped[SlotBeer] = &Item{Name: "Жидкое золото", Durability: 500, Effect: Effect{PriceMultiplier: 1.25}}
	u.Equipped[SlotBait] = &Item{Name: "Золотой червь", Durability: 500, Effect: Effect{PriceMultiplier: 1.1}}
	u.Equipped[SlotGear] = &Item{Name: "Ультраблесна", Durability: 500, Effect: Effect{RareWeightBonus: 0.03}}
	u.Equipped[SlotAccessory] = &Item{Name: "Колокольчик удачи", Durability: 500, Effect: Effect{CritChance: 0.001}}

	b := computeBonuses(u)
	assert.InDelta(t, 1.375, b.PriceMultiplier, 1e-9)
	assert.InDelta(t, 0.03, b.RareWeightBonus, 1e-9)
	assert.InDelta(t, 0.001, b.CritChance, 1e-9)
	assert.Equal(t, 0.0, b.ChanceBonus)
}

func TestSellPending(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Seller")
	e.users["1"].LastCatch = &CaughtFish{Name: "Щука", Weight: 2.0, Price: 300, Type: "щука"}

	res, err := e.SellPending(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 300, res.MoneyEarned)
	assert.Equal(t, 300, res.NewBalance)
	assert.Equal(t, "Щука", res.FishSold.Name)
	assert.Nil(t, e.users["1"].LastCatch)

	_, err = e.SellPending(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoPendingCatch)
}

func TestKeepPendingAndCreelLimit(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Hoarder")
	u := e.users["1"]
	u.BagLimit = 2

	for i := 0; i < 2; i++ {
		u.LastCatch = &CaughtFish{Name: "Карась", Weight: 0.5, Price: 25, Type: "карась"}
		res, err := e.KeepPending(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, i+1, res.CreelCount)
	}

	u.LastCatch = &CaughtFish{Name: "Карась", Weight: 0.5, Price: 25, Type: "карась"}
	_, err := e.KeepPending(context.Background(), "1")
	assert.ErrorIs(t, err, ErrCreelFull)
	assert.Len(t, u.Creel, 2)

	u.LastCatch = nil
	_, err = e.KeepPending(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoPendingCatch)
}

func TestSellFromCreel(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Seller")
	u := e.users["1"]
	u.Creel = []CaughtFish{
		{Name: "Карась", Price: 25},
		{Name: "Щука", Price: 300},
		{Name: "Сом", Price: 2000},
	}

	res, err := e.SellFromCreel(context.Background(), "1", 1)
	require.NoError(t, err)
	assert.Equal(t, 300, res.MoneyEarned)
	require.Len(t, u.Creel, 2)
	assert.Equal(t, "Карась", u.Creel[0].Name)
	assert.Equal(t, "Сом", u.Creel[1].Name)

	// index == len is out of range; nothing changes.
	_, err = e.SellFromCreel(context.Background(), "1", 2)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.Len(t, u.Creel, 2)
	assert.Equal(t, 300, u.Money)

	_, err = e.SellFromCreel(context.Background(), "1", -1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestBuyItem(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Shopper")
	e.users["1"].Money = 1000

	res, err := e.BuyItem(context.Background(), "1", "Светлое пиво")
	require.NoError(t, err)
	assert.Equal(t, 300, res.NewBalance)

	beer := e.users["1"].Equipped[SlotBeer]
	require.NotNil(t, beer)
	assert.Equal(t, "Светлое пиво", beer.Name)
	assert.Equal(t, 500, beer.Durability)
	assert.InDelta(t, 0.05, beer.Effect.ChanceBonus, 1e-9)
}

func TestBuyItemSlotOccupied(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Shopper")
	e.users["1"].Money = 10_000

	_, err := e.BuyItem(context.Background(), "1", "Светлое пиво")
	require.NoError(t, err)

	_, err = e.BuyItem(context.Background(), "1", "Крепкое пиво")
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, 9300, e.users["1"].Money)
}

func TestBuyItemErrors(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Broke")

	_, err := e.BuyItem(context.Background(), "1", "Несуществующий предмет")
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = e.BuyItem(context.Background(), "1", "Светлое пиво")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 0, e.users["1"].Money)
}

func TestBuyWorms(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Digger")
	e.users["1"].Money = 100

	res, err := e.BuyWorms(context.Background(), "1", 5)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Cost)
	assert.Equal(t, 50, res.NewBalance)
	assert.Equal(t, 15, res.TotalWorms)

	_, err = e.BuyWorms(context.Background(), "1", 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 50, e.users["1"].Money)
	assert.Equal(t, 15, e.users["1"].Worms)
}

func TestExtendBag(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Bagger")
	u := e.users["1"]
	u.Money = 500_000

	res, err := e.ExtendBag(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 30, res.NewBagLimit)
	assert.Equal(t, 500_000, res.Cost)
	assert.Equal(t, 0, res.NewBalance)

	// The price jumps once the limit reaches 40.
	u.BagLimit = 40
	u.Money = 9_999_999
	_, err = e.ExtendBag(context.Background(), "1")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	u.Money = 10_000_000
	res, err = e.ExtendBag(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 50, res.NewBagLimit)
	assert.Equal(t, 10_000_000, res.Cost)
}

func TestUnequip(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Swapper")
	u := e.users["1"]
	u.Equipped[SlotGear] = &Item{Name: "Ультраблесна", Durability: 120, Effect: Effect{RareWeightBonus: 0.03}}

	_, err := e.Unequip(context.Background(), "1", "hat")
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = e.Unequip(context.Background(), "1", SlotBeer)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	res, err := e.Unequip(context.Background(), "1", SlotGear)
	require.NoError(t, err)
	assert.Equal(t, "Ультраблесна", res.ItemUnequipped)
	assert.Nil(t, u.Equipped[SlotGear])
	require.Len(t, u.Inventory, 1)
	assert.Equal(t, 120, u.Inventory[0].Durability)
}

func TestUnequipDiscardsDepletedItem(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Swapper")
	u := e.users["1"]
	u.Equipped[SlotBait] = &Item{Name: "Золотой червь", Durability: 0}

	res, err := e.Unequip(context.Background(), "1", SlotBait)
	require.NoError(t, err)
	assert.Equal(t, "Золотой червь", res.ItemUnequipped)
	assert.Empty(t, u.Inventory)
}

func TestEquip(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Swapper")
	u := e.users["1"]
	u.Inventory = []Item{
		{Name: "Ультраблесна", Durability: 120, Effect: Effect{RareWeightBonus: 0.03}},
		{Name: "Светлое пиво", Durability: 450, Effect: Effect{ChanceBonus: 0.05}},
	}

	_, err := e.Equip(context.Background(), "1", 5)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	res, err := e.Equip(context.Background(), "1", 0)
	require.NoError(t, err)
	assert.Equal(t, SlotGear, res.Slot)
	require.NotNil(t, u.Equipped[SlotGear])
	assert.Equal(t, 120, u.Equipped[SlotGear].Durability)
	require.Len(t, u.Inventory, 1)

	// Occupied slot refuses a second item of the same type.
	u.Inventory = append(u.Inventory, Item{Name: "Голографическая блесна", Durability: 500})
	_, err = e.Equip(context.Background(), "1", 1)
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// Items the catalog does not know cannot be slotted.
	u.Inventory = append(u.Inventory, Item{Name: "Сувенирная кепка", Durability: 500})
	_, err = e.Equip(context.Background(), "1", 2)
	assert.ErrorIs(t, err, ErrUnknownItemType)
}

func TestStateSnapshotDoesNotAliasEngineState(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Viewer")
	e.users["1"].Creel = []CaughtFish{{Name: "Карась", Price: 25}}

	state, err := e.State("1")
	require.NoError(t, err)
	state.Creel[0].Price = 9999
	state.User.Achievements = append(state.User.Achievements, "fake")

	assert.Equal(t, 25, e.users["1"].Creel[0].Price)
	assert.Empty(t, e.users["1"].Achievements)
}

func TestStateUnknownUser(t *testing.T) {
	e := newTestEngine(nil)
	_, err := e.State("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTopPlayers(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "a", "Alice")
	register(t, e, "b", "Bob")
	register(t, e, "c", "Carol")
	e.users["a"].Money = 100
	e.users["b"].Money = 300
	e.users["c"].Money = 100
	e.users["b"].Achievements = []string{"golden_fish"}

	top := e.TopPlayers(10)
	require.Len(t, top, 3)
	assert.Equal(t, TopEntry{Rank: 1, Name: "Bob", Money: 300, AchievementsCount: 1}, top[0])
	// Equal balances break ties by user id.
	assert.Equal(t, "Alice", top[1].Name)
	assert.Equal(t, "Carol", top[2].Name)

	top = e.TopPlayers(2)
	require.Len(t, top, 2)
	assert.Equal(t, 2, top[1].Rank)
}

func TestAchievementQueries(t *testing.T) {
	e := newTestEngine(nil)
	register(t, e, "1", "Collector")
	e.users["1"].Achievements = []string{"golden_fish"}

	all := e.AllAchievements()
	require.Len(t, all, 9)
	assert.Equal(t, "golden_fish", all[0].ID)
	assert.False(t, all[0].Unlocked)

	mine, err := e.UserAchievements("1")
	require.NoError(t, err)
	require.Len(t, mine, 9)
	assert.True(t, mine[0].Unlocked)
	assert.False(t, mine[1].Unlocked)

	_, err = e.UserAchievements("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPersistFailureSurfaces(t *testing.T) {
	e := NewEngine(nil, failSaver{}, &scriptedRand{floats: []float64{0.99}, ints: []int{0}})

	_, err := e.Register(context.Background(), "1", "Doomed")
	require.Error(t, err)
	assert.False(t, IsBusinessError(err))

	// The in-memory record exists even though the save failed.
	_, err = e.Catch(context.Background(), "1")
	require.Error(t, err)
	assert.False(t, IsBusinessError(err))
	assert.Equal(t, 9, e.users["1"].Worms)
}
