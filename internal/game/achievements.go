// internal/game/achievements.go
//
// Achievement catalog and evaluation.
// Conditions are a closed set of variants, each matched against either a
// catch or the user record; the evaluator decides the subject from the
// variant itself, so a fish condition can never misfire on a user.

package game

import (
	"math"
	"strings"
)

// Condition is one achievement trigger variant.
type Condition interface {
	condition()
}

// FishNamed matches a catch of the named fish.
type FishNamed struct{ Name string }

// FishWeightExact matches a catch weighing Value within Tol kilograms.
type FishWeightExact struct{ Value, Tol float64 }

// FishWeightAbove matches a catch strictly heavier than Value.
type FishWeightAbove struct{ Value float64 }

// FishTypeWeightExact matches a catch of the given type weighing Value
// within Tol kilograms.
type FishTypeWeightExact struct {
	Type  string
	Value float64
	Tol   float64
}

// FishPriceExact matches a catch priced at exactly Value.
type FishPriceExact struct{ Value int }

// FishPriceAbove matches a catch priced strictly above Value.
type FishPriceAbove struct{ Value int }

// MoneyAtLeast matches a user whose balance is at least Value.
type MoneyAtLeast struct{ Value int }

func (FishNamed) condition()           {}
func (FishWeightExact) condition()     {}
func (FishWeightAbove) condition()     {}
func (FishTypeWeightExact) condition() {}
func (FishPriceExact) condition()      {}
func (FishPriceAbove) condition()      {}
func (MoneyAtLeast) condition()        {}

// Achievement is one immutable catalog entry. Once unlocked for a user it
// is permanent.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Condition   Condition
}

// AchievementInfo is the name/description pair reported for newly
// unlocked achievements.
type AchievementInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementStatus is a catalog entry annotated for one user.
type AchievementStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

var achievementCatalog = []Achievement{
	{
		ID:          "golden_fish",
		Name:        "🌟 Исполнилось желание",
		Description: "Поймай Золотую рыбку",
		Condition:   FishNamed{Name: "Золотая рыбка"},
	},
	{
		ID:          "fish_weight_14_88",
		Name:        "🎯 Бог рыбалки",
		Description: "Поймай рыбу весом ровно 14.88 кг",
		Condition:   FishWeightExact{Value: 14.88, Tol: 0.01},
	},
	{
		ID:          "fish_weight_100",
		Name:        "💪 Монстр рыбалки",
		Description: "Поймай рыбу весом более 100 кг",
		Condition:   FishWeightAbove{Value: 100},
	},
	{
		ID:          "rich_5m",
		Name:        "🤑 Миллионер",
		Description: "Иметь на счету 5 000 000 рублей и больше",
		Condition:   MoneyAtLeast{Value: 5_000_000},
	},
	{
		ID:          "big_money",
		Name:        "💰 Богач",
		Description: "Поймай рыбу дороже 9980₽",
		Condition:   FishPriceAbove{Value: 9980},
	},
	{
		ID:          "fish_price_1488",
		Name:        "💸 Рыбный миллиардер",
		Description: "Поймай рыбу стоимостью ровно 1488₽",
		Condition:   FishPriceExact{Value: 1488},
	},
	{
		ID:          "pike_weight_2_28",
		Name:        "👀 Вот ты и присел",
		Description: "Поймай щуку весом ровно 2.28 кг",
		Condition:   FishTypeWeightExact{Type: "щука", Value: 2.28, Tol: 0.01},
	},
	{
		ID:          "catfish_weight_8_12",
		Name:        "⚓ Глубины Питера",
		Description: "Поймай сома весом ровно 8.12 кг",
		Condition:   FishTypeWeightExact{Type: "сом", Value: 8.12, Tol: 0.01},
	},
	{
		ID:          "fish_price_812",
		Name:        "🌉 Северная рыбалка",
		Description: "Поймай рыбу стоимостью ровно 812₽",
		Condition:   FishPriceExact{Value: 812},
	},
}

// conditionMet evaluates a condition against the catch (may be nil) and
// the user record. Fish conditions never match without a fish.
func conditionMet(c Condition, fish *CaughtFish, u *User) bool {
	switch c := c.(type) {
	case FishNamed:
		return fish != nil && fish.Name == c.Name
	case FishWeightExact:
		return fish != nil && math.Abs(fish.Weight-c.Value) <= c.Tol
	case FishWeightAbove:
		return fish != nil && fish.Weight > c.Value
	case FishTypeWeightExact:
		return fish != nil &&
			strings.ToLower(fish.Type) == c.Type &&
			math.Abs(fish.Weight-c.Value) <= c.Tol
	case FishPriceExact:
		return fish != nil && fish.Price == c.Value
	case FishPriceAbove:
		return fish != nil && fish.Price > c.Value
	case MoneyAtLeast:
		return u.Money >= c.Value
	}
	return false
}

// unlockAchievements walks the catalog in order, marks any newly met
// achievements on the user, and returns them. Already-unlocked ids are
// skipped, so re-triggering a condition never duplicates an unlock.
func unlockAchievements(u *User, fish *CaughtFish) []AchievementInfo {
	var unlocked []AchievementInfo
	for _, a := range achievementCatalog {
		if hasAchievement(u, a.ID) {
			continue
		}
		if conditionMet(a.Condition, fish, u) {
			u.Achievements = append(u.Achievements, a.ID)
			unlocked = append(unlocked, AchievementInfo{Name: a.Name, Description: a.Description})
		}
	}
	return unlocked
}

func hasAchievement(u *User, id string) bool {
	for _, got := range u.Achievements {
		if got == id {
			return true
		}
	}
	return false
}
