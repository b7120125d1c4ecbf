package game

// Result payloads returned by engine operations. Field names follow the
// public wire format.

// RegisterResult reports whether the id was newly created.
type RegisterResult struct {
	Status string `json:"status"` // "registered" | "existing"
	User   *User  `json:"user"`
}

// CatchResult is the outcome of one catch attempt. On failure only
// Message, WormsLeft and BrokenItems are populated.
type CatchResult struct {
	Success         bool              `json:"success"`
	Fish            *CaughtFish       `json:"fish,omitempty"`
	Message         string            `json:"message,omitempty"`
	NewAchievements []AchievementInfo `json:"new_achievements,omitempty"`
	WormsLeft       int               `json:"worms_left"`
	BrokenItems     []string          `json:"broken_items"`
	IsGiant         bool              `json:"is_giant,omitempty"`
}

// SellResult covers selling the pending catch or a creel entry.
type SellResult struct {
	Success     bool       `json:"success"`
	MoneyEarned int        `json:"money_earned"`
	NewBalance  int        `json:"new_balance"`
	FishSold    CaughtFish `json:"fish_sold"`
}

// KeepResult reports the creel size after keeping the pending catch.
type KeepResult struct {
	Success    bool       `json:"success"`
	FishKept   CaughtFish `json:"fish_kept"`
	CreelCount int        `json:"podsak_count"`
}

type BuyItemResult struct {
	Success    bool   `json:"success"`
	ItemBought string `json:"item_bought"`
	NewBalance int    `json:"new_balance"`
}

type BuyWormsResult struct {
	Success     bool `json:"success"`
	WormsBought int  `json:"worms_bought"`
	Cost        int  `json:"cost"`
	NewBalance  int  `json:"new_balance"`
	TotalWorms  int  `json:"total_worms"`
}

type ExtendBagResult struct {
	Success     bool `json:"success"`
	NewBagLimit int  `json:"new_bag_limit"`
	Cost        int  `json:"cost"`
	NewBalance  int  `json:"new_balance"`
}

type UnequipResult struct {
	Success        bool   `json:"success"`
	ItemUnequipped string `json:"item_unequipped"`
	Slot           string `json:"slot"`
}

type EquipResult struct {
	Success      bool   `json:"success"`
	ItemEquipped string `json:"item_equipped"`
	Slot         string `json:"slot"`
}

// UserSummary is the condensed user block inside StateView.
type UserSummary struct {
	Name         string   `json:"name"`
	Money        int      `json:"money"`
	Worms        int      `json:"worms"`
	BagLimit     int      `json:"bag_limit"`
	Achievements []string `json:"achievements"`
}

// StateView is the composed read-only snapshot of one player.
type StateView struct {
	User      UserSummary      `json:"user"`
	Inventory []Item           `json:"inventory"`
	Equipped  map[string]*Item `json:"equipped_items"`
	Creel     []CaughtFish     `json:"podsak"`
	LastCatch *CaughtFish      `json:"last_catch"`
	Bonuses   Bonuses          `json:"bonuses"`
}

// TopEntry is one leaderboard row.
type TopEntry struct {
	Rank              int    `json:"rank"`
	Name              string `json:"name"`
	Money             int    `json:"money"`
	AchievementsCount int    `json:"achievements_count"`
}
