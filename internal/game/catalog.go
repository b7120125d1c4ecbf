// internal/game/catalog.go
//
// Static game catalog: fish species, the legendary rare fish, the shop
// item list, and the failure flavour messages. All data here is read-only
// and process-wide.

package game

import (
	"fmt"
	"strings"
)

var species = []Species{
	{Name: "Карась", Type: "карась", MinWeight: 0.2, MaxWeight: 1.5, AbsMax: 2.5, PricePerKg: 50},
	{Name: "Щука", Type: "щука", MinWeight: 1.0, MaxWeight: 5.0, AbsMax: 35.0, PricePerKg: 150},
	{Name: "Сом", Type: "сом", MinWeight: 5.0, MaxWeight: 50.0, AbsMax: 450.0, PricePerKg: 200},
}

// typeCatfish is the only species with a heavy-tail weight path.
const typeCatfish = "сом"

// goldenFish is the legendary singleton; it bypasses the species table.
var goldenFish = Species{
	Name:       "Золотая рыбка",
	Type:       "золотая",
	MinWeight:  1.0,
	MaxWeight:  1.0,
	PricePerKg: 1000000,
}

// CatalogItem is a purchasable shop entry. The instance a player receives
// is a fresh Item with full durability carrying this effect bundle.
type CatalogItem struct {
	Type   string `json:"type"`
	Price  int    `json:"price"`
	Effect Effect `json:"effect"`
}

var shopItems = map[string]CatalogItem{
	"Светлое пиво":                 {Type: SlotBeer, Price: 700, Effect: Effect{ChanceBonus: 0.05}},
	"Крепкое пиво":                 {Type: SlotBeer, Price: 7000, Effect: Effect{ChanceBonus: 0.1}},
	"Сусло древнего рыбака":        {Type: SlotBeer, Price: 210000, Effect: Effect{ChanceBonus: 0.2}},
	"Светлое нефильтрованное пиво": {Type: SlotBeer, Price: 500000, Effect: Effect{CritChance: 0.0025}},
	"Жидкое золото":                {Type: SlotBeer, Price: 120000, Effect: Effect{PriceMultiplier: 1.25}},
	"Пиво Большой сом":             {Type: SlotBeer, Price: 125000, Effect: Effect{RareWeightBonus: 0.07}},

	"Ультраблесна":             {Type: SlotGear, Price: 2800, Effect: Effect{RareWeightBonus: 0.03}},
	"Голографическая блесна":   {Type: SlotGear, Price: 28000, Effect: Effect{RareWeightBonus: 0.07}},
	"Блесна легенд":            {Type: SlotGear, Price: 420000, Effect: Effect{RareWeightBonus: 0.15}},
	"Широкая блесна":           {Type: SlotGear, Price: 500000, Effect: Effect{CritChance: 0.0025}},
	"Золотая блесна":           {Type: SlotGear, Price: 120000, Effect: Effect{PriceMultiplier: 1.25}},
	"Уловистая блесна":         {Type: SlotGear, Price: 17000, Effect: Effect{ChanceBonus: 0.1}},

	"Золотой червь":        {Type: SlotBait, Price: 1680, Effect: Effect{PriceMultiplier: 1.1}},
	"Алмазная личинка":     {Type: SlotBait, Price: 21000, Effect: Effect{PriceMultiplier: 1.25}},
	"Икра древнего осетра": {Type: SlotBait, Price: 560000, Effect: Effect{PriceMultiplier: 1.5}},
	"Крупный рак":          {Type: SlotBait, Price: 500000, Effect: Effect{CritChance: 0.0025}},
	"Личинка ручейника":    {Type: SlotBait, Price: 32000, Effect: Effect{ChanceBonus: 0.1}},
	"Упитанный мотыль":     {Type: SlotBait, Price: 125000, Effect: Effect{RareWeightBonus: 0.07}},

	"Колокольчик удачи":     {Type: SlotAccessory, Price: 4900, Effect: Effect{CritChance: 0.001}},
	"Кулон Нептуна":         {Type: SlotAccessory, Price: 70000, Effect: Effect{CritChance: 0.0025}},
	"Амулет великого клёва": {Type: SlotAccessory, Price: 980000, Effect: Effect{CritChance: 0.005}},
	"Золотой медальон":      {Type: SlotAccessory, Price: 120000, Effect: Effect{PriceMultiplier: 1.25}},
	"Четырехлистный клевер": {Type: SlotAccessory, Price: 32000, Effect: Effect{ChanceBonus: 0.1}},
	"Брелок бургер":         {Type: SlotAccessory, Price: 125000, Effect: Effect{RareWeightBonus: 0.07}},
}

var failMessages = []string{
	"Леска запуталась в камышах 🌿 и ты устроил бой с природой 1v1.",
	"Ты зевнул... и удочка улетела в воду 😴🎣🌊",
	"Рыба смотрела, но сказала: «не сегодня» 🐟🙅‍♂️",
	"Пока ты ковырялся в инвентаре, червь сбежал 🐛💨",
	"Ты поймал носок. Опытный. С характером. 🧦",
	"Местные рыбы подписаны на другого рыбака 📱🎣",
	"Щука показала тебе средний плавник и уплыла 🖕🐟",
	"Пиво закончилось — и рыба сказала «до свидания» 🍺➡️🚫",
}

// ShopListing is a catalog entry as exposed by the shop endpoint, with a
// human-readable description of the effect bundle.
type ShopListing struct {
	Type        string `json:"type"`
	Price       int    `json:"price"`
	Effect      Effect `json:"effect"`
	Description string `json:"description"`
}

// ShopCatalog returns the full purchasable item list.
func ShopCatalog() map[string]ShopListing {
	out := make(map[string]ShopListing, len(shopItems))
	for name, it := range shopItems {
		out[name] = ShopListing{
			Type:        it.Type,
			Price:       it.Price,
			Effect:      it.Effect,
			Description: describeEffect(it.Effect),
		}
	}
	return out
}

// describeEffect renders an effect bundle for the shop listing.
func describeEffect(e Effect) string {
	var parts []string
	if e.ChanceBonus != 0 {
		parts = append(parts, fmt.Sprintf("шанс поймать рыбу +%.0f%%", e.ChanceBonus*100))
	}
	if e.RareWeightBonus != 0 {
		parts = append(parts, fmt.Sprintf("дополнительный вес редкой рыбы +%.0f%%", e.RareWeightBonus*100))
	}
	if e.PriceMultiplier != 0 {
		parts = append(parts, fmt.Sprintf("цена рыбы x%.1f", e.PriceMultiplier))
	}
	if e.CritChance != 0 {
		parts = append(parts, fmt.Sprintf("шанс критического улова +%.2f%%", e.CritChance*100))
	}
	return strings.Join(parts, ", ")
}
