package farm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPestChance  = 0.1
	DefaultWaterChance = 0.3

	PestDeadlineSeconds  = 600
	WaterDeadlineSeconds = 1800
	CureDeadlineSeconds  = 900
)

// ItemConfig is the immutable per-type-code parameter set. Timings are in
// seconds. WitherTime 0 means the grown object never spoils.
type ItemConfig struct {
	Kind         Kind    `yaml:"kind"`
	Code         string  `yaml:"code"`
	Name         string  `yaml:"name"`
	StageTimes   []int   `yaml:"stage_times"`
	WitherTime   int     `yaml:"wither_time"`
	BuyCost      int     `yaml:"buy_cost"`
	YieldMin     int     `yaml:"yield_min"`
	YieldMax     int     `yaml:"yield_max"`
	PestChance   float64 `yaml:"-"`
	WaterChance  float64 `yaml:"-"`
	SickChance   float64 `yaml:"sick_chance"`
	StealPercent int     `yaml:"steal_percent"`
	Exp          int     `yaml:"exp"`
	Level        int     `yaml:"level"`

	// Animals.
	FeedCost        []ItemCount `yaml:"feed_cost"`
	ProduceInterval int         `yaml:"produce_interval"`
	Product         string      `yaml:"product"`
	ProductCount    int         `yaml:"product_count"`
	Guard           *GuardSpec  `yaml:"guard"`

	// Factories.
	Recipes []RecipeConfig `yaml:"recipes"`
}

// GuardSpec marks an animal kind as a guard: while the owner keeps one, it can
// block harvest/steal attempts by other players.
type GuardSpec struct {
	BlockChanceFed    float64 `yaml:"block_chance_fed"`
	BlockChanceHungry float64 `yaml:"block_chance_hungry"`
}

type RecipeConfig struct {
	ID          string      `yaml:"id"`
	Inputs      []ItemCount `yaml:"inputs"`
	Output      ItemCount   `yaml:"output"`
	TimeSeconds int         `yaml:"time_seconds"`
	Exp         int         `yaml:"exp"`
}

func (c ItemConfig) Recipe(id string) (RecipeConfig, bool) {
	for _, r := range c.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return RecipeConfig{}, false
}

// TotalStageTime is the growth time before the terminal checkpoint.
func (c ItemConfig) TotalStageTime() int {
	total := 0
	for _, d := range c.StageTimes {
		total += d
	}
	return total
}

// SeedItem is the consumable required to plant a crop of this code.
func (c ItemConfig) SeedItem() string {
	return c.Code + "_seed"
}

// Rules are the catalog-wide knobs that are not tied to one type code.
type Rules struct {
	StealDailyLimit int `yaml:"steal_daily_limit"`
	PestDailyLimit  int `yaml:"pest_daily_limit"`
	LoanLimit       int `yaml:"loan_limit"`
	PlowCost        int `yaml:"plow_cost"`
	WaterBonusExp   int `yaml:"water_bonus_exp"`
	PestBonusExp    int `yaml:"pest_bonus_exp"`
	CureBonusExp    int `yaml:"cure_bonus_exp"`
}

func defaultRules() Rules {
	return Rules{
		StealDailyLimit: 3,
		PestDailyLimit:  2,
		LoanLimit:       5000,
		PlowCost:        10,
		WaterBonusExp:   5,
		PestBonusExp:    3,
		CureBonusExp:    3,
	}
}

// Catalog is the immutable config lookup, built once at process start and
// passed into every handler call.
type Catalog struct {
	items map[string]ItemConfig
	rules Rules
}

func catalogKey(kind Kind, code string) string {
	return string(kind) + "/" + code
}

func NewCatalog(items []ItemConfig, rules Rules) (*Catalog, error) {
	byKey := make(map[string]ItemConfig, len(items))
	for _, item := range items {
		if item.Code == "" {
			return nil, fmt.Errorf("catalog: item without code")
		}
		for i, d := range item.StageTimes {
			if d <= 0 {
				return nil, fmt.Errorf("catalog %s/%s: stage %d duration must be positive", item.Kind, item.Code, i)
			}
		}
		if item.WitherTime < 0 {
			return nil, fmt.Errorf("catalog %s/%s: negative wither_time", item.Kind, item.Code)
		}
		if item.YieldMax < item.YieldMin {
			return nil, fmt.Errorf("catalog %s/%s: yield range inverted", item.Kind, item.Code)
		}
		key := catalogKey(item.Kind, item.Code)
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry %s", key)
		}
		byKey[key] = item
	}
	return &Catalog{items: byKey, rules: rules}, nil
}

func (c *Catalog) Lookup(kind Kind, code string) (ItemConfig, bool) {
	cfg, ok := c.items[catalogKey(kind, code)]
	return cfg, ok
}

func (c *Catalog) Rules() Rules { return c.rules }

type catalogFile struct {
	Rules Rules             `yaml:"rules"`
	Items []catalogFileItem `yaml:"items"`
}

// catalogFileItem mirrors ItemConfig but keeps the randomized-event chances as
// pointers so an absent key falls back to the built-in default while an
// explicit zero disables the event.
type catalogFileItem struct {
	ItemConfig  `yaml:",inline"`
	PestChance  *float64 `yaml:"pest_chance"`
	WaterChance *float64 `yaml:"water_chance"`
	Yield       []int    `yaml:"yield"`
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	items := make([]ItemConfig, 0, len(file.Items))
	for _, fi := range file.Items {
		item := fi.ItemConfig
		item.PestChance = DefaultPestChance
		if fi.PestChance != nil {
			item.PestChance = *fi.PestChance
		}
		item.WaterChance = DefaultWaterChance
		if fi.WaterChance != nil {
			item.WaterChance = *fi.WaterChance
		}
		if len(fi.Yield) == 2 {
			item.YieldMin, item.YieldMax = fi.Yield[0], fi.Yield[1]
		}
		items = append(items, item)
	}
	rules := file.Rules
	if rules == (Rules{}) {
		rules = defaultRules()
	}
	return NewCatalog(items, rules)
}

// DefaultCatalog is the built-in parameter set used when no catalog file is
// configured. Numbers mirror the shipped catalog.yaml.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog([]ItemConfig{
		{
			Kind: KindCrop, Code: "tomato", Name: "Tomato",
			StageTimes: []int{600, 1200, 1800}, WitherTime: 3600,
			BuyCost: 20, YieldMin: 8, YieldMax: 14,
			PestChance: DefaultPestChance, WaterChance: DefaultWaterChance,
			StealPercent: 20, Exp: 12, Level: 1,
		},
		{
			Kind: KindCrop, Code: "wheat", Name: "Wheat",
			StageTimes: []int{300, 600}, WitherTime: 1800,
			BuyCost: 10, YieldMin: 4, YieldMax: 8,
			PestChance: DefaultPestChance, WaterChance: DefaultWaterChance,
			StealPercent: 25, Exp: 6, Level: 1,
		},
		{
			Kind: KindCrop, Code: "pumpkin", Name: "Pumpkin",
			StageTimes: []int{1200, 1800, 2400, 3000}, WitherTime: 7200,
			BuyCost: 60, YieldMin: 10, YieldMax: 20,
			PestChance: DefaultPestChance, WaterChance: DefaultWaterChance,
			StealPercent: 15, Exp: 30, Level: 3,
		},
		{
			Kind: KindAnimal, Code: "cow", Name: "Cow",
			BuyCost: 200, SickChance: 0.05, Exp: 8, Level: 2,
			FeedCost:        []ItemCount{{Item: "wheat", Count: 2}},
			ProduceInterval: 3600, Product: "milk", ProductCount: 2,
		},
		{
			Kind: KindAnimal, Code: "chicken", Name: "Chicken",
			BuyCost: 80, SickChance: 0.05, Exp: 4, Level: 1,
			FeedCost:        []ItemCount{{Item: "wheat", Count: 1}},
			ProduceInterval: 1800, Product: "egg", ProductCount: 3,
		},
		{
			Kind: KindAnimal, Code: "dog", Name: "Guard Dog",
			BuyCost: 500, Exp: 0, Level: 4,
			FeedCost:        []ItemCount{{Item: "bread", Count: 1}},
			ProduceInterval: 7200,
			Guard:           &GuardSpec{BlockChanceFed: 0.9, BlockChanceHungry: 0.4},
		},
		{
			Kind: KindFactory, Code: "bakery", Name: "Bakery",
			BuyCost: 1000, Level: 3,
			Recipes: []RecipeConfig{
				{ID: "bread", Inputs: []ItemCount{{Item: "wheat", Count: 3}}, Output: ItemCount{Item: "bread", Count: 1}, TimeSeconds: 1800, Exp: 10},
				{ID: "pie", Inputs: []ItemCount{{Item: "wheat", Count: 2}, {Item: "pumpkin", Count: 1}}, Output: ItemCount{Item: "pie", Count: 1}, TimeSeconds: 3600, Exp: 25},
			},
		},
		{
			Kind: KindFactory, Code: "dairy", Name: "Dairy",
			BuyCost: 1500, Level: 4,
			Recipes: []RecipeConfig{
				{ID: "cheese", Inputs: []ItemCount{{Item: "milk", Count: 3}}, Output: ItemCount{Item: "cheese", Count: 1}, TimeSeconds: 5400, Exp: 35},
			},
		},
		{
			Kind: KindPlot, Code: "plot", Name: "Plot",
			BuyCost: 100, Level: 1,
		},
	}, defaultRules())
	if err != nil {
		panic(err)
	}
	return catalog
}
