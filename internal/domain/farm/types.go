package farm

import "time"

type Kind string

const (
	KindCrop    Kind = "crop"
	KindAnimal  Kind = "animal"
	KindFactory Kind = "factory"
	KindPlot    Kind = "plot"
)

// Object is one physical game object instance. Its lifecycle state is never
// stored; it is derived from CreatedAt, the type config and the checkpoint set.
type Object struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Kind      Kind        `json:"kind"`
	Code      string      `json:"code"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	CreatedAt time.Time   `json:"created_at"`
	State     ObjectState `json:"state"`
	Version   int64       `json:"version"`
}

// ObjectState carries the per-kind mutable extension state. Exactly one of
// the typed variants is set for a given object; Extra is an escape hatch for
// dynamic data that has no schema yet.
type ObjectState struct {
	Crop    *CropState     `json:"crop,omitempty"`
	Animal  *AnimalState   `json:"animal,omitempty"`
	Factory *FactoryState  `json:"factory,omitempty"`
	Plot    *PlotState     `json:"plot,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

type CropState struct {
	Yield  int `json:"yield"`
	Stolen int `json:"stolen"`
}

type AnimalStage string

const (
	AnimalHungry    AnimalStage = "hungry"
	AnimalProducing AnimalStage = "producing"
)

type AnimalState struct {
	Stage       AnimalStage `json:"stage"`
	ReadyAtUnix int64       `json:"ready_at_unix,omitempty"`
}

// ProduceReady reports whether a fed animal has finished producing.
func (s AnimalState) ProduceReady(now time.Time) bool {
	return s.Stage == AnimalProducing && s.ReadyAtUnix > 0 && now.Unix() >= s.ReadyAtUnix
}

// Fed reports whether the animal is currently fed. A guard animal blocks with
// its higher chance while fed.
func (s AnimalState) Fed() bool {
	return s.Stage == AnimalProducing
}

type FactoryState struct {
	Recipe      string `json:"recipe,omitempty"`
	ReadyAtUnix int64  `json:"ready_at_unix,omitempty"`
}

func (s FactoryState) Idle() bool { return s.Recipe == "" }

func (s FactoryState) ProductionReady(now time.Time) bool {
	return s.Recipe != "" && s.ReadyAtUnix > 0 && now.Unix() >= s.ReadyAtUnix
}

type PlotState struct {
	Plowed bool `json:"plowed"`
}

// Player is the owning-user aggregate: currency, progress, inventory and the
// bank account. Saved with optimistic versioning so that concurrent actions
// against the same player lose cleanly instead of double-spending.
type Player struct {
	ID         string         `json:"id"`
	Coins      int            `json:"coins"`
	Experience int            `json:"experience"`
	Level      int            `json:"level"`
	Inventory  map[string]int `json:"inventory"`
	Savings    int            `json:"savings"`
	Debt       int            `json:"debt"`
	Version    int64          `json:"version"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// HasItems reports whether the inventory covers every requested count.
func (p Player) HasItems(costs []ItemCount) bool {
	for _, c := range costs {
		if p.Inventory[c.Item] < c.Count {
			return false
		}
	}
	return true
}

// ConsumeItems removes the given counts. Callers validate with HasItems first.
func (p *Player) ConsumeItems(costs []ItemCount) {
	for _, c := range costs {
		p.Inventory[c.Item] -= c.Count
		if p.Inventory[c.Item] <= 0 {
			delete(p.Inventory, c.Item)
		}
	}
}

func (p *Player) AddItem(item string, count int) {
	if count == 0 {
		return
	}
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	p.Inventory[item] += count
}

type ActionType string

const (
	ActionPlant             ActionType = "plant"
	ActionHarvest           ActionType = "harvest"
	ActionWater             ActionType = "water"
	ActionRemovePest        ActionType = "remove_pest"
	ActionSteal             ActionType = "steal"
	ActionThrowPest         ActionType = "throw_pest"
	ActionFeed              ActionType = "feed"
	ActionCollect           ActionType = "collect"
	ActionCure              ActionType = "cure"
	ActionStartProduction   ActionType = "start_production"
	ActionCollectProduction ActionType = "collect_production"
	ActionPlow              ActionType = "plow"
	ActionBuyPlot           ActionType = "buy_plot"
	ActionBuy               ActionType = "buy"
	ActionLoan              ActionType = "loan"
	ActionRepay             ActionType = "repay"
	ActionDeposit           ActionType = "deposit"
	ActionWithdraw          ActionType = "withdraw"
)

type ResultCode string

const (
	ResultOK      ResultCode = "OK"
	ResultBlocked ResultCode = "BLOCKED"
)

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

type ItemCount struct {
	Item  string `json:"item" yaml:"item"`
	Count int    `json:"count" yaml:"count"`
}
