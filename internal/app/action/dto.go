package action

import (
	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type Request struct {
	PlayerID       string `json:"player_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Intent         Intent `json:"intent"`
}

// Intent carries the verb plus its verb-specific arguments. Handlers only read
// the fields their validator admitted.
type Intent struct {
	Type     farm.ActionType `json:"type"`
	ObjectID string          `json:"object_id,omitempty"`
	Code     string          `json:"code,omitempty"`
	PlotID   string          `json:"plot_id,omitempty"`
	X        int             `json:"x,omitempty"`
	Y        int             `json:"y,omitempty"`
	RecipeID string          `json:"recipe_id,omitempty"`
	Amount   int             `json:"amount,omitempty"`
}

// Result is the value the hook pipeline transforms: a before-hook may replace
// it wholesale by short-circuiting, an after-hook receives and may rewrite it.
type Result struct {
	Code     farm.ResultCode `json:"code"`
	Gained   map[string]int  `json:"gained,omitempty"`
	Exp      int             `json:"exp,omitempty"`
	Coins    int             `json:"coins,omitempty"`
	Stolen   int             `json:"stolen,omitempty"`
	ObjectID string          `json:"object_id,omitempty"`
	Detail   string          `json:"detail,omitempty"`
}

type Response struct {
	Result   Result             `json:"result"`
	Player   *farm.Player       `json:"player,omitempty"`
	Events   []farm.DomainEvent `json:"events,omitempty"`
	Replayed bool               `json:"replayed,omitempty"`
}

func resultToPayload(res Result) map[string]any {
	payload := map[string]any{}
	if len(res.Gained) > 0 {
		gained := make(map[string]any, len(res.Gained))
		for item, count := range res.Gained {
			gained[item] = count
		}
		payload["gained"] = gained
	}
	if res.Exp != 0 {
		payload["exp"] = res.Exp
	}
	if res.Coins != 0 {
		payload["coins"] = res.Coins
	}
	if res.Stolen != 0 {
		payload["stolen"] = res.Stolen
	}
	if res.ObjectID != "" {
		payload["object_id"] = res.ObjectID
	}
	if res.Detail != "" {
		payload["detail"] = res.Detail
	}
	return payload
}

func resultFromExecution(exec ports.ActionExecutionRecord) Result {
	res := Result{Code: exec.Result.ResultCode}
	if gained, ok := exec.Result.Payload["gained"].(map[string]any); ok {
		res.Gained = make(map[string]int, len(gained))
		for item, count := range gained {
			res.Gained[item] = int(toNum(count))
		}
	}
	res.Exp = int(toNum(exec.Result.Payload["exp"]))
	res.Coins = int(toNum(exec.Result.Payload["coins"]))
	res.Stolen = int(toNum(exec.Result.Payload["stolen"]))
	if v, ok := exec.Result.Payload["object_id"].(string); ok {
		res.ObjectID = v
	}
	if v, ok := exec.Result.Payload["detail"].(string); ok {
		res.Detail = v
	}
	return res
}

func toNum(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
