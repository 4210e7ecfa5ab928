package replay

import "farmstead/internal/domain/farm"

type Request struct {
	PlayerID     string `json:"player_id"`
	Limit        int    `json:"limit,omitempty"`
	OccurredFrom int64  `json:"occurred_from,omitempty"`
	OccurredTo   int64  `json:"occurred_to,omitempty"`
}

type Response struct {
	Events []farm.DomainEvent `json:"events"`
	// Summary tallies the filtered events per event type.
	Summary map[string]int `json:"summary"`
}
