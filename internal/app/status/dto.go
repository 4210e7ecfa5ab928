package status

import "farmstead/internal/domain/farm"

type Request struct {
	PlayerID string `json:"player_id"`
}

type Response struct {
	Player       farm.Player `json:"player"`
	NextLevelExp int         `json:"next_level_exp"`
}
