package status

import (
	"context"
	"errors"
	"strings"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Players ports.PlayerRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return Response{}, ErrInvalidRequest
	}
	player, err := u.Players.GetByID(ctx, req.PlayerID)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Player:       player,
		NextLevelExp: farm.ExperienceForLevel(player.Level + 1),
	}, nil
}
