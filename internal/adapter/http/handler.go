package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"farmstead/internal/app/action"
	"farmstead/internal/app/observe"
	"farmstead/internal/app/ports"
	"farmstead/internal/app/replay"
	"farmstead/internal/app/status"
	"farmstead/internal/domain/farm"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"

type Handler struct {
	ActionUC  action.UseCase
	ObserveUC observe.UseCase
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	farmGroup := s.Group("/api/farm")
	farmGroup.POST("/action", h.action)
	farmGroup.POST("/observe", h.observe)
	farmGroup.POST("/status", h.status)
	farmGroup.GET("/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type actionRequest struct {
	IdempotencyKey string       `json:"idempotency_key"`
	Intent         actionIntent `json:"intent"`
}

type actionIntent struct {
	Type     string `json:"type"`
	ObjectID string `json:"object_id,omitempty"`
	Code     string `json:"code,omitempty"`
	PlotID   string `json:"plot_id,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

type observeRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Execute(c, action.Request{
		PlayerID:       playerID,
		IdempotencyKey: body.IdempotencyKey,
		Intent: action.Intent{
			Type:     farm.ActionType(body.Intent.Type),
			ObjectID: body.Intent.ObjectID,
			Code:     body.Intent.Code,
			PlotID:   body.Intent.PlotID,
			X:        body.Intent.X,
			Y:        body.Intent.Y,
			RecipeID: body.Intent.RecipeID,
			Amount:   body.Intent.Amount,
		},
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(actionStatus(resp), resp)
}

// A guard block is a refusal, not a success: it keeps the result body but
// goes out as 403.
func actionStatus(resp action.Response) int {
	if resp.Result.Code == farm.ResultBlocked {
		return consts.StatusForbidden
	}
	return consts.StatusOK
}

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body observeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ObserveUC.Execute(c, observe.Request{ViewerID: playerID, OwnerID: body.OwnerID})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.StatusUC.Execute(c, status.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		PlayerID:     playerID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")

func requirePlayerID(ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	return playerID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, action.ErrInvalidActionParams):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action_params", err.Error())
	case errors.Is(err, action.ErrUnknownCode):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_code", err.Error())
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, action.ErrNotOwner):
		writeErrorBody(ctx, consts.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, action.ErrOwnObject):
		writeErrorBody(ctx, consts.StatusForbidden, "own_object", err.Error())
	case errors.Is(err, action.ErrNotNeighbors), errors.Is(err, observe.ErrNotNeighbors):
		writeErrorBody(ctx, consts.StatusForbidden, "not_neighbors", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, action.ErrDailyLimitReached):
		writeDailyLimit(ctx, err)
	case errors.Is(err, action.ErrNotReady):
		writeNotReady(ctx, err)
	case errors.Is(err, action.ErrLevelTooLow):
		writeErrorBody(ctx, consts.StatusConflict, "level_too_low", err.Error())
	case errors.Is(err, action.ErrAlreadyRipe):
		writeErrorBody(ctx, consts.StatusConflict, "already_ripe", err.Error())
	case errors.Is(err, action.ErrWithered):
		writeErrorBody(ctx, consts.StatusConflict, "withered", err.Error())
	case errors.Is(err, action.ErrNoPendingAction):
		writeErrorBody(ctx, consts.StatusConflict, "no_pending_action", err.Error())
	case errors.Is(err, action.ErrAlreadyHasPest):
		writeErrorBody(ctx, consts.StatusConflict, "already_has_pest", err.Error())
	case errors.Is(err, action.ErrNothingToSteal):
		writeErrorBody(ctx, consts.StatusConflict, "nothing_to_steal", err.Error())
	case errors.Is(err, action.ErrInsufficientFunds):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, action.ErrInsufficientItems):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_items", err.Error())
	case errors.Is(err, action.ErrPlotOccupied):
		writeErrorBody(ctx, consts.StatusConflict, "plot_occupied", err.Error())
	case errors.Is(err, action.ErrPlotNotPlowed):
		writeErrorBody(ctx, consts.StatusConflict, "plot_not_plowed", err.Error())
	case errors.Is(err, action.ErrPlotAlreadyPlowed):
		writeErrorBody(ctx, consts.StatusConflict, "plot_already_plowed", err.Error())
	case errors.Is(err, action.ErrUnknownRecipe):
		writeErrorBody(ctx, consts.StatusConflict, "unknown_recipe", err.Error())
	case errors.Is(err, action.ErrFactoryBusy):
		writeErrorBody(ctx, consts.StatusConflict, "factory_busy", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeDailyLimit(ctx *app.RequestContext, err error) {
	details := map[string]any{}
	var limitErr *action.DailyLimitError
	if errors.As(err, &limitErr) && limitErr != nil {
		details["verb"] = string(limitErr.Verb)
		details["limit"] = limitErr.Limit
	}
	writeErrorDetails(ctx, consts.StatusConflict, "daily_limit_reached", err.Error(), details)
}

func writeNotReady(ctx *app.RequestContext, err error) {
	details := map[string]any{}
	var notReady *action.NotReadyError
	if errors.As(err, &notReady) && notReady != nil {
		details["phase"] = string(notReady.State.Phase)
		details["stage_index"] = notReady.State.StageIndex
	}
	writeErrorDetails(ctx, consts.StatusConflict, "not_ready", err.Error(), details)
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	writeErrorDetails(ctx, status, code, message, nil)
}

func writeErrorDetails(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		body["details"] = details
	}
	ctx.JSON(status, map[string]any{"error": body})
}
