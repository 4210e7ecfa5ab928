package farm

import "time"

type Phase string

const (
	PhaseGrowing     Phase = "growing"
	PhaseNeedsAction Phase = "needs_action"
	PhaseReady       Phase = "ready"
	PhaseWithered    Phase = "withered"
)

// DerivedState is never persisted. The canonical state of an object is always
// recomputed from the creation time, config and checkpoint set, so a stored
// state can never drift from wall-clock time.
type DerivedState struct {
	Phase               Phase            `json:"phase"`
	StageIndex          int              `json:"stage_index"`
	StageRemaining      int              `json:"stage_remaining,omitempty"`
	NeedsAction         CheckpointAction `json:"needs_action,omitempty"`
	PendingCheckpointID int64            `json:"pending_checkpoint_id,omitempty"`
	// TimeToDeadline is seconds until the relevant deadline: the pending
	// action's deadline while one is due, otherwise the wither deadline.
	// NoDeadline means the object can wait forever.
	TimeToDeadline int `json:"time_to_deadline"`
}

func (s DerivedState) Withered() bool { return s.Phase == PhaseWithered }

// Derive computes the current lifecycle state. Pure: identical inputs,
// including an identical now, always yield an identical answer.
func Derive(createdAt time.Time, cfg ItemConfig, checkpoints []Checkpoint, now time.Time) DerivedState {
	elapsed := int(now.Sub(createdAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	cumulative := 0
	for i, d := range cfg.StageTimes {
		cumulative += d
		if elapsed < cumulative {
			return DerivedState{
				Phase:          PhaseGrowing,
				StageIndex:     i + 1,
				StageRemaining: cumulative - elapsed,
				TimeToDeadline: NoDeadline,
			}
		}
	}

	if cfg.WitherTime > 0 && elapsed > cumulative+cfg.WitherTime {
		return DerivedState{Phase: PhaseWithered, StageIndex: len(cfg.StageTimes)}
	}

	if pending, ok := duePendingAction(checkpoints, elapsed); ok {
		if pending.HasDeadline() && elapsed > pending.Deadline {
			return DerivedState{Phase: PhaseWithered, StageIndex: len(cfg.StageTimes)}
		}
		return DerivedState{
			Phase:               PhaseNeedsAction,
			StageIndex:          len(cfg.StageTimes),
			NeedsAction:         pending.Action,
			PendingCheckpointID: pending.ID,
			TimeToDeadline:      pending.Deadline - elapsed,
		}
	}

	ready := DerivedState{
		Phase:          PhaseReady,
		StageIndex:     len(cfg.StageTimes),
		TimeToDeadline: NoDeadline,
	}
	if terminal, ok := terminalCheckpoint(checkpoints); ok && terminal.HasDeadline() {
		if elapsed > terminal.Deadline {
			return DerivedState{Phase: PhaseWithered, StageIndex: len(cfg.StageTimes)}
		}
		ready.TimeToDeadline = terminal.Deadline - elapsed
	}
	return ready
}

// duePendingAction picks the due unresolved non-terminal checkpoint. Several
// may be due at once; the choice among ties is an allowed nondeterminism and
// this implementation settles on lowest TimeOffset, then lowest ID.
func duePendingAction(checkpoints []Checkpoint, elapsed int) (Checkpoint, bool) {
	var best Checkpoint
	found := false
	for _, cp := range checkpoints {
		if cp.Done() || cp.Terminal() || cp.TimeOffset > elapsed {
			continue
		}
		if !found || cp.TimeOffset < best.TimeOffset ||
			(cp.TimeOffset == best.TimeOffset && cp.ID < best.ID) {
			best = cp
			found = true
		}
	}
	return best, found
}

func terminalCheckpoint(checkpoints []Checkpoint) (Checkpoint, bool) {
	for _, cp := range checkpoints {
		if cp.Terminal() && !cp.Done() {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// HasActivePest reports whether an unresolved pest checkpoint is still live,
// which forbids throwing another one at the same object.
func HasActivePest(checkpoints []Checkpoint, createdAt, now time.Time) bool {
	elapsed := int(now.Sub(createdAt) / time.Second)
	for _, cp := range checkpoints {
		if cp.Action != CheckpointRemovePest || cp.Done() {
			continue
		}
		if !cp.HasDeadline() || elapsed <= cp.Deadline {
			return true
		}
	}
	return false
}

// MaxStealable is the hard cap on cumulative stolen units for one crop.
func MaxStealable(yield, stealPercent int) int {
	return yield * stealPercent / 100
}
