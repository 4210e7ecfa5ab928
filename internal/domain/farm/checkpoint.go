package farm

import "time"

type CheckpointAction string

const (
	CheckpointWater      CheckpointAction = "water"
	CheckpointRemovePest CheckpointAction = "remove_pest"
	CheckpointCure       CheckpointAction = "cure"
	CheckpointHarvest    CheckpointAction = "harvest"
	CheckpointReady      CheckpointAction = "ready"
)

// NoDeadline marks a checkpoint that can never expire.
const NoDeadline = -1

// Checkpoint is one scheduled event belonging to an object, expressed in
// seconds after the object's creation. A pending checkpoint whose deadline
// passes unresolved spoils the whole object.
type Checkpoint struct {
	ID         int64            `json:"id"`
	ObjectID   string           `json:"object_id"`
	TimeOffset int              `json:"time_offset"`
	Action     CheckpointAction `json:"action"`
	Deadline   int              `json:"deadline"`
	DoneAtUnix int64            `json:"done_at_unix,omitempty"`
	DoneBy     string           `json:"done_by,omitempty"`
}

func (c Checkpoint) Done() bool { return c.DoneAtUnix != 0 }

func (c Checkpoint) HasDeadline() bool { return c.Deadline != NoDeadline }

// Terminal reports whether this is the end-of-growth checkpoint whose deadline
// is the wither deadline rather than a required player action.
func (c Checkpoint) Terminal() bool {
	return c.Action == CheckpointHarvest || c.Action == CheckpointReady
}

// MarkDone resolves the checkpoint, recording who completed it.
func (c *Checkpoint) MarkDone(by string, at time.Time) {
	c.DoneAtUnix = at.Unix()
	c.DoneBy = by
}

// GenerateCheckpoints rolls the full event timeline for a newly created
// object. The randomized trials happen exactly once, here; the result is
// persisted so a grown object's timeline is fixed at planting time.
//
// roll returns a uniform draw in [0,1); tests inject a fixed source.
func GenerateCheckpoints(cfg ItemConfig, roll func() float64) []Checkpoint {
	out := make([]Checkpoint, 0, len(cfg.StageTimes)+1)
	cur := 0
	for _, d := range cfg.StageTimes {
		cur += d
		if cfg.PestChance > 0 && roll() < cfg.PestChance {
			out = append(out, Checkpoint{
				TimeOffset: cur,
				Action:     CheckpointRemovePest,
				Deadline:   cur + PestDeadlineSeconds,
			})
		}
		if cfg.WaterChance > 0 && roll() < cfg.WaterChance {
			out = append(out, Checkpoint{
				TimeOffset: cur,
				Action:     CheckpointWater,
				Deadline:   cur + WaterDeadlineSeconds,
			})
		}
		if cfg.SickChance > 0 && roll() < cfg.SickChance {
			out = append(out, Checkpoint{
				TimeOffset: cur,
				Action:     CheckpointCure,
				Deadline:   cur + CureDeadlineSeconds,
			})
		}
	}

	terminal := Checkpoint{TimeOffset: cur, Deadline: NoDeadline}
	if cfg.Kind == KindCrop {
		terminal.Action = CheckpointHarvest
	} else {
		terminal.Action = CheckpointReady
	}
	if cfg.WitherTime > 0 {
		terminal.Deadline = cur + cfg.WitherTime
	}
	return append(out, terminal)
}

// PestCheckpoint builds the reactive checkpoint a thrown pest inserts.
func PestCheckpoint(objectID string, elapsed int) Checkpoint {
	return Checkpoint{
		ObjectID:   objectID,
		TimeOffset: elapsed,
		Action:     CheckpointRemovePest,
		Deadline:   elapsed + PestDeadlineSeconds,
	}
}

// SickCheckpoint builds the cure checkpoint a losing sickness roll inserts.
// Animals have no growth stages, so their sickness trial happens per feeding
// rather than at creation; a sick animal falls ill midway through the
// production cycle it was just fed for.
func SickCheckpoint(objectID string, elapsed, produceInterval int) Checkpoint {
	offset := elapsed + produceInterval/2
	return Checkpoint{
		ObjectID:   objectID,
		TimeOffset: offset,
		Action:     CheckpointCure,
		Deadline:   offset + CureDeadlineSeconds,
	}
}
