// Package model holds the persistence row shapes for the postgres adapter.
// Columns mirror the SQL migrations under migrations/.
package model

import "time"

type Player struct {
	PlayerID   string    `gorm:"column:player_id;primaryKey"`
	Coins      int32     `gorm:"column:coins"`
	Experience int32     `gorm:"column:experience"`
	Level      int32     `gorm:"column:level"`
	Inventory  []byte    `gorm:"column:inventory"`
	Savings    int32     `gorm:"column:savings"`
	Debt       int32     `gorm:"column:debt"`
	Version    int64     `gorm:"column:version"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Player) TableName() string { return "players" }

type GameObject struct {
	ObjectID  string    `gorm:"column:object_id;primaryKey"`
	OwnerID   string    `gorm:"column:owner_id;index"`
	Kind      string    `gorm:"column:kind"`
	Code      string    `gorm:"column:code"`
	X         int32     `gorm:"column:x"`
	Y         int32     `gorm:"column:y"`
	CreatedAt time.Time `gorm:"column:created_at"`
	State     []byte    `gorm:"column:state"`
	Version   int64     `gorm:"column:version"`
}

func (GameObject) TableName() string { return "game_objects" }

type Checkpoint struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ObjectID   string `gorm:"column:object_id;index"`
	TimeOffset int32  `gorm:"column:time_offset"`
	Action     string `gorm:"column:action"`
	Deadline   int32  `gorm:"column:deadline"`
	DoneAtUnix int64  `gorm:"column:done_at_unix"`
	DoneBy     string `gorm:"column:done_by"`
}

func (Checkpoint) TableName() string { return "checkpoints" }

type NeighborActionLog struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ActorID    string    `gorm:"column:actor_id;index"`
	OwnerID    string    `gorm:"column:owner_id"`
	Verb       string    `gorm:"column:verb"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (NeighborActionLog) TableName() string { return "neighbor_action_logs" }

type Friend struct {
	PlayerID string `gorm:"column:player_id;primaryKey"`
	FriendID string `gorm:"column:friend_id;primaryKey"`
}

func (Friend) TableName() string { return "friends" }

type ActionExecution struct {
	PlayerID       string    `gorm:"column:player_id;primaryKey"`
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	Verb           string    `gorm:"column:verb"`
	ResultCode     string    `gorm:"column:result_code"`
	Payload        []byte    `gorm:"column:payload"`
	AppliedAt      time.Time `gorm:"column:applied_at"`
}

func (ActionExecution) TableName() string { return "action_executions" }

type DomainEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID   string    `gorm:"column:player_id;index"`
	Type       string    `gorm:"column:type"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
	Payload    []byte    `gorm:"column:payload"`
}

func (DomainEvent) TableName() string { return "domain_events" }
