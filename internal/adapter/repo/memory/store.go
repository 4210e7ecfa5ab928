// Package memory is the storage fallback for local development and tests.
// Every repository method takes the store lock itself, so read usecases that
// run outside a transaction stay safe against a concurrent action; the
// TxManager serializes whole action invocations on a separate mutex.
package memory

import (
	"sync"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type Store struct {
	txMu             sync.Mutex
	mu               sync.RWMutex
	players          map[string]farm.Player
	objects          map[string]farm.Object
	checkpoints      map[string][]farm.Checkpoint
	nextCheckpointID int64
	neighborLog      []ports.NeighborActionEntry
	friends          map[string]bool
	executions       map[string]ports.ActionExecutionRecord
	events           map[string][]farm.DomainEvent
}

func NewStore() *Store {
	return &Store{
		players:     make(map[string]farm.Player),
		objects:     make(map[string]farm.Object),
		checkpoints: make(map[string][]farm.Checkpoint),
		friends:     make(map[string]bool),
		executions:  make(map[string]ports.ActionExecutionRecord),
		events:      make(map[string][]farm.DomainEvent),
	}
}

func execKey(playerID, key string) string {
	return playerID + "::" + key
}

func friendKey(a, b string) string {
	if a < b {
		return a + "::" + b
	}
	return b + "::" + a
}

func (s *Store) SeedPlayer(p farm.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

func (s *Store) SeedObject(obj farm.Object, checkpoints []farm.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.ID] = obj
	for _, cp := range checkpoints {
		s.nextCheckpointID++
		cp.ID = s.nextCheckpointID
		cp.ObjectID = obj.ID
		s.checkpoints[obj.ID] = append(s.checkpoints[obj.ID], cp)
	}
}

func (s *Store) SeedFriendship(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[friendKey(a, b)] = true
}
