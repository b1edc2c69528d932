package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with RNG seed
	EventTypeSpawn
	EventTypeFire
	EventTypeDamage
	EventTypeKill
	EventTypeDrop
	EventTypePickup
	EventTypeLevelUp
	EventTypeReward
	EventTypePause
	EventTypeGameOver
	EventTypeEquip
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Game tick this occurred in
	RunID     string          `json:"runId"`     // Run the event belongs to
	Source    string          `json:"source"`    // Emitting component (for rate limiting)
	Payload   json.RawMessage `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeFire:
		return "fire"
	case EventTypeDamage:
		return "damage"
	case EventTypeKill:
		return "kill"
	case EventTypeDrop:
		return "drop"
	case EventTypePickup:
		return "pickup"
	case EventTypeLevelUp:
		return "level_up"
	case EventTypeReward:
		return "reward"
	case EventTypePause:
		return "pause"
	case EventTypeGameOver:
		return "game_over"
	case EventTypeEquip:
		return "equip"
	default:
		return "unknown"
	}
}

// MarshalText writes the type name into the NDJSON log.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	RNGSeed     int64 `json:"rngSeed"`
	EnemyCount  int   `json:"enemyCount"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// SpawnPayload records enemies added by the spawner
type SpawnPayload struct {
	Count int `json:"count"`
	Live  int `json:"live"`
}

// FirePayload records a shot
type FirePayload struct {
	WeaponID string  `json:"weaponId"`
	TargetX  float64 `json:"targetX"`
	TargetY  float64 `json:"targetY"`
}

// DamagePayload contains damage event details
type DamagePayload struct {
	WeaponID string  `json:"weaponId"`
	EnemyID  uint64  `json:"enemyId"`
	Damage   float64 `json:"damage"`
	EnemyHP  float64 `json:"enemyHp"`
}

// KillPayload contains kill event details
type KillPayload struct {
	WeaponID string `json:"weaponId"`
	EnemyID  uint64 `json:"enemyId"`
	Kills    int    `json:"kills"`
}

// DropPayload records loot placed on the field
type DropPayload struct {
	Kind DropKind `json:"kind"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
}

// PickupPayload records loot collected by the player
type PickupPayload struct {
	Kind       DropKind `json:"kind"`
	Money      int      `json:"money"`
	Experience int      `json:"experience"`
}

// LevelUpPayload records a level gain
type LevelUpPayload struct {
	Level     int `json:"level"`
	NextLevel int `json:"nextLevel"`
}

// RewardPayload records a reward applied from the catalog
type RewardPayload struct {
	Kind  RewardKind `json:"kind"`
	Level int        `json:"level"`
}

// PausePayload records a pause toggle
type PausePayload struct {
	Paused bool `json:"paused"`
}

// EquipPayload records a weapon placed in a slot
type EquipPayload struct {
	Slot      int    `json:"slot"`
	Weapon    string `json:"weapon"`
	Replaced  string `json:"replaced,omitempty"`
	Discarded int    `json:"discarded"` // projectiles destroyed with the old weapon
}

// GameOverPayload summarises a finished run
type GameOverPayload struct {
	Stats   PlayerStats `json:"stats"`
	Elapsed float64     `json:"elapsed"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, runID, source string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		RunID:     runID,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}
