package game

import (
	"image"
	"sync/atomic"
	"time"

	"survivors/internal/config"
)

// PlayerSnapshot is an immutable copy of player state for rendering
type PlayerSnapshot struct {
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	W         float64     `json:"w"`
	H         float64     `json:"h"`
	Flipped   bool        `json:"flipped"`
	Sprite    SpriteKind  `json:"sprite"`
	Image     image.Image `json:"-"`
	Stats     PlayerStats `json:"stats"`
	LeveledUp bool        `json:"leveledUp"`
}

// EnemySnapshot is an immutable enemy for rendering
type EnemySnapshot struct {
	ID      uint64      `json:"id"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	W       float64     `json:"w"`
	H       float64     `json:"h"`
	Health  float64     `json:"health"`
	Flipped bool        `json:"flipped"`
	Sprite  SpriteKind  `json:"sprite"`
	Image   image.Image `json:"-"`
}

// ProjectileSnapshot is an immutable projectile for rendering
type ProjectileSnapshot struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
}

// DropSnapshot is an immutable drop for rendering
type DropSnapshot struct {
	Kind   DropKind    `json:"kind"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	W      float64     `json:"w"`
	H      float64     `json:"h"`
	Sprite SpriteKind  `json:"sprite"`
	Image  image.Image `json:"-"`
}

// TextSnapshot is an immutable damage number
type TextSnapshot struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	Frame     float64 `json:"frame"`     // seconds elapsed
	Remaining float64 `json:"remaining"` // seconds left
}

// GameSnapshot is a complete immutable game state for rendering
// All slices are pre-allocated and capped to prevent memory attacks
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`  // Monotonic sequence for ordering
	Timestamp  time.Time `json:"timestamp"` // When snapshot was created
	TickNumber uint64    `json:"tick"`      // Game tick this represents
	RunID      string    `json:"runId"`

	Elapsed  float64 `json:"elapsed"` // simulated seconds
	Time     string  `json:"time"`    // Elapsed as mm:ss
	Paused   bool    `json:"paused"`
	GameOver bool    `json:"gameOver"`

	Player      PlayerSnapshot       `json:"player"`
	Enemies     []EnemySnapshot      `json:"enemies"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Drops       []DropSnapshot       `json:"drops"`
	Texts       []TextSnapshot       `json:"texts"`

	Collisions CollisionStats `json:"collisions"`
	Debug      string         `json:"debug"`
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure
// Uses triple buffering for lock-free producer/consumer
type SnapshotPool struct {
	snapshots [3]GameSnapshot // Triple buffer
	limits    config.ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits config.ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Enemies:     make([]EnemySnapshot, 0, limits.MaxEnemies),
			Projectiles: make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
			Drops:       make([]DropSnapshot, 0, limits.MaxDrops),
			Texts:       make([]TextSnapshot, 0, limits.MaxTexts),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from game tick)
// Returns a snapshot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Enemies = snap.Enemies[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.Drops = snap.Drops[:0]
	snap.Texts = snap.Texts[:0]
	snap.Player = PlayerSnapshot{}

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances read pointer
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only)
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() config.ResourceLimits {
	return p.limits
}
