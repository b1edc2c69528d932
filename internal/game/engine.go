package game

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"survivors/internal/config"
	"survivors/internal/game/geom"
)

// EngineConfig holds everything the engine is built from.
type EngineConfig struct {
	TickRate    int
	WorldWidth  float64
	WorldHeight float64
	CellSize    float64
	Sim         config.SimConfig
	Limits      config.ResourceLimits
	Weapons     []string  // starting weapon IDs, defaults to the pistol
	Sprites     SpriteSet // optional artwork applied to new entities
}

// EngineConfigFrom maps the application config onto an EngineConfig.
func EngineConfigFrom(cfg config.AppConfig) EngineConfig {
	return EngineConfig{
		TickRate:    cfg.Sim.TickRate,
		WorldWidth:  cfg.Field.Width,
		WorldHeight: cfg.Field.Height,
		CellSize:    cfg.Spatial.GridCellSize,
		Sim:         cfg.Sim,
		Limits:      cfg.Limits,
	}
}

// TickStats summarises one simulation step for metrics.
type TickStats struct {
	Tick        uint64
	Duration    time.Duration
	Enemies     int
	Projectiles int
	Collisions  int
	Kills       int
	Player      PlayerStats
	GameOver    bool
}

// Engine runs the survival simulation: one player, a spawner-fed enemy
// horde, the player's weapons and the loot on the field.
type Engine struct {
	mu sync.RWMutex

	player     *Player
	enemies    []*Enemy
	drops      []*Drop
	collisions *CollisionSystem
	spawner    *Spawner
	autopilot  *AutoPilot
	sprites    SpriteSet

	input    InputSnapshot
	paused   bool
	gameOver bool
	elapsed  float64

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	// Stats
	totalKills  int
	tickCount   uint64
	nextEnemyID uint64

	onGameOver   func(PlayerStats)
	tickObserver func(TickStats)

	worldWidth  float64
	worldHeight float64

	limits       config.ResourceLimits
	snapshotPool *SnapshotPool
	eventLog     *EventLog
	runID        string

	// Deterministic RNG for replay consistency
	rng     *rand.Rand
	rngSeed int64
}

// NewEngine creates an engine with a fresh run. Invalid sizes or rates
// fail with a wrapped config.ErrInvalid, spatial.ErrInvalidCellSize or
// ErrInvalidWeapon.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("new engine: %w: tick rate %d", config.ErrInvalid, cfg.TickRate)
	}
	if cfg.WorldWidth <= 0 || cfg.WorldHeight <= 0 {
		return nil, fmt.Errorf("new engine: %w: world %gx%g", config.ErrInvalid, cfg.WorldWidth, cfg.WorldHeight)
	}

	collisions, err := NewCollisionSystem(cfg.WorldWidth, cfg.WorldHeight, cfg.CellSize, cfg.Sim.ParallelWorkers)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	center := geom.V(cfg.WorldWidth/2, cfg.WorldHeight/2)
	player := NewPlayer(center.Sub(PlayerSize.Div(2)), cfg.Sim.PlayerHealth, cfg.Sim.PlayerSpeed)

	ids := cfg.Weapons
	if len(ids) == 0 {
		ids = []string{DefaultWeaponID}
	}
	for _, id := range ids {
		w, err := NewWeapon(GetWeapon(id))
		if err != nil {
			return nil, fmt.Errorf("new engine: %w", err)
		}
		player.Weapons = append(player.Weapons, w)
	}
	if box := largestBox(player); cfg.CellSize < box {
		return nil, fmt.Errorf("new engine: %w: cell size %g is smaller than the %g px entity box", config.ErrInvalid, cfg.CellSize, box)
	}

	runID := uuid.NewString()
	e := &Engine{
		player:     player,
		enemies:    make([]*Enemy, 0, cfg.Sim.MaxEnemies),
		collisions: collisions,
		spawner: &Spawner{
			MaxEnemies: cfg.Sim.MaxEnemies,
			SafeArea:   cfg.Sim.SafeArea,
			Health:     cfg.Sim.EnemyHealth,
			Speed:      cfg.Sim.EnemySpeed,
			Field:      geom.V(cfg.WorldWidth, cfg.WorldHeight),
			DropTable:  DefaultDropTable(),
		},
		sprites:      cfg.Sprites,
		tickRate:     cfg.TickRate,
		stopChan:     make(chan struct{}),
		worldWidth:   cfg.WorldWidth,
		worldHeight:  cfg.WorldHeight,
		limits:       cfg.Limits,
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(runID),
		runID:        runID,
		rng:          rand.New(rand.NewSource(seed)),
		rngSeed:      seed,
	}
	if cfg.Sim.AutoPilot {
		e.autopilot = NewAutoPilot(geom.V(cfg.WorldWidth, cfg.WorldHeight))
	}
	e.applySprite(&e.player.Sprite)
	e.produceSnapshot()

	return e, nil
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	ticker := e.ticker
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Game engine started at %d TPS (run %s)", e.tickRate, e.runID)
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Game engine stopped")
}

// largestBox is the widest side among the player, enemy and starting
// projectile boxes.
func largestBox(p *Player) float64 {
	box := math.Max(math.Max(PlayerSize.X, PlayerSize.Y), math.Max(EnemySize.X, EnemySize.Y))
	for _, w := range p.Weapons {
		size := w.Ammo.Size.Mul(p.AmmoSize)
		box = math.Max(box, math.Max(size.X, size.Y))
	}
	return box
}

// tick is called at tickRate times per second
func (e *Engine) tick() {
	e.Step(1.0 / float64(e.tickRate))
}

// Step runs one full tick of dt seconds synchronously. A paused engine
// runs the tick with dt forced to zero. The game over handler and tick
// observer are called after the lock is released.
func (e *Engine) Step(dt float64) TickStats {
	e.mu.Lock()
	ended := !e.gameOver
	stats := e.step(dt)
	ended = ended && e.gameOver
	onGameOver, observer := e.onGameOver, e.tickObserver
	e.mu.Unlock()

	if observer != nil {
		observer(stats)
	}
	if ended && onGameOver != nil {
		onGameOver(stats.Player)
	}
	return stats
}

func (e *Engine) step(dt float64) TickStats {
	start := time.Now()
	if e.paused || e.gameOver || dt < 0 {
		dt = 0
	}

	e.tickCount++
	e.elapsed += dt

	// Log tick event with RNG seed for deterministic replay
	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, "engine", TickPayload{
		RNGSeed:     e.rngSeed,
		EnemyCount:  len(e.enemies),
		DeltaTimeNs: int64(dt * 1e9),
	})
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)

	if !e.gameOver {
		e.spawnEnemies()
	}

	if dt > 0 {
		e.updateDrops()
		e.updateEnemies(dt)
		e.player.Move(e.input, dt)
	}

	// Rebuild the grid from this tick's positions
	e.collisions.UpdateEnemies(e.enemies)

	weapons := e.player.Weapons
	center := e.player.Center()
	for _, w := range weapons {
		if p := w.Tick(dt, center, e.enemies, e.player.AmmoSize); p != nil {
			e.eventLog.EmitSimple(EventTypeFire, e.tickCount, "weapon:"+w.ID, FirePayload{
				WeaponID: w.ID, TargetX: p.Target.X, TargetY: p.Target.Y,
			})
		}
	}

	hits := e.collisions.CheckAll(context.Background(), weapons)

	kills := 0
	if dt > 0 {
		for _, w := range weapons {
			for _, r := range w.ApplyHits(hits, e.player, e.rng) {
				kills += e.recordHit(r)
			}
		}
	}

	projectiles := 0
	for _, w := range weapons {
		w.DiscardArrived()
		w.AdvanceAnimations(dt)
		projectiles += len(w.Active)
	}

	if e.autopilot != nil && dt > 0 {
		e.input = e.autopilot.Decide(e.player, e.collisions.Grid(), e.collisions.Enemies(), e.drops)
	}

	e.commitRemovals()
	e.totalKills += kills

	if !e.gameOver && !e.player.Alive() {
		e.gameOver = true
		log.Printf("💀 Game over after %s: level %d, %d kills", FormatElapsed(e.elapsed), e.player.Level, e.player.Kills)
		e.eventLog.EmitSimple(EventTypeGameOver, e.tickCount, "engine", GameOverPayload{
			Stats: e.player.Stats(), Elapsed: e.elapsed,
		})
	}

	e.produceSnapshot()

	return TickStats{
		Tick:        e.tickCount,
		Duration:    time.Since(start),
		Enemies:     len(e.enemies),
		Projectiles: projectiles,
		Collisions:  len(hits),
		Kills:       kills,
		Player:      e.player.Stats(),
		GameOver:    e.gameOver,
	}
}

// recordHit logs a hit and places its drop. Returns 1 for a kill.
func (e *Engine) recordHit(r HitResult) int {
	source := "weapon:" + r.Weapon.ID
	e.eventLog.EmitSimple(EventTypeDamage, e.tickCount, source, DamagePayload{
		WeaponID: r.Weapon.ID, EnemyID: r.Enemy.ID, Damage: r.Damage, EnemyHP: r.Enemy.Health,
	})
	if !r.Killed {
		return 0
	}

	e.eventLog.EmitSimple(EventTypeKill, e.tickCount, source, KillPayload{
		WeaponID: r.Weapon.ID, EnemyID: r.Enemy.ID, Kills: e.player.Kills,
	})
	if r.Drop != nil {
		e.applySprite(&r.Drop.Sprite)
		e.drops = append(e.drops, r.Drop)
		e.eventLog.EmitSimple(EventTypeDrop, e.tickCount, "loot", DropPayload{
			Kind: r.Drop.Kind, X: r.Drop.Position.X, Y: r.Drop.Position.Y,
		})
	}
	return 1
}

func (e *Engine) spawnEnemies() {
	before := len(e.enemies)
	var spawned int
	e.enemies, spawned = e.spawner.Fill(e.enemies, e.player.Position, e.rng, func() uint64 {
		e.nextEnemyID++
		return e.nextEnemyID
	})
	if spawned == 0 {
		return
	}
	for _, en := range e.enemies[before:] {
		e.applySprite(&en.Sprite)
	}
	e.eventLog.EmitSimple(EventTypeSpawn, e.tickCount, "spawner", SpawnPayload{
		Count: spawned, Live: len(e.enemies),
	})
}

// updateEnemies moves every enemy toward the player. Touching the player
// costs one health per enemy per tick.
func (e *Engine) updateEnemies(dt float64) {
	target := e.player.Position
	for _, en := range e.enemies {
		if !en.Alive() {
			continue
		}
		en.seek(target, dt)
		if en.Bounds().Overlaps(e.player.Bounds()) {
			e.player.Health--
		}
	}
}

// updateDrops collects every drop the player is standing on
func (e *Engine) updateDrops() {
	n := 0
	for _, d := range e.drops {
		if !d.Bounds().Overlaps(e.player.Bounds()) {
			e.drops[n] = d
			n++
			continue
		}

		gained := d.Pickup(e.player)
		e.eventLog.EmitSimple(EventTypePickup, e.tickCount, "loot", PickupPayload{
			Kind: d.Kind, Money: e.player.Money, Experience: e.player.Experience,
		})
		if gained > 0 {
			log.Printf("⬆️ Level up: %d (next at %d xp)", e.player.Level, e.player.NextLevelExperience)
			e.eventLog.EmitSimple(EventTypeLevelUp, e.tickCount, "player", LevelUpPayload{
				Level: e.player.Level, NextLevel: e.player.NextLevelExperience,
			})
		}
	}
	clear(e.drops[n:])
	e.drops = e.drops[:n]
}

// commitRemovals drops dead enemies from the live set. It runs once per
// tick after every weapon has been applied.
func (e *Engine) commitRemovals() {
	n := 0
	for _, en := range e.enemies {
		if en.Alive() {
			e.enemies[n] = en
			n++
		}
	}
	clear(e.enemies[n:])
	e.enemies = e.enemies[:n]
}

func (e *Engine) applySprite(s *Sprite) {
	if img, ok := e.sprites[s.Kind]; ok {
		s.SetImage(img)
	}
}

// AddEnemy places an enemy on the field outside the spawner's control.
func (e *Engine) AddEnemy(pos geom.Vec2, health, speed float64) *Enemy {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextEnemyID++
	en := NewEnemy(e.nextEnemyID, pos, health, speed, DefaultDropTable())
	e.applySprite(&en.Sprite)
	e.enemies = append(e.enemies, en)
	return en
}

// SetInput replaces the input used from the next tick on.
func (e *Engine) SetInput(in InputSnapshot) {
	e.mu.Lock()
	e.input = in
	e.mu.Unlock()
}

// SetPaused freezes or resumes the simulation. Ticks keep running with a
// zero delta while paused.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused == paused {
		return
	}
	e.paused = paused
	e.eventLog.EmitSimple(EventTypePause, e.tickCount, "engine", PausePayload{Paused: paused})
	log.Printf("⏸️ Paused: %v", paused)
}

// Paused reports whether the simulation is paused.
func (e *Engine) Paused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

// GameOver reports whether the player has died.
func (e *Engine) GameOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gameOver
}

// ApplyReward applies a catalog reward to the player and clears the level
// up flag.
func (e *Engine) ApplyReward(kind RewardKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ApplyReward(e.player, kind); err != nil {
		return err
	}
	e.player.ConsumeLevelUp()
	e.eventLog.EmitSimple(EventTypeReward, e.tickCount, "player", RewardPayload{
		Kind: kind, Level: e.player.Level,
	})
	return nil
}

// EquipWeapon places the catalog weapon id in slot. slot may be one past the
// last weapon to add a new slot, up to MaxWeaponSlots. A replaced weapon is
// discarded together with its live projectiles and damage numbers.
func (e *Engine) EquipWeapon(slot int, id string) error {
	def, ok := LookupWeapon(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	weapons := e.player.Weapons
	if slot < 0 || slot > len(weapons) || slot >= MaxWeaponSlots {
		return fmt.Errorf("%w: slot %d of %d", ErrInvalidWeapon, slot, len(weapons))
	}
	w, err := NewWeapon(def)
	if err != nil {
		return err
	}

	payload := EquipPayload{Slot: slot, Weapon: id}
	if slot == len(weapons) {
		e.player.Weapons = append(weapons, w)
	} else {
		old := weapons[slot]
		payload.Replaced = old.ID
		payload.Discarded = old.Discard()
		weapons[slot] = w
	}

	log.Printf("🔫 Equipped %s in slot %d", def.Name, slot)
	e.eventLog.EmitSimple(EventTypeEquip, e.tickCount, "player", payload)
	return nil
}

// Stats returns the current player stats.
func (e *Engine) Stats() PlayerStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.player.Stats()
}

// Elapsed returns the simulated run time in seconds.
func (e *Engine) Elapsed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.elapsed
}

// TimeString returns the run time as mm:ss.
func (e *Engine) TimeString() string {
	return FormatElapsed(e.Elapsed())
}

// FormatElapsed formats seconds as mm:ss, wrapping after an hour.
func FormatElapsed(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", (s/60)%60, s%60)
}

// SetGameOverHandler registers fn to run once when the player dies.
func (e *Engine) SetGameOverHandler(fn func(PlayerStats)) {
	e.mu.Lock()
	e.onGameOver = fn
	e.mu.Unlock()
}

// SetTickObserver registers fn to receive the stats of every tick.
func (e *Engine) SetTickObserver(fn func(TickStats)) {
	e.mu.Lock()
	e.tickObserver = fn
	e.mu.Unlock()
}

// GetSnapshot returns the latest published snapshot
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// produceSnapshot copies live state into the next pool slot. Caller holds mu.
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()

	snap.TickNumber = e.tickCount
	snap.RunID = e.runID
	snap.Elapsed = e.elapsed
	snap.Time = FormatElapsed(e.elapsed)
	snap.Paused = e.paused
	snap.GameOver = e.gameOver

	p := e.player
	snap.Player = PlayerSnapshot{
		X: p.Position.X, Y: p.Position.Y,
		W: p.Size.X, H: p.Size.Y,
		Flipped:   p.Sprite.Flipped,
		Sprite:    p.Sprite.Kind,
		Image:     p.Sprite.DisplayImage(),
		Stats:     p.Stats(),
		LeveledUp: p.RecentlyLeveledUp,
	}

	for _, en := range e.enemies {
		if len(snap.Enemies) >= e.limits.MaxEnemies {
			break
		}
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID: en.ID,
			X:  en.Position.X, Y: en.Position.Y,
			W: en.Size.X, H: en.Size.Y,
			Health:  en.Health,
			Flipped: en.Sprite.Flipped,
			Sprite:  en.Sprite.Kind,
			Image:   en.Sprite.DisplayImage(),
		})
	}

	for _, w := range p.Weapons {
		for _, pr := range w.Active {
			if len(snap.Projectiles) >= e.limits.MaxProjectiles {
				break
			}
			snap.Projectiles = append(snap.Projectiles, pr.ToSnapshot())
		}
		for _, a := range w.DamageText {
			if len(snap.Texts) >= e.limits.MaxTexts {
				break
			}
			snap.Texts = append(snap.Texts, TextSnapshot{
				X: a.Position.X, Y: a.Position.Y,
				Text:      a.Text,
				Frame:     a.Frame,
				Remaining: a.Remaining(),
			})
		}
	}

	for _, d := range e.drops {
		if len(snap.Drops) >= e.limits.MaxDrops {
			break
		}
		snap.Drops = append(snap.Drops, DropSnapshot{
			Kind: d.Kind,
			X:    d.Position.X, Y: d.Position.Y,
			W: d.Size.X, H: d.Size.Y,
			Sprite: d.Sprite.Kind,
			Image:  d.Sprite.DisplayImage(),
		})
	}

	snap.Collisions = e.collisions.Stats()
	snap.Debug = snap.Collisions.String()

	e.snapshotPool.PublishWrite()
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats returns event log statistics for monitoring
func (e *Engine) EventLogStats() EventLogStats {
	return e.eventLog.Stats()
}

// RunID identifies the current run in logs and snapshots.
func (e *Engine) RunID() string { return e.runID }

// GetLimits returns the current resource limits
func (e *Engine) GetLimits() config.ResourceLimits {
	return e.limits
}
