// Package chat turns "!command" console lines from connected clients into
// engine calls.
package chat

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"survivors/internal/game"
)

var (
	// ErrRateLimited is returned when a client sends commands too fast.
	ErrRateLimited = errors.New("chat: rate limited")
	// ErrUnknownCommand is returned for names not in SupportedCommands.
	ErrUnknownCommand = errors.New("chat: unknown command")
	// ErrUsage is returned when a command is missing its argument.
	ErrUsage = errors.New("chat: bad usage")
)

// Engine is the part of the game engine commands drive
type Engine interface {
	SetPaused(paused bool)
	Paused() bool
	ApplyReward(kind game.RewardKind) error
	Stats() game.PlayerStats
	GetSnapshot() *game.GameSnapshot
}

// Handler processes console commands and applies them to the game
type Handler struct {
	engine      Engine
	rateLimiter *RateLimiter
}

// NewHandler creates a new command handler
func NewHandler(engine Engine) *Handler {
	return NewHandlerWithLimits(engine, DefaultRateLimitConfig)
}

// NewHandlerWithLimits creates a handler with a custom rate limit
func NewHandlerWithLimits(engine Engine, cfg RateLimitConfig) *Handler {
	return &Handler{
		engine:      engine,
		rateLimiter: NewRateLimiter(cfg),
	}
}

// Stop releases the rate limiter
func (h *Handler) Stop() {
	h.rateLimiter.Stop()
}

// ProcessLine parses and runs one console line. Lines that are not commands
// return an empty reply and no error.
func (h *Handler) ProcessLine(client, line string) (string, error) {
	cmd, ok := ParseCommand(client, line)
	if !ok {
		return "", nil
	}
	return h.ProcessCommand(cmd)
}

// ProcessCommand runs a single command and returns the text reply
func (h *Handler) ProcessCommand(cmd Command) (string, error) {
	if !h.rateLimiter.Allow(cmd.Client) {
		log.Printf("🚫 Rate limited: %s", cmd.Client)
		return "", ErrRateLimited
	}

	switch GetCommandType(cmd.Name) {
	case CmdPause:
		h.engine.SetPaused(true)
		return "paused", nil
	case CmdResume:
		h.engine.SetPaused(false)
		return "resumed", nil
	case CmdReward:
		return h.handleReward(cmd)
	case CmdRewards:
		return h.handleRewards(), nil
	case CmdStats:
		return h.handleStats(), nil
	case CmdHelp:
		return "commands: !pause !resume !rewards !reward <kind> !stats", nil
	default:
		return "", fmt.Errorf("%w: !%s", ErrUnknownCommand, cmd.Name)
	}
}

func (h *Handler) handleReward(cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", fmt.Errorf("%w: !reward <kind>", ErrUsage)
	}
	kind, ok := GetRewardKind(cmd.Args[0])
	if !ok {
		return "", fmt.Errorf("%w: %q", game.ErrUnknownReward, cmd.Args[0])
	}
	if err := h.engine.ApplyReward(kind); err != nil {
		return "", err
	}
	log.Printf("🎁 %s picked %s", cmd.Client, kind)
	return fmt.Sprintf("applied %s", kind), nil
}

func (h *Handler) handleRewards() string {
	catalog := game.RewardCatalog()
	names := make([]string, len(catalog))
	for i, r := range catalog {
		names[i] = string(r.Kind)
	}
	return "rewards: " + strings.Join(names, ", ")
}

func (h *Handler) handleStats() string {
	s := h.engine.Stats()
	clock := "00:00"
	if snap := h.engine.GetSnapshot(); snap != nil {
		clock = snap.Time
	}
	return fmt.Sprintf("%s lv %d xp %d/%d $%d kills %d hp %g/%g",
		clock, s.Level, s.Experience, s.NextLevelExperience, s.Money, s.Kills, s.Health, s.MaxHealth)
}
