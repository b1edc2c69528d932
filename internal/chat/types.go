package chat

import (
	"strings"
	"time"

	"survivors/internal/game"
)

// Command is one parsed console line such as "!reward damage"
type Command struct {
	Name       string   // "pause", "reward", ...
	Args       []string // Arguments after the command
	Client     string   // Remote address or session the line came from
	ReceivedAt time.Time
}

// CommandType for routing
type CommandType int

const (
	CmdPause CommandType = iota
	CmdResume
	CmdReward
	CmdRewards
	CmdStats
	CmdHelp
	CmdUnknown
)

// SupportedCommands maps command strings to types
var SupportedCommands = map[string]CommandType{
	"pause":  CmdPause,
	"p":      CmdPause,
	"resume": CmdResume,
	"play":   CmdResume,

	"reward":  CmdReward,
	"pick":    CmdReward,
	"rewards": CmdRewards,
	"menu":    CmdRewards,

	"stats": CmdStats,
	"score": CmdStats,

	"help":     CmdHelp,
	"commands": CmdHelp,
}

// RewardAliases maps short names to catalog kinds
var RewardAliases = map[string]game.RewardKind{
	"attack": game.RewardAttackSpeed,
	"atk":    game.RewardAttackSpeed,
	"speed":  game.RewardMoveSpeed,
	"move":   game.RewardMoveSpeed,
	"ammo":   game.RewardAmmoSize,
	"size":   game.RewardAmmoSize,
	"damage": game.RewardDamage,
	"dmg":    game.RewardDamage,
	"range":  game.RewardRange,
	"health": game.RewardMaxHealth,
	"hp":     game.RewardMaxHealth,
}

// GetCommandType returns the command type for a lowercase name
func GetCommandType(name string) CommandType {
	if t, ok := SupportedCommands[name]; ok {
		return t
	}
	return CmdUnknown
}

// GetRewardKind resolves an alias or a full catalog kind
func GetRewardKind(name string) (game.RewardKind, bool) {
	name = strings.ToLower(name)
	if kind, ok := RewardAliases[name]; ok {
		return kind, true
	}
	for _, r := range game.RewardCatalog() {
		if string(r.Kind) == name {
			return r.Kind, true
		}
	}
	return "", false
}

// ParseCommand splits a "!name args..." line. Lines without the prefix are
// plain chat and return false.
func ParseCommand(client, line string) (Command, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "!") {
		return Command{}, false
	}
	parts := strings.Fields(line[1:])
	if len(parts) == 0 {
		return Command{}, false
	}
	return Command{
		Name:       strings.ToLower(parts[0]),
		Args:       parts[1:],
		Client:     client,
		ReceivedAt: time.Now(),
	}, true
}
