package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"survivors/internal/chat"
	"survivors/internal/game"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 4 << 10

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.GetSnapshot()
	writeJSON(w, map[string]interface{}{
		"player":     h.engine.Stats(),
		"tick":       snapshot.TickNumber,
		"time":       snapshot.Time,
		"paused":     snapshot.Paused,
		"gameOver":   snapshot.GameOver,
		"enemies":    len(snapshot.Enemies),
		"collisions": snapshot.Collisions,
		"eventLog":   h.engine.EventLogStats(),
		"rateLimit":  h.limiter.Stats(),
	})
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "Renderer disabled", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := h.renderer.EncodePNG(&buf, h.engine.GetSnapshot()); err != nil {
		log.Printf("❌ Frame render failed: %v", err)
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	var in game.InputSnapshot
	if !decodeJSON(w, r, &in) {
		return
	}
	h.engine.SetInput(in)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paused *bool `json:"paused"` // omitted toggles
	}
	// An empty body toggles too
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	paused := !h.engine.Paused()
	if req.Paused != nil {
		paused = *req.Paused
	}
	h.engine.SetPaused(paused)
	writeJSON(w, map[string]bool{"paused": paused})
}

func (h *routerHandlers) handleGetRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, game.RewardCatalog())
}

func (h *routerHandlers) handleApplyReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind game.RewardKind `json:"kind"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.engine.ApplyReward(req.Kind); err != nil {
		if errors.Is(err, game.ErrUnknownReward) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"stats":   h.engine.Stats(),
	})
}

func (h *routerHandlers) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, game.GetAllWeapons())
}

func (h *routerHandlers) handleEquipWeapon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot int    `json:"slot"`
		ID   string `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.engine.EquipWeapon(req.Slot, req.ID); err != nil {
		if errors.Is(err, game.ErrUnknownWeapon) || errors.Is(err, game.ErrInvalidWeapon) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"slot":    req.Slot,
		"weapon":  req.ID,
	})
}

func (h *routerHandlers) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.commands.ProcessLine(ClientIP(r), req.Text)
	switch {
	case errors.Is(err, chat.ErrRateLimited):
		writeError(w, err.Error(), http.StatusTooManyRequests)
	case err != nil:
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		writeJSON(w, map[string]string{"reply": reply})
	}
}

// commandResultMessage is broadcast after a WebSocket client runs a command
type commandResultMessage struct {
	Client string `json:"client"`
	Text   string `json:"text"`
	Reply  string `json:"reply,omitempty"`
	Error  string `json:"error,omitempty"`
}

func commandResult(client, text string, commands *chat.Handler) commandResultMessage {
	reply, err := commands.ProcessLine(client, text)
	msg := commandResultMessage{Client: client, Text: text, Reply: reply}
	if err != nil {
		msg.Error = err.Error()
	}
	return msg
}

// Helper functions (package-level for reuse)

// decodeJSON reads a size-capped JSON body into v. It writes a 400 and
// returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
