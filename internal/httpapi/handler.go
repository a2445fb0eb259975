// Package httpapi serves the arena over JSON/HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/xtding233/gacha-arena/internal/arena"
	"github.com/xtding233/gacha-arena/internal/battle"
	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/progression"
	"github.com/xtding233/gacha-arena/internal/storage"
)

const maxBodyBytes = 1 << 16

type errResp struct {
	Err string `json:"err"`
}

type playerResp struct {
	progression.Player
	RollsAffordable int `json:"rolls_affordable"`
}

type collectionResp struct {
	Members []progression.Member `json:"members"`
}

type attackResp struct {
	Round      battle.RoundSummary    `json:"round"`
	Settlement *arena.EncounterResult `json:"settlement,omitempty"`
}

type healResp struct {
	Player progression.Player `json:"player"`
	Member progression.Member `json:"member"`
}

type catalogResp struct {
	Version  string                   `json:"version"`
	Profiles []catalog.FighterProfile `json:"profiles"`
}

type Handler struct {
	svc *arena.Service
	mux *http.ServeMux
}

// New registers every route on a fresh mux.
func New(svc *arena.Service) *Handler {
	h := &Handler{svc: svc, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	h.mux.HandleFunc("GET /catalog", h.handleCatalog)
	h.mux.HandleFunc("POST /players", h.handleRegister)
	h.mux.HandleFunc("GET /players/{id}", h.handlePlayer)
	h.mux.HandleFunc("GET /players/{id}/collection", h.handleCollection)
	h.mux.HandleFunc("POST /players/{id}/gacha", h.handleGacha)
	h.mux.HandleFunc("GET /players/{id}/battle", h.handleEncounter)
	h.mux.HandleFunc("POST /players/{id}/battle", h.handleBegin)
	h.mux.HandleFunc("POST /players/{id}/battle/attack", h.handleAttack)
	h.mux.HandleFunc("POST /players/{id}/battle/settle", h.handleSettle)
	h.mux.HandleFunc("DELETE /players/{id}/battle", h.handleAbandon)
	h.mux.HandleFunc("POST /players/{id}/members/{mid}/heal", h.handleHeal)
	h.mux.HandleFunc("POST /players/{id}/members/{mid}/name", h.handleRename)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid body: " + err.Error()})
		return false
	}
	return true
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// statusFor maps domain errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, arena.ErrInvalidUsername),
		errors.Is(err, progression.ErrInvalidName),
		errors.Is(err, progression.ErrInvalidRollCount):
		return http.StatusBadRequest
	case errors.Is(err, progression.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, battle.ErrNoActiveEncounter):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict),
		errors.Is(err, storage.ErrAlreadyExists),
		errors.Is(err, arena.ErrUsernameTaken),
		errors.Is(err, battle.ErrEncounterAlreadyActive),
		errors.Is(err, battle.ErrEncounterResolved),
		errors.Is(err, battle.ErrNotResolved),
		errors.Is(err, combat.ErrIneligibleCombatant),
		errors.Is(err, progression.ErrAlreadyRenamed),
		errors.Is(err, progression.ErrFullHealth):
		return http.StatusConflict
	case errors.Is(err, arena.ErrPersistence),
		errors.Is(err, gacha.ErrInvalidDistribution):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errResp{Err: err.Error()})
}
