package httpapi

import (
	"net/http"

	"github.com/xtding233/gacha-arena/internal/progression"
)

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResp{
		Version:  h.svc.Rules().Version,
		Profiles: h.svc.Catalog().ListAll(),
	})
}

func (h *Handler) playerResp(p progression.Player) playerResp {
	return playerResp{Player: p, RollsAffordable: h.svc.RollsAffordable(p.State)}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.Register(r.Context(), req.Username)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.playerResp(p))
}

func (h *Handler) handlePlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Player(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.playerResp(p))
}

func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	ms, err := h.svc.Collection(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionResp{Members: ms})
}

// n defaults to one roll
func (h *Handler) handleGacha(w http.ResponseWriter, r *http.Request) {
	n, ok, msg := parseInt(r, "n")
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	if !ok {
		n = 1
	}
	res, err := h.svc.DrawGacha(r.Context(), r.PathValue("id"), n)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleEncounter(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.svc.Encounter(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errResp{Err: "no active encounter"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleBegin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := h.svc.BeginEncounter(r.Context(), r.PathValue("id"), req.MemberID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// handleAttack advances one exchange and settles right away when it was
// decisive.
func (h *Handler) handleAttack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	round, err := h.svc.AdvanceEncounter(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	resp := attackResp{Round: round}
	if round.Outcome.Decisive() {
		res, err := h.svc.SettleEncounter(r.Context(), id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		resp.Settlement = &res
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSettle(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SettleEncounter(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.AbandonEncounter(r.Context(), r.PathValue("id")); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHeal(w http.ResponseWriter, r *http.Request) {
	p, m, err := h.svc.HealMember(r.Context(), r.PathValue("id"), r.PathValue("mid"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, healResp{Player: p, Member: m})
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.svc.RenameMember(r.Context(), r.PathValue("id"), r.PathValue("mid"), req.Name)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
