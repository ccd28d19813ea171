package web

import (
	"net/http"

	"insurance-dashboard/internal/app"
	"insurance-dashboard/internal/presentation"
)

// apiSessionState handles GET /api/session.
func (h *Handler) apiSessionState(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SessionState(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.refreshSessionCookie(w, res.State.SessionID)
	writeJSON(w, http.StatusOK, res.State)
}

// apiEndSession handles DELETE /api/session.
func (h *Handler) apiEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EndSession(r.Context(), sessionIDFromContext(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// apiEmitElement handles POST /api/session/elements.
func (h *Handler) apiEmitElement(w http.ResponseWriter, r *http.Request) {
	var el presentation.Element
	if !decodeJSON(w, r, &el) {
		return
	}
	res, err := h.svc.EmitElement(r.Context(), app.EmitElementRequest{
		SessionID: sessionIDFromContext(r.Context()),
		Element:   el,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.refreshSessionCookie(w, res.State.SessionID)
	writeJSON(w, http.StatusCreated, res.State)
}

// apiConfigurePresentation handles POST /api/session/presentation. Every session is
// configured when it starts, so in practice this reports the order violation and
// ends the session.
func (h *Handler) apiConfigurePresentation(w http.ResponseWriter, r *http.Request) {
	var cfg presentation.DisplayConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	res, err := h.svc.ConfigurePresentation(r.Context(), app.ConfigureRequest{
		SessionID: sessionIDFromContext(r.Context()),
		Config:    cfg,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.refreshSessionCookie(w, res.State.SessionID)
	writeJSON(w, http.StatusOK, res.State)
}
