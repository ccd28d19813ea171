package web

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	"insurance-dashboard/internal/presentation"
	"insurance-dashboard/web/templates/layouts"
)

var templateFuncs = template.FuncMap{
	"shortID": func(id string) string {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	},
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// dashboardPage handles GET /. A visitor without a live session gets a freshly
// bootstrapped one, so the page is always rendered with the dashboard's DisplayConfig.
// A returning visitor's cookie is re-issued with a fresh expiry.
func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	var state *presentation.HostState
	if id, ok := h.sessionFromRequest(r); ok {
		if res, err := h.svc.SessionState(r.Context(), id); err == nil {
			h.refreshSessionCookie(w, id)
			state = &res.State
		}
	}

	if state == nil {
		res, err := h.svc.StartSession(r.Context())
		if err != nil {
			h.log.WithError(err).Error("start session")
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}
		if err := h.issueSessionCookie(w, res.State.SessionID); err != nil {
			h.log.WithError(err).Error("issue session cookie")
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}
		state = &res.State
	}

	h.renderShell(w, r, buildShellData(*state))
}

// endSessionPage handles POST /session/end — ends the session and starts over.
func (h *Handler) endSessionPage(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.sessionFromRequest(r); ok {
		_ = h.svc.EndSession(r.Context(), id)
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// renderShell executes into a buffer first so a template error never leaves a
// half-written page behind.
func (h *Handler) renderShell(w http.ResponseWriter, r *http.Request, d layouts.ShellData) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "shell", d); err != nil {
		h.log.WithError(err).Error("render shell")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// buildShellData maps a session's host state onto the page shell.
func buildShellData(st presentation.HostState) layouts.ShellData {
	return layouts.ShellData{
		Title:      st.Config.Title,
		FaviconURL: faviconURL(st.Config.Icon),
		Icon:       st.Config.Icon,
		Layout:     st.Config.Layout,
		Sidebar:    st.Config.SidebarState,
		SessionID:  st.SessionID,
		Elements:   st.Elements,
	}
}

// faviconURL renders an icon glyph as an inline SVG data URL.
func faviconURL(icon string) template.URL {
	if icon == "" {
		return ""
	}
	var svg bytes.Buffer
	svg.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><text y=".9em" font-size="90">`)
	template.HTMLEscape(&svg, []byte(icon))
	svg.WriteString(`</text></svg>`)
	return template.URL("data:image/svg+xml," + url.PathEscape(svg.String()))
}
