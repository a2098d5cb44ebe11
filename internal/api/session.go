package api

import "net/http"

// getSession resolves the caller's session. Any valid token may ask, whatever its scopes.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r)
	if !ok {
		return
	}
	sess, err := h.svc.Sessions.Check(r.Context(), claims)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionView(sess))
}
