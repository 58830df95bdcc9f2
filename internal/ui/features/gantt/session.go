package gantt

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	sessionName = "leapgantt"
	sessionKey  = "sid"
)

// sessionID returns the browser's session id. When create is set and the
// request has none, a new id is issued and the cookie is written.
func (h *Handlers) sessionID(w http.ResponseWriter, r *http.Request, create bool) string {
	// Get returns a fresh session when the cookie is missing or invalid.
	sess, _ := h.sessionStore.Get(r, sessionName)
	if id, ok := sess.Values[sessionKey].(string); ok && id != "" {
		return id
	}
	if !create {
		return ""
	}

	id := uuid.NewString()
	sess.Values[sessionKey] = id
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", "error", err)
	}
	return id
}
