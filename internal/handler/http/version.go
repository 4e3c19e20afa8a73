package http

import (
	"net/http"

	"github.com/MKhiriev/go-record-sync/internal/logger"
)

// getServerVersion answers with the plain-text build version. Clients use
// it as an unauthenticated reachability check.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write([]byte(serverVersion)); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.getServerVersion").Msg("writing version")
	}
}
