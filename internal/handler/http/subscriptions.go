package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
)

// deviceFromRequest returns the authenticated device, answering 401 when
// the auth middleware did not run.
func deviceFromRequest(w http.ResponseWriter, r *http.Request, fn string) (string, bool) {
	deviceID, found := utils.GetDeviceIDFromContext(r.Context())
	if !found {
		logger.FromRequest(r).Error().Str("func", fn).Msg(app.MsgNoDeviceIDProvided)
		http.Error(w, app.MsgNoDeviceIDProvided, http.StatusUnauthorized)
	}
	return deviceID, found
}

func (h *Handler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceFromRequest(w, r, "*Handler.listSubscriptions")
	if !ok {
		return
	}

	subs, err := h.services.RecordService.Subscriptions(r.Context(), namespaceFromRequest(r), deviceID)
	if err != nil {
		fail(w, r, "*Handler.listSubscriptions", "error listing subscriptions", err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}

	utils.WriteJSON(w, models.SubscriptionsResponse{Subscriptions: subs, Length: len(subs)}, http.StatusOK)
}

func (h *Handler) saveSubscription(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceFromRequest(w, r, "*Handler.saveSubscription")
	if !ok {
		return
	}

	var sub models.Subscription
	if !decode(w, r, "*Handler.saveSubscription", &sub) {
		return
	}

	if err := h.services.RecordService.SaveSubscription(r.Context(), namespaceFromRequest(r), deviceID, sub); err != nil {
		fail(w, r, "*Handler.saveSubscription", "error saving subscription", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceFromRequest(w, r, "*Handler.deleteSubscription")
	if !ok {
		return
	}

	err := h.services.RecordService.DeleteSubscription(r.Context(), namespaceFromRequest(r), deviceID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, "*Handler.deleteSubscription", "error deleting subscription", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
