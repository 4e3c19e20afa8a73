package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/internal/validators"
	"github.com/MKhiriev/go-record-sync/models"
)

// namespaceFromRequest reads the container and scope route parameters.
func namespaceFromRequest(r *http.Request) models.Namespace {
	return models.Namespace{
		Container: chi.URLParam(r, "container"),
		Scope:     chi.URLParam(r, "scope"),
	}
}

// fail logs err and answers with the status mapped from it.
func fail(w http.ResponseWriter, r *http.Request, fn, msg string, err error) {
	resp := responseFromError(err)
	event := logger.FromRequest(r).Warn()
	if resp.status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", fn).Int("status", resp.status).Msg(msg)
	http.Error(w, resp.msg, resp.status)
}

func decode(w http.ResponseWriter, r *http.Request, fn string, v any) bool {
	if err := utils.DecodeJSON(r, v); err != nil {
		logger.FromRequest(r).Err(err).Str("func", fn).Msg(ErrInvalidJSON.Error())
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.services.RecordService.Status(r.Context(), namespaceFromRequest(r))
	if err != nil {
		fail(w, r, "*Handler.status", "error getting store status", err)
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.services.RecordService.GetRecord(r.Context(), namespaceFromRequest(r), id)
	if err != nil {
		fail(w, r, "*Handler.getRecord", "error getting record", err)
		return
	}

	utils.WriteJSON(w, rec, http.StatusOK)
}

func (h *Handler) fetchRecords(w http.ResponseWriter, r *http.Request) {
	var request models.FetchRecordsRequest
	if !decode(w, r, "*Handler.fetchRecords", &request) {
		return
	}

	recs, err := h.services.RecordService.FetchRecords(r.Context(), namespaceFromRequest(r), request.IDs...)
	if err != nil {
		fail(w, r, "*Handler.fetchRecords", "error fetching records", err)
		return
	}

	utils.WriteJSON(w, recordsResponse(recs), http.StatusOK)
}

func (h *Handler) saveRecords(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceFromRequest(w, r, "*Handler.saveRecords")
	if !ok {
		return
	}

	var request models.SaveRecordsRequest
	if !decode(w, r, "*Handler.saveRecords", &request) {
		return
	}
	if request.Length != len(request.Records) {
		fail(w, r, "*Handler.saveRecords", "declared length does not match records", validators.ErrLengthMismatch)
		return
	}

	saved, err := h.services.RecordService.SaveRecords(r.Context(), namespaceFromRequest(r), deviceID, request.Records...)
	if err != nil {
		fail(w, r, "*Handler.saveRecords", "error saving records", err)
		return
	}

	utils.WriteJSON(w, recordsResponse(saved), http.StatusOK)
}

func (h *Handler) deleteRecords(w http.ResponseWriter, r *http.Request) {
	var request models.DeleteRecordsRequest
	if !decode(w, r, "*Handler.deleteRecords", &request) {
		return
	}

	deleted, err := h.services.RecordService.DeleteRecords(r.Context(), namespaceFromRequest(r), request.IDs...)
	if err != nil {
		fail(w, r, "*Handler.deleteRecords", "error deleting records", err)
		return
	}
	if deleted == nil {
		deleted = []string{}
	}

	utils.WriteJSON(w, models.DeletedRecordsResponse{IDs: deleted, Length: len(deleted)}, http.StatusOK)
}

func (h *Handler) queryRecords(w http.ResponseWriter, r *http.Request) {
	var query models.RecordQuery
	if !decode(w, r, "*Handler.queryRecords", &query) {
		return
	}

	recs, err := h.services.RecordService.QueryRecords(r.Context(), namespaceFromRequest(r), query)
	if err != nil {
		fail(w, r, "*Handler.queryRecords", "error querying records", err)
		return
	}

	utils.WriteJSON(w, recordsResponse(recs), http.StatusOK)
}

func recordsResponse(recs []models.Record) models.RecordsResponse {
	if recs == nil {
		recs = []models.Record{}
	}
	return models.RecordsResponse{Records: recs, Length: len(recs)}
}
