package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/validators"
)

type errorResponse struct {
	status int
	msg    string
}

var errorResponseMap = map[error]errorResponse{
	ErrInvalidJSON:                 {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrInvalidDataProvided: {http.StatusBadRequest, app.MsgInvalidDataProvided},
	validators.ErrUnsupportedType:  {http.StatusBadRequest, app.MsgUnsupportedFieldType},
	validators.ErrLengthMismatch:   {http.StatusBadRequest, app.MsgLengthMismatch},
	service.ErrContainerNotFound:   {http.StatusNotFound, app.MsgContainerNotFound},

	store.ErrRecordNotFound:       {http.StatusNotFound, app.MsgRecordNotFound},
	store.ErrSubscriptionNotFound: {http.StatusNotFound, app.MsgSubscriptionNotFound},
	store.ErrContainerNotFound:    {http.StatusNotFound, app.MsgContainerNotFound},
	store.ErrRecordAlreadyExists:  {http.StatusConflict, app.MsgRecordAlreadyExists},
	store.ErrEncodingFields:       {http.StatusBadRequest, app.MsgUnsupportedFieldType},
}

// responseFromError maps err to the status and body written to the client.
// Anything unmapped, including query and transaction failures, is a 500.
func responseFromError(err error) errorResponse {
	for target, resp := range errorResponseMap {
		if errors.Is(err, target) {
			return resp
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}
