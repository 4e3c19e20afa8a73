package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
)

// auth is an HTTP middleware that enforces device-token authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// with [utils.ValidateAndParseDeviceToken] and checks that the token was
// issued for the container named in the URL. On success the device id and
// container are stored in the request context under [utils.DeviceIDCtxKey]
// and [utils.ContainerCtxKey].
//
// Requests are rejected with 401 Unauthorized when the header is missing,
// malformed, or carries an invalid or expired token, and with 403 Forbidden
// when the token belongs to another container.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Send()
			http.Error(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseDeviceToken(tokenString, h.tokenSignKey, h.tokenIssuer)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Msg("error occurred during parsing token")
			http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		if container := chi.URLParam(r, "container"); container != token.Container {
			log.Warn().Str("func", "*Handler.auth").
				Str("device_id", token.DeviceID).
				Str("container", container).
				Str("token_container", token.Container).
				Msg(ErrContainerMismatch.Error())
			http.Error(w, ErrContainerMismatch.Error(), http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), utils.DeviceIDCtxKey, token.DeviceID)
		ctx = context.WithValue(ctx, utils.ContainerCtxKey, token.Container)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
