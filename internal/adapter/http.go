package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/go-resty/resty/v2"
)

// tokens are reissued this long before they expire
const tokenRefreshMargin = time.Minute

type httpRemoteStore struct {
	client *utils.HTTPClient

	basePath string
	deviceID string
	ns       models.Namespace
	app      config.App

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore]
// bound to ns. Requests are authenticated with a device token signed with
// appCfg.TokenSignKey; every round trip is bounded by
// adapterCfg.RequestTimeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL, or if ns or deviceID are empty.
func NewHTTPRemoteStore(adapterCfg config.Adapter, appCfg config.App, ns models.Namespace, deviceID string, log *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}
	if ns.Container == "" || !models.ValidScope(ns.Scope) {
		return nil, fmt.Errorf("invalid namespace %q/%q", ns.Container, ns.Scope)
	}
	if deviceID == "" {
		return nil, errors.New("empty device id")
	}

	return &httpRemoteStore{
		client:   utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		basePath: "/api/containers/" + url.PathEscape(ns.Container) + "/" + ns.Scope,
		deviceID: deviceID,
		ns:       ns,
		app:      appCfg,
		logger:   log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpRemoteStore) Status(ctx context.Context) (models.StatusResponse, error) {
	var status models.StatusResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return status, err
	}
	resp, err := req.SetResult(&status).Get(h.basePath + "/status")
	if err != nil {
		return status, mapRequestError("status request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return status, fmt.Errorf("%w: %s", ErrContainerNotFound, h.ns.Container)
		}
		return status, err
	}

	return status, nil
}

func (h *httpRemoteStore) FetchRecord(ctx context.Context, id string) (models.Record, error) {
	var rec models.Record

	req, err := h.authedRequest(ctx)
	if err != nil {
		return rec, err
	}
	resp, err := req.SetResult(&rec).Get(h.basePath + "/records/" + url.PathEscape(id))
	if err != nil {
		return rec, mapRequestError("fetch record request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Record{}, err
	}

	return rec, nil
}

func (h *httpRemoteStore) FetchRecords(ctx context.Context, ids []string) ([]models.Record, error) {
	if len(ids) == 0 {
		return []models.Record{}, nil
	}

	var out models.RecordsResponse
	if err := h.post(ctx, "fetch records", h.basePath+"/records/fetch", models.FetchRecordsRequest{IDs: ids}, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (h *httpRemoteStore) SaveRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	saved, err := h.SaveRecords(ctx, []models.Record{rec})
	if err != nil {
		return models.Record{}, err
	}
	if len(saved) != 1 {
		return models.Record{}, fmt.Errorf("save record: expected 1 record in response, got %d", len(saved))
	}
	return saved[0], nil
}

func (h *httpRemoteStore) SaveRecords(ctx context.Context, recs []models.Record) ([]models.Record, error) {
	if len(recs) == 0 {
		return []models.Record{}, nil
	}

	var out models.RecordsResponse
	body := models.SaveRecordsRequest{Records: recs, Length: len(recs)}
	if err := h.post(ctx, "save records", h.basePath+"/records", body, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (h *httpRemoteStore) DeleteRecords(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	var out models.DeletedRecordsResponse
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.
		SetBody(models.DeleteRecordsRequest{IDs: ids}).
		SetResult(&out).
		Delete(h.basePath + "/records")
	if err != nil {
		return nil, mapRequestError("delete records request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return out.IDs, nil
}

func (h *httpRemoteStore) QueryRecords(ctx context.Context, query models.RecordQuery) ([]models.Record, error) {
	var out models.RecordsResponse
	if err := h.post(ctx, "query records", h.basePath+"/records/query", query, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (h *httpRemoteStore) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	var out models.SubscriptionsResponse

	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetResult(&out).Get(h.basePath + "/subscriptions")
	if err != nil {
		return nil, mapRequestError("subscriptions request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return out.Subscriptions, nil
}

func (h *httpRemoteStore) SaveSubscription(ctx context.Context, sub models.Subscription) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.SetBody(sub).Put(h.basePath + "/subscriptions")
	if err != nil {
		return mapRequestError("save subscription request", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) DeleteSubscription(ctx context.Context, id string) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Delete(h.basePath + "/subscriptions/" + url.PathEscape(id))
	if err != nil {
		return mapRequestError("delete subscription request", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) post(ctx context.Context, op, path string, body, result any) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.SetBody(body).SetResult(result).Post(path)
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "httpRemoteStore.post").Str("path", path).Msg(op + " request failed")
		return mapRequestError(op+" request", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) (*resty.Request, error) {
	token, err := h.deviceToken()
	if err != nil {
		return nil, err
	}
	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

// deviceToken returns a cached device token, signing a new one when the
// cached token is about to expire.
func (h *httpRemoteStore) deviceToken() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.token != "" && time.Now().Add(tokenRefreshMargin).Before(h.tokenExpiry) {
		return h.token, nil
	}

	token, err := utils.GenerateDeviceToken(h.app.TokenIssuer, h.deviceID, h.ns.Container, h.app.TokenDuration, h.app.TokenSignKey)
	if err != nil {
		h.logger.Err(err).Str("func", "httpRemoteStore.deviceToken").Msg("failed to sign device token")
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	h.token = token.SignedString
	h.tokenExpiry = time.Now().Add(h.app.TokenDuration)
	return h.token, nil
}
