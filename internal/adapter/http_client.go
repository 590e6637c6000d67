package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nowpeople/contact-sync/models"
)

type HTTPClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// httpTransport is the resty-backed Transport. Submit returns a uuid
// request id and performs the exchange on a goroutine; the decoded reply
// is delivered on the responses channel. The engine's cooperative loop
// drains that channel between ticks.
type httpTransport struct {
	client    *resty.Client
	responses chan Response
	offline   atomic.Bool

	mu    sync.RWMutex
	token string
}

func NewHTTPTransport(cfg HTTPClientConfig) Transport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpTransport{
		client:    cli,
		responses: make(chan Response, 16),
		token:     strings.TrimSpace(cfg.Token),
	}
}

func (h *httpTransport) Responses() <-chan Response {
	return h.responses
}

func (h *httpTransport) Online() bool {
	return !h.offline.Load()
}

func (h *httpTransport) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpTransport) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// UserID extracts the subject claim from the session token. The token is
// issued by the host application; this transport only reads it.
func (h *httpTransport) UserID() (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(h.Token(), jwt.MapClaims{})
	if err != nil {
		return 0, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// route maps one payload type to its backend endpoint.
type route struct {
	method string
	path   string
	decode func([]byte) (any, error)
}

func (h *httpTransport) routeFor(payload any) (route, bool) {
	switch payload.(type) {
	case models.PageRequest:
		return route{http.MethodPost, "/api/contacts/pages", decodeInto[models.ContactsPage]}, true
	case models.AddContactsRequest:
		return route{http.MethodPost, "/api/contacts/", decodeInto[models.AddContactsResponse]}, true
	case models.ModifyDetailsRequest:
		return route{http.MethodPut, "/api/contacts/details", decodeInto[models.ModifyDetailsResponse]}, true
	case models.DeleteContactsRequest:
		return route{http.MethodDelete, "/api/contacts/", decodeInto[models.BatchAck]}, true
	case models.DeleteDetailsRequest:
		return route{http.MethodDelete, "/api/contacts/details", decodeInto[models.BatchAck]}, true
	case models.GroupChangesRequest:
		return route{http.MethodPost, "/api/contacts/groups", decodeInto[models.BatchAck]}, true
	case models.ThumbnailRequest:
		return route{http.MethodPost, "/api/contacts/thumbnails", decodeInto[models.ThumbnailPage]}, true
	default:
		return route{}, false
	}
}

func decodeInto[T any](body []byte) (any, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return out, nil
}

// Submit implements Transport. The returned id is final even when the
// exchange later fails; failures arrive as a Response with Err set.
func (h *httpTransport) Submit(payload any) (RequestID, error) {
	r, ok := h.routeFor(payload)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnknownPayload, payload)
	}

	id := RequestID(uuid.NewString())
	go h.exchange(id, r, payload)
	return id, nil
}

func (h *httpTransport) exchange(id RequestID, r route, payload any) {
	req := h.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		h.offline.Store(true)
		h.responses <- Response{ID: id, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
		return
	}
	h.offline.Store(false)

	if err = mapHTTPError(resp); err != nil {
		h.responses <- Response{ID: id, Err: err}
		return
	}

	decoded, err := r.decode(resp.Body())
	if err != nil {
		h.responses <- Response{ID: id, Err: err}
		return
	}

	h.responses <- Response{ID: id, Payload: decoded}
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode())
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrBadResponse, resp.StatusCode(), body)
}
