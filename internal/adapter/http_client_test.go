package adapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowpeople/contact-sync/models"
)

func awaitResponse(t *testing.T, tr Transport) Response {
	t.Helper()
	select {
	case resp := <-tr.Responses():
		return resp
	case <-time.After(2 * time.Second):
		t.Fatal("no response delivered within 2s")
		return Response{}
	}
}

func TestSubmit_PageRequestRoundTrip(t *testing.T) {
	pages := 3
	version := int64(42)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/contacts/pages", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var req models.PageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0, req.PageIndex)

		_ = json.NewEncoder(w).Encode(models.ContactsPage{
			CurrentPage:   0,
			NumberOfPages: &pages,
			Version:       &version,
		})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: srv.URL, Token: "token-1"})

	id, err := tr.Submit(models.PageRequest{PageIndex: 0, PageSize: 25, ToRevision: models.HeadRevision})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	resp := awaitResponse(t, tr)
	assert.Equal(t, id, resp.ID)
	require.NoError(t, resp.Err)

	page, ok := resp.Payload.(models.ContactsPage)
	require.True(t, ok, "payload must decode into ContactsPage, got %T", resp.Payload)
	require.NotNil(t, page.NumberOfPages)
	assert.Equal(t, 3, *page.NumberOfPages)
	assert.True(t, tr.Online())
}

func TestSubmit_UnknownPayload(t *testing.T) {
	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: "http://localhost:1"})

	_, err := tr.Submit(struct{ X int }{1})
	require.ErrorIs(t, err, ErrUnknownPayload)
}

func TestSubmit_UnreachableBackendGoesOffline(t *testing.T) {
	// Закрытый сервер: соединение гарантированно не устанавливается.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: srv.URL, Timeout: time.Second})

	id, err := tr.Submit(models.DeleteContactsRequest{BackendIDs: []int64{1}, Length: 1})
	require.NoError(t, err, "Submit itself must not fail, the error travels in the response")

	resp := awaitResponse(t, tr)
	assert.Equal(t, id, resp.ID)
	require.ErrorIs(t, resp.Err, ErrUnavailable)
	assert.False(t, tr.Online())
}

func TestSubmit_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: srv.URL})

	_, err := tr.Submit(models.ThumbnailRequest{BackendIDs: []int64{1}})
	require.NoError(t, err)

	resp := awaitResponse(t, tr)
	require.ErrorIs(t, resp.Err, ErrUnavailable)
	// 5xx — это ошибка бэкенда, не транспорта: связь считается живой.
	assert.True(t, tr.Online())
}

func TestSubmit_UnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: srv.URL, Token: "expired"})

	_, err := tr.Submit(models.AddContactsRequest{Length: 0})
	require.NoError(t, err)

	resp := awaitResponse(t, tr)
	require.ErrorIs(t, resp.Err, ErrUnauthorized)
}

func TestSubmit_UndecodableBodyIsBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: srv.URL})

	_, err := tr.Submit(models.PageRequest{PageSize: 25})
	require.NoError(t, err)

	resp := awaitResponse(t, tr)
	require.ErrorIs(t, resp.Err, ErrBadResponse)
}

func TestUserID_ReadsSubjectClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1234"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	tr := NewHTTPTransport(HTTPClientConfig{Token: signed}).(*httpTransport)

	id, err := tr.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)
}

func TestUserID_GarbageToken(t *testing.T) {
	tr := NewHTTPTransport(HTTPClientConfig{Token: "not-a-jwt"}).(*httpTransport)

	_, err := tr.UserID()
	require.Error(t, err)
}

func TestSetToken_ReplacesSessionToken(t *testing.T) {
	seen := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.BatchAck{Count: 1})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPClientConfig{BaseURL: srv.URL, Token: "old"}).(*httpTransport)

	_, err := tr.Submit(models.DeleteContactsRequest{BackendIDs: []int64{1}, Length: 1})
	require.NoError(t, err)
	awaitResponse(t, tr)

	tr.SetToken("new")
	_, err = tr.Submit(models.DeleteContactsRequest{BackendIDs: []int64{2}, Length: 1})
	require.NoError(t, err)
	awaitResponse(t, tr)

	assert.Equal(t, "Bearer old", <-seen)
	assert.Equal(t, "Bearer new", <-seen)
}
