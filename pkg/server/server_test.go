package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

type echoHandler struct{}

func (echoHandler) HandleMessage(_ context.Context, msg *a2a.Message) (*a2a.Message, error) {
	return a2a.NewMessage(a2a.MessageRoleAgent, &a2a.TextPart{Text: "echo: " + protocol.TextContent(msg)}), nil
}

type failingHandler struct{ err error }

func (h failingHandler) HandleMessage(context.Context, *a2a.Message) (*a2a.Message, error) {
	return nil, h.err
}

func newTestServer(t *testing.T, handler MessageHandler) *httptest.Server {
	t.Helper()
	card := protocol.NewAgentCardBuilder("Test Agent", "http://localhost:9999").Build()
	srv := httptest.NewServer(New("test_agent", 9999, card, handler, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postRPC(t *testing.T, url string, req *protocol.Request) *protocol.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, url+"/a2a/test_agent", bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(protocol.ExtensionHeader, protocol.ExtensionURI)
	httpReq.Header.Set(protocol.AgentHeader, "test_caller")

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out protocol.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return &out
}

func TestServer_MessageSend(t *testing.T) {
	srv := newTestServer(t, echoHandler{})

	msg := a2a.NewMessage(a2a.MessageRoleUser, &a2a.TextPart{Text: "hello"})
	resp := postRPC(t, srv.URL, protocol.NewRequest(&a2a.MessageSendParams{Message: msg}))

	require.Nil(t, resp.Error)
	var reply a2a.Message
	require.NoError(t, json.Unmarshal(resp.Result, &reply))
	assert.Equal(t, "echo: hello", protocol.TextContent(&reply))
}

func TestServer_MethodNotFound(t *testing.T) {
	srv := newTestServer(t, echoHandler{})

	resp := postRPC(t, srv.URL, &protocol.Request{JSONRPC: "2.0", Method: "tasks/get", ID: "1"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "1", resp.ID)
}

func TestServer_MissingMessage(t *testing.T) {
	srv := newTestServer(t, echoHandler{})

	resp := postRPC(t, srv.URL, &protocol.Request{JSONRPC: "2.0", Method: protocol.MethodMessageSend, ID: "2"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.CodeInvalidRequest, resp.Error.Code)
}

func TestServer_HandlerErrorMapping(t *testing.T) {
	msg := a2a.NewMessage(a2a.MessageRoleUser, &a2a.TextPart{Text: "x"})

	t.Run("rpc_error_passes_through", func(t *testing.T) {
		srv := newTestServer(t, failingHandler{err: &protocol.RPCError{
			Code: protocol.CodeInvalidRequest, Message: "No IntentMandate found in message",
		}})
		resp := postRPC(t, srv.URL, protocol.NewRequest(&a2a.MessageSendParams{Message: msg}))
		require.NotNil(t, resp.Error)
		assert.Equal(t, protocol.CodeInvalidRequest, resp.Error.Code)
		assert.Equal(t, "No IntentMandate found in message", resp.Error.Message)
	})

	t.Run("unknown_error_is_internal", func(t *testing.T) {
		srv := newTestServer(t, failingHandler{err: assert.AnError})
		resp := postRPC(t, srv.URL, protocol.NewRequest(&a2a.MessageSendParams{Message: msg}))
		require.NotNil(t, resp.Error)
		assert.Equal(t, protocol.CodeInternalError, resp.Error.Code)
	})
}

func TestServer_AgentCardAndHealth(t *testing.T) {
	srv := newTestServer(t, echoHandler{})

	t.Run("agent_card", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/.well-known/agent.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		var card a2a.AgentCard
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
		assert.Equal(t, "Test Agent", card.Name)
		assert.True(t, protocol.SupportsAP2(&card))
	})

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		var health map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "healthy", health["status"])
		assert.Equal(t, "test_agent", health["agent"])
		assert.NotEmpty(t, health["timestamp"])
	})
}

func TestServer_MountExtraRoutes(t *testing.T) {
	card := protocol.NewAgentCardBuilder("Test Agent", "http://localhost:9999").Build()
	s := New("test_agent", 9999, card, echoHandler{}, nil)
	s.Mount("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"pong": "ok"})
		})
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["pong"])
}

func TestAP2ExtensionMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := CallerAgent(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"caller": caller, "ap2": AP2Active(r.Context())})
	})

	t.Run("activation_echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(protocol.ExtensionHeader, protocol.ExtensionURI)
		req.Header.Set(protocol.AgentHeader, "shopping_agent")

		NewAP2ExtensionMiddleware(false).Wrap(inner).ServeHTTP(rec, req)

		assert.Equal(t, protocol.ExtensionURI, rec.Header().Get(protocol.ExtensionHeader))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "shopping_agent", body["caller"])
		assert.Equal(t, true, body["ap2"])
	})

	t.Run("absent_header_allowed_when_optional", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAP2ExtensionMiddleware(false).Wrap(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(protocol.ExtensionHeader))
	})

	t.Run("absent_header_rejected_when_required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAP2ExtensionMiddleware(true).Wrap(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
