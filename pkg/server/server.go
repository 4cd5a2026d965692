package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

// MessageHandler is an agent's protocol entry point. It receives the inbound
// A2A message and returns the reply message. Returning a *protocol.RPCError
// maps to that JSON-RPC error; any other error maps to an internal error.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *a2a.Message) (*a2a.Message, error)
}

// Server hosts one agent's HTTP surface.
type Server struct {
	name    string
	port    int
	card    *a2a.AgentCard
	handler MessageHandler
	logger  *slog.Logger
	router  chi.Router
}

// New creates a server for the named agent. The agent's JSON-RPC endpoint is
// mounted at POST /a2a/<name>.
func New(name string, port int, card *a2a.AgentCard, handler MessageHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		name:    name,
		port:    port,
		card:    card,
		handler: handler,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(NewAP2ExtensionMiddleware(false).Wrap)
	r.Get("/.well-known/agent.json", s.handleAgentCard)
	r.Get("/health", s.handleHealth)
	r.Post("/a2a/"+name, s.handleA2A)
	s.router = r

	return s
}

// Handler returns the server's HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Mount registers an extra route group under pattern, for agent surfaces
// beyond the JSON-RPC endpoint. Must be called before ListenAndServe.
func (s *Server) Mount(pattern string, routes func(chi.Router)) {
	s.router.Route(pattern, routes)
}

// ListenAndServe blocks serving HTTP until the context is canceled or the
// listener fails. Shutdown drains in-flight requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("agent server starting", "agent", s.name, "port", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.card)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"agent":     s.name,
		"port":      s.port,
		"timestamp": mandate.FormatTimestamp(time.Now()),
	})
}

func (s *Server) handleA2A(w http.ResponseWriter, r *http.Request) {
	var req protocol.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, protocol.NewError("", protocol.CodeInvalidRequest, "invalid JSON-RPC request"))
		return
	}

	caller, _ := CallerAgent(r.Context())
	s.logger.Info("a2a message received",
		"from", caller,
		"to", s.name,
		"method", req.Method,
		"ap2", AP2Active(r.Context()))

	if req.Method != protocol.MethodMessageSend {
		writeJSON(w, http.StatusOK, protocol.NewError(req.ID, protocol.CodeMethodNotFound, "Method not found"))
		return
	}
	if req.Params == nil || req.Params.Message == nil {
		writeJSON(w, http.StatusOK, protocol.NewError(req.ID, protocol.CodeInvalidRequest, "params.message is required"))
		return
	}

	reply, err := s.handler.HandleMessage(r.Context(), req.Params.Message)
	if err != nil {
		writeJSON(w, http.StatusOK, errorResponse(req.ID, err))
		return
	}

	resp, err := protocol.NewResult(req.ID, reply)
	if err != nil {
		s.logger.Error("failed to encode reply", "agent", s.name, "error", err)
		writeJSON(w, http.StatusOK, protocol.NewError(req.ID, protocol.CodeInternalError, "failed to encode reply"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// errorResponse maps handler errors onto JSON-RPC error codes. Missing
// mandates are invalid requests; explicit RPC errors pass through unchanged.
func errorResponse(id string, err error) *protocol.Response {
	var rpcErr *protocol.RPCError
	if errors.As(err, &rpcErr) {
		return &protocol.Response{JSONRPC: "2.0", Error: rpcErr, ID: id}
	}
	var notFound protocol.ErrMandateNotFound
	if errors.As(err, &notFound) {
		return protocol.NewError(id, protocol.CodeInvalidRequest, err.Error())
	}
	return protocol.NewError(id, protocol.CodeInternalError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
