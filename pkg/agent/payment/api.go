package payment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// ListTransactions returns every settlement in ledger order.
func (a *Agent) ListTransactions() []*mandate.PaymentConfirmation {
	return a.ledger.List()
}

// Routes is the transaction lookup API, mounted alongside the agent's
// JSON-RPC endpoint (typically under /api).
func (a *Agent) Routes() func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/transactions", a.handleListTransactions)
		r.Get("/transactions/{transactionID}", a.handleGetTransaction)
	}
}

func (a *Agent) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	confs := a.ledger.List()
	if confs == nil {
		confs = []*mandate.PaymentConfirmation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": confs})
}

func (a *Agent) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	conf, ok := a.ledger.ByTransaction(chi.URLParam(r, "transactionID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Transaction not found"})
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
