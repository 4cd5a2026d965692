package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

func newAPIServer(t *testing.T, agent *Agent) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/api", agent.Routes())
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func TestTransactionAPI_List(t *testing.T) {
	agent, signer := newTestAgent(t)
	ts := newAPIServer(t, agent)

	resp, err := http.Get(ts.URL + "/api/transactions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var empty struct {
		Transactions []mandate.PaymentConfirmation `json:"transactions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	assert.Empty(t, empty.Transactions)

	pm, cart, intent := signedChain(t, signer)
	conf, err := agent.ProcessPayment(context.Background(), pm, cart, intent)
	require.NoError(t, err)

	resp, err = http.Get(ts.URL + "/api/transactions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var listed struct {
		Transactions []mandate.PaymentConfirmation `json:"transactions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed.Transactions, 1)
	assert.Equal(t, conf.TransactionID, listed.Transactions[0].TransactionID)
	assert.Equal(t, conf.AuthorizationCode, listed.Transactions[0].AuthorizationCode)
}

func TestTransactionAPI_GetByID(t *testing.T) {
	agent, signer := newTestAgent(t)
	ts := newAPIServer(t, agent)

	pm, cart, intent := signedChain(t, signer)
	conf, err := agent.ProcessPayment(context.Background(), pm, cart, intent)
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/api/transactions/" + conf.TransactionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got mandate.PaymentConfirmation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, conf.TransactionID, got.TransactionID)
	assert.Equal(t, conf.PaymentMandateID, got.PaymentMandateID)
	assert.Equal(t, mandate.StatusApproved, got.Status)
}

func TestTransactionAPI_GetUnknownID(t *testing.T) {
	agent, _ := newTestAgent(t)
	ts := newAPIServer(t, agent)

	resp, err := http.Get(ts.URL + "/api/transactions/TXN-MISSING")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Transaction not found", body["detail"])
}
