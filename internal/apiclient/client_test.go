package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/apiclient"
	"github.com/arjunks/kharcha/internal/goal"
	"github.com/arjunks/kharcha/internal/transaction"
)

// In-memory credential store for tests.
type memCreds struct {
	access  string
	refresh string
	cleared bool
}

func (m *memCreds) AccessToken() string  { return m.access }
func (m *memCreds) RefreshToken() string { return m.refresh }

func (m *memCreds) SetTokens(pair api.TokenPair) error {
	m.access = pair.AccessToken
	m.refresh = pair.RefreshToken

	return nil
}

func (m *memCreds) ClearTokens() error {
	m.access, m.refresh = "", ""
	m.cleared = true

	return nil
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env *api.Envelope) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func TestClient_ListTransactionsDecodesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transactions", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		env, err := api.OK("", []api.Transaction{{
			ID:     "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
			Type:   "expense",
			Amount: 12550,
			Date:   "2024-03-15",
		}})
		require.NoError(t, err)
		writeEnvelope(t, w, http.StatusOK, env)
	}))
	defer ts.Close()

	client := apiclient.New(ts.URL, &memCreds{access: "tok-1"})

	txs, err := client.ListTransactions(context.Background(), apiclient.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(12550), txs[0].Amount)
}

// A success=false body is a failure even when the HTTP status is 200.
func TestClient_FailureEnvelopeUnder200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, api.Fail("upstream hiccup"))
	}))
	defer ts.Close()

	client := apiclient.New(ts.URL, &memCreds{})

	_, err := client.ListGoals(context.Background())
	require.Error(t, err)
	assert.Equal(t, apiclient.KindServer, apiclient.KindOf(err))
	assert.Contains(t, err.Error(), "upstream hiccup")
}

func TestClient_ValidationErrorCarriesFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusBadRequest, api.FailFields("validation failed", map[string][]string{
			"amount": {"must be positive"},
			"date":   {"cannot be in the future"},
		}))
	}))
	defer ts.Close()

	client := apiclient.New(ts.URL, &memCreds{})

	_, err := client.ListBudgets(context.Background(), false)
	require.Error(t, err)

	var ce *apiclient.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, apiclient.KindValidation, ce.Kind)
	assert.Contains(t, ce.Message, "amount: must be positive; date: cannot be in the future")
	assert.Equal(t, []string{"must be positive"}, ce.Fields["amount"])
}

func TestClient_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusNotFound, api.Fail("transaction not found"))
	}))
	defer ts.Close()

	client := apiclient.New(ts.URL, &memCreds{})

	_, err := client.ListTransactions(context.Background(), apiclient.TransactionFilter{})
	assert.True(t, apiclient.IsKind(err, apiclient.KindNotFound))
}

// An expired access token triggers exactly one refresh and one retry.
func TestClient_RefreshesTokenOn401(t *testing.T) {
	var listCalls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/refresh":
			var req api.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "refresh-1", req.RefreshToken)

			env, err := api.OK("", api.TokenPair{AccessToken: "tok-2", RefreshToken: "refresh-2"})
			require.NoError(t, err)
			writeEnvelope(t, w, http.StatusOK, env)
		case "/api/v1/goals":
			if listCalls.Add(1) == 1 {
				writeEnvelope(t, w, http.StatusUnauthorized, api.Fail("token expired"))
				return
			}

			assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))

			env, err := api.OK("", []api.SavingsGoal{})
			require.NoError(t, err)
			writeEnvelope(t, w, http.StatusOK, env)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	creds := &memCreds{access: "tok-1", refresh: "refresh-1"}
	client := apiclient.New(ts.URL, creds)

	_, err := client.ListGoals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), listCalls.Load())
	assert.Equal(t, "tok-2", creds.access)
	assert.Equal(t, "refresh-2", creds.refresh)
}

// A failed refresh tears the session down instead of retrying forever.
func TestClient_FailedRefreshClearsCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/refresh" {
			writeEnvelope(t, w, http.StatusUnauthorized, api.Fail("refresh token expired"))
			return
		}

		writeEnvelope(t, w, http.StatusUnauthorized, api.Fail("token expired"))
	}))
	defer ts.Close()

	creds := &memCreds{access: "tok-1", refresh: "refresh-1"}
	client := apiclient.New(ts.URL, creds)

	_, err := client.ListGoals(context.Background())
	assert.True(t, apiclient.IsKind(err, apiclient.KindAuth))
	assert.True(t, creds.cleared)
}

func TestClient_NetworkErrorKind(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	client := apiclient.New(ts.URL, &memCreds{})

	_, err := client.ListTransactions(context.Background(), apiclient.TransactionFilter{})
	assert.True(t, apiclient.IsKind(err, apiclient.KindNetwork))
}

// Full-record replacements go out as PUT; add_amount is a PATCH on top
// of the current record.
func TestClient_MutationVerbs(t *testing.T) {
	goalID := uuid.New()
	txID := uuid.New()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/transactions/" + txID.String():
			assert.Equal(t, http.MethodPut, r.Method)

			env, err := api.OK("transaction updated", api.Transaction{
				ID:     txID.String(),
				Type:   "expense",
				Amount: 15000,
				Date:   "2024-03-15",
			})
			require.NoError(t, err)
			writeEnvelope(t, w, http.StatusOK, env)
		case "/api/v1/goals/" + goalID.String():
			assert.Equal(t, http.MethodPut, r.Method)

			var req api.UpdateGoalRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Vacation", req.Name)

			env, err := api.OK("goal updated", api.SavingsGoal{
				ID:           goalID.String(),
				Name:         req.Name,
				TargetAmount: req.TargetAmount,
				Status:       "active",
			})
			require.NoError(t, err)
			writeEnvelope(t, w, http.StatusOK, env)
		case "/api/v1/goals/" + goalID.String() + "/add_amount":
			assert.Equal(t, http.MethodPatch, r.Method)

			env, err := api.OK("amount added", api.SavingsGoal{
				ID:            goalID.String(),
				Name:          "Vacation",
				TargetAmount:  8000000,
				CurrentAmount: 500000,
				Status:        "active",
			})
			require.NoError(t, err)
			writeEnvelope(t, w, http.StatusOK, env)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := apiclient.New(ts.URL, &memCreds{access: "tok-1"})

	tx, err := client.UpdateTransaction(context.Background(), txID, transaction.UpdateParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), tx.Amount)

	g, err := client.UpdateGoal(context.Background(), goalID, goal.UpdateParams{
		Name:         "Vacation",
		TargetAmount: 8000000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8000000), g.TargetAmount)

	g, err = client.AddToGoal(context.Background(), goalID, 500000)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), g.CurrentAmount)
}

// Logout drops the stored pair even when the server call fails.
func TestClient_LogoutClearsTokens(t *testing.T) {
	var sawLogout atomic.Bool

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/auth/logout", r.URL.Path)
		sawLogout.Store(true)

		writeEnvelope(t, w, http.StatusInternalServerError, api.Fail("session store unavailable"))
	}))
	defer ts.Close()

	creds := &memCreds{access: "tok-1", refresh: "refresh-1"}
	client := apiclient.New(ts.URL, creds)

	require.NoError(t, client.Logout(context.Background()))
	assert.True(t, sawLogout.Load())
	assert.True(t, creds.cleared)
	assert.Empty(t, creds.access)
}

func TestClient_LoginStoresTokens(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		env, err := api.OK("", api.AuthResponse{
			User:   api.User{ID: "u-1", Email: "arjun@example.com"},
			Tokens: api.TokenPair{AccessToken: "tok-1", RefreshToken: "refresh-1", ExpiresIn: 900},
		})
		require.NoError(t, err)
		writeEnvelope(t, w, http.StatusOK, env)
	}))
	defer ts.Close()

	creds := &memCreds{}
	client := apiclient.New(ts.URL, creds)

	resp, err := client.Login(context.Background(), "arjun@example.com", "hunter2!")
	require.NoError(t, err)
	assert.Equal(t, "arjun@example.com", resp.User.Email)
	assert.Equal(t, "tok-1", creds.access)
}
