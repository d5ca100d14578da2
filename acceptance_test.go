package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t       *testing.T
	baseURL string
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c apiClient) call(method, path string, body any) (int, apiResponse) {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(c.t, err)
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (c apiClient) decode(resp apiResponse, out any) {
	c.t.Helper()
	require.True(c.t, resp.Success, "%s: %s", resp.Error.Code, resp.Error.Message)
	require.NoError(c.t, json.Unmarshal(resp.Data, out))
}

func (c apiClient) login(email, role string) {
	c.t.Helper()
	status, resp := c.call("POST", "/api/v1/auth/login", map[string]string{"email": email, "role": role})
	require.Equal(c.t, http.StatusOK, status, resp.Error.Message)
	status, resp = c.call("POST", "/api/v1/auth/verify", map[string]string{"code": "123456"})
	require.Equal(c.t, http.StatusOK, status, resp.Error.Message)
}

// TestServiceJourneyAcceptance walks a new customer from signup through a
// completed, rated and paid-out job over a real HTTP connection.
func TestServiceJourneyAcceptance(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()
	api := apiClient{t: t, baseURL: server.URL}

	// Signup with a plan waits for the simulated gateway.
	status, resp := api.call("POST", "/api/v1/auth/register", map[string]string{
		"name": "Nina Sharma", "email": "nina@example.com", "phone": "9123456780",
		"role": "Customer", "address": "12 MG Road", "plan": "Premium",
	})
	require.Equal(t, http.StatusCreated, status, resp.Error.Message)
	var customer struct {
		ID           string `json:"id"`
		Subscription string `json:"subscription"`
	}
	api.decode(resp, &customer)
	assert.Equal(t, "Premium", customer.Subscription)

	status, resp = api.call("POST", "/api/v1/tickets", map[string]string{
		"service_id": "serv2", "description": "Bedroom lights flicker", "verification_code": "123456",
	})
	require.Equal(t, http.StatusCreated, status, resp.Error.Message)
	var ticket struct {
		ID                string   `json:"id"`
		Status            string   `json:"status"`
		TechnicianEarning *float64 `json:"technician_earning"`
		PaymentStatus     *string  `json:"payment_status"`
	}
	api.decode(resp, &ticket)
	assert.Equal(t, "Open", ticket.Status)

	api.login("eve@example.com", "Technician")
	for _, action := range []string{"accept", "start", "complete"} {
		status, resp = api.call("POST", "/api/v1/tickets/"+ticket.ID+"/"+action, nil)
		require.Equal(t, http.StatusOK, status, "%s: %s", action, resp.Error.Message)
	}
	api.decode(resp, &ticket)
	assert.Equal(t, "Completed", ticket.Status)
	require.NotNil(t, ticket.TechnicianEarning)
	assert.GreaterOrEqual(t, *ticket.TechnicianEarning, 500.0)
	assert.LessOrEqual(t, *ticket.TechnicianEarning, 2000.0)
	assert.Equal(t, "Pending", *ticket.PaymentStatus)

	api.login("nina@example.com", "Customer")
	status, resp = api.call("POST", "/api/v1/tickets/"+ticket.ID+"/feedback", map[string]any{"rating": 5, "feedback": "Sorted in an hour"})
	require.Equal(t, http.StatusOK, status, resp.Error.Message)

	status, resp = api.call("PUT", "/api/v1/subscription", map[string]string{"tier": "Ultra"})
	require.Equal(t, http.StatusOK, status, resp.Error.Message)

	api.login("admin@example.com", "Admin")
	status, resp = api.call("POST", "/api/v1/admin/payouts/"+ticket.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, status, resp.Error.Message)
	api.decode(resp, &ticket)
	assert.Equal(t, "Paid", *ticket.PaymentStatus)

	status, resp = api.call("GET", "/api/v1/admin/payments?customer_id="+customer.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var payments []struct {
		Type   string  `json:"type"`
		Amount float64 `json:"amount"`
	}
	api.decode(resp, &payments)
	require.Len(t, payments, 2)
	assert.ElementsMatch(t, []string{"New Subscription", "Upgrade"}, []string{payments[0].Type, payments[1].Type})

	// Export is not configured in the local setup.
	status, resp = api.call("POST", "/api/v1/admin/payments/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "REPORTS_DISABLED", resp.Error.Code)
}
