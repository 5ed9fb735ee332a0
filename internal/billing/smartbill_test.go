package billing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iss-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SmartBillConfig {
	return config.SmartBillConfig{
		Username:   "facturi@iss.ro",
		Token:      "secret-token",
		CompanyCIF: "RO1234567",
		Series:     "ISS",
		VATRate:    "21",
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*SmartBillClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewSmartBillClient(testConfig())
	require.NotNil(t, client)
	client.baseURL = server.URL
	return client, server
}

func TestNewSmartBillClientUnconfigured(t *testing.T) {
	assert.Nil(t, NewSmartBillClient(config.SmartBillConfig{}))
	assert.Nil(t, NewSmartBillClient(config.SmartBillConfig{Username: "doar-user"}))
}

func TestIssueInvoice(t *testing.T) {
	var gotAuth string
	var gotPayload issueInvoicePayload

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/invoice", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		_ = json.NewEncoder(w).Encode(IssueResult{Series: "ISS", Number: "0042"})
	}))

	issueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	result, err := client.IssueInvoice(
		InvoiceClient{Name: "Client SRL", VatCode: "RO999", City: "București"},
		[]InvoiceProduct{{Name: "Servicii personal", Quantity: 160, Price: 25, VatPercent: 21, MeasureUnit: "ora", IsService: true}},
		issueDate, "RON", 30,
	)
	require.NoError(t, err)

	assert.Equal(t, "ISS", result.Series)
	assert.Equal(t, "0042", result.Number)

	// Basic base64("facturi@iss.ro:secret-token")
	assert.Equal(t, "Basic ZmFjdHVyaUBpc3Mucm86c2VjcmV0LXRva2Vu", gotAuth)
	assert.Equal(t, "RO1234567", gotPayload.CompanyVatCode)
	assert.Equal(t, "ISS", gotPayload.SeriesName)
	assert.Equal(t, "2026-03-10", gotPayload.IssueDate)
	assert.Equal(t, "2026-04-09", gotPayload.DueDate)
	assert.Equal(t, "România", gotPayload.Client.Country)
	assert.True(t, gotPayload.Client.SaveToDb)
	require.Len(t, gotPayload.Products, 1)
	assert.True(t, gotPayload.Products[0].IsService)
	assert.False(t, gotPayload.Products[0].SaveToDb)
}

func TestIssueInvoiceAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorText":"invalid credentials"}`))
	}))

	_, err := client.IssueInvoice(InvoiceClient{Name: "X"}, nil, time.Now(), "RON", 30)
	require.Error(t, err)

	var sbErr *SmartBillError
	require.ErrorAs(t, err, &sbErr)
	assert.Equal(t, http.StatusUnauthorized, sbErr.StatusCode)
	assert.Contains(t, sbErr.Body, "invalid credentials")
}

func TestGetInvoicePDF(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invoice/pdf", r.URL.Path)
		assert.Equal(t, "RO1234567", r.URL.Query().Get("cif"))
		assert.Equal(t, "ISS", r.URL.Query().Get("seriesname"))
		assert.Equal(t, "0042", r.URL.Query().Get("number"))
		_, _ = w.Write([]byte("%PDF-1.4 conținut"))
	}))

	pdf, err := client.GetInvoicePDF("ISS", "0042")
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "%PDF")
}

func TestGetPayments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/list", r.URL.Path)
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2026-03-31", r.URL.Query().Get("endDate"))

		_, _ = w.Write([]byte(`{"payments":[
			{"invoiceSeries":"ISS","invoiceNumber":"0042","paidAmount":2500.50,"paymentDate":"2026-02-14"},
			{"invoiceSeries":"ISS","invoiceNumber":"0043","paidAmount":100,"paymentDate":"2026-03-01"}
		]}`))
	}))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	payments, err := client.GetPayments(from, to)
	require.NoError(t, err)

	require.Len(t, payments, 2)
	assert.Equal(t, "0042", payments[0].InvoiceNumber)
	assert.InDelta(t, 2500.50, payments[0].PaidAmount, 0.001)
}

func TestGetInvoicePaymentStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invoice/paymentstatus", r.URL.Path)
		assert.Equal(t, "RO1234567", r.URL.Query().Get("cif"))
		assert.Equal(t, "ISS", r.URL.Query().Get("seriesname"))
		assert.Equal(t, "0042", r.URL.Query().Get("number"))

		_, _ = w.Write([]byte(`{"invoiceTotalAmount":5950,"paidAmount":2500.50,"unpaidAmount":3449.50}`))
	}))

	status, err := client.GetInvoicePaymentStatus("ISS", "0042")
	require.NoError(t, err)
	assert.InDelta(t, 5950, status.InvoiceTotal, 0.001)
	assert.InDelta(t, 2500.50, status.PaidAmount, 0.001)
	assert.InDelta(t, 3449.50, status.UnpaidAmount, 0.001)
}

func TestTestConnection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invoice/series", r.URL.Path)
		_, _ = w.Write([]byte(`{"list":[{"name":"ISS"},{"name":"PROFORMA"}]}`))
	}))

	series, err := client.TestConnection()
	require.NoError(t, err)
	assert.Equal(t, []string{"ISS", "PROFORMA"}, series)
}

func TestTestConnectionNetworkError(t *testing.T) {
	client := NewSmartBillClient(testConfig())
	require.NotNil(t, client)
	client.baseURL = "http://127.0.0.1:1" // nimic nu ascultă aici

	_, err := client.TestConnection()
	require.Error(t, err)

	var sbErr *SmartBillError
	assert.ErrorAs(t, err, &sbErr)
}
