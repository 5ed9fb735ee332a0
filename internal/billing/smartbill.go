package billing

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"iss-backend/internal/config"

	"github.com/shopspring/decimal"
)

const smartbillBaseURL = "https://ws.smartbill.ro/SBORO/api"

// SmartBillError - eroare întoarsă de API-ul SmartBill, cu status HTTP
// și corpul răspunsului pentru diagnosticare.
type SmartBillError struct {
	Message    string
	StatusCode int
	Body       string
}

func (e *SmartBillError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("SmartBill: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return "SmartBill: " + e.Message
}

// SmartBillClient - client pentru SmartBill Cloud API
// (https://api.smartbill.ro/). Autentificare Basic cu user:token.
type SmartBillClient struct {
	baseURL    string
	username   string
	token      string
	companyCIF string
	series     string
	vatRate    decimal.Decimal

	httpClient *http.Client
	pdfClient  *http.Client
}

// NewSmartBillClient - nil dacă credențialele nu sunt configurate;
// apelanții tratează nil drept "facturare dezactivată".
func NewSmartBillClient(cfg config.SmartBillConfig) *SmartBillClient {
	if !cfg.Configured() {
		return nil
	}

	vatRate, err := decimal.NewFromString(cfg.VATRate)
	if err != nil {
		vatRate = decimal.NewFromInt(21)
	}

	return &SmartBillClient{
		baseURL:    smartbillBaseURL,
		username:   cfg.Username,
		token:      cfg.Token,
		companyCIF: cfg.CompanyCIF,
		series:     cfg.Series,
		vatRate:    vatRate,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// descărcarea PDF poate dura mai mult
		pdfClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *SmartBillClient) DefaultVATRate() decimal.Decimal {
	return c.vatRate
}

func (c *SmartBillClient) Series() string {
	return c.series
}

func (c *SmartBillClient) authHeader() string {
	credentials := c.username + ":" + c.token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func (c *SmartBillClient) doJSON(method, endpoint string, body any, params url.Values, out any) error {
	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cererea SmartBill nu a putut fi serializată: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("cererea SmartBill nu a putut fi construită: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SmartBillError{Message: "eroare de rețea: " + err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return &SmartBillError{
			Message:    "apel " + endpoint + " eșuat",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &SmartBillError{Message: "răspunsul nu a putut fi decodat: " + err.Error()}
		}
	}
	return nil
}

// InvoiceClient - datele clientului în payload-ul SmartBill.
type InvoiceClient struct {
	Name       string `json:"name"`
	VatCode    string `json:"vatCode"`
	Address    string `json:"address"`
	City       string `json:"city"`
	County     string `json:"county"`
	Country    string `json:"country"`
	Email      string `json:"email,omitempty"`
	IsTaxPayer bool   `json:"isTaxPayer"`
	SaveToDb   bool   `json:"saveToDb"`
}

// InvoiceProduct - o linie de serviciu în payload-ul SmartBill.
type InvoiceProduct struct {
	Name        string  `json:"name"`
	Code        string  `json:"code,omitempty"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	VatPercent  float64 `json:"vatPercent"`
	MeasureUnit string  `json:"measuringUnitName"`
	IsService   bool    `json:"isService"`
	SaveToDb    bool    `json:"saveToDb"`
}

type issueInvoicePayload struct {
	CompanyVatCode string           `json:"companyVatCode"`
	Client         InvoiceClient    `json:"client"`
	IssueDate      string           `json:"issueDate"`
	SeriesName     string           `json:"seriesName"`
	Currency       string           `json:"currency"`
	DueDate        string           `json:"dueDate"`
	Products       []InvoiceProduct `json:"products"`
	IsDraft        bool             `json:"isDraft"`
	UseStock       bool             `json:"useStock"`
}

// IssueResult - seria și numărul alocate de SmartBill.
type IssueResult struct {
	Series  string `json:"series"`
	Number  string `json:"number"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// IssueInvoice - emite factura și întoarce seria/numărul alocate.
func (c *SmartBillClient) IssueInvoice(client InvoiceClient, products []InvoiceProduct, issueDate time.Time, currency string, dueDays int) (*IssueResult, error) {
	if currency == "" {
		currency = "RON"
	}
	if client.Country == "" {
		client.Country = "România"
	}
	client.SaveToDb = true

	payload := issueInvoicePayload{
		CompanyVatCode: c.companyCIF,
		Client:         client,
		IssueDate:      issueDate.Format("2006-01-02"),
		SeriesName:     c.series,
		Currency:       currency,
		DueDate:        issueDate.AddDate(0, 0, dueDays).Format("2006-01-02"),
		Products:       products,
		IsDraft:        false,
		UseStock:       false,
	}

	var result IssueResult
	if err := c.doJSON(http.MethodPost, "invoice", payload, nil, &result); err != nil {
		return nil, err
	}
	if result.Series == "" {
		result.Series = c.series
	}
	return &result, nil
}

// GetInvoicePDF - descarcă PDF-ul facturii ca bytes.
func (c *SmartBillClient) GetInvoicePDF(series, number string) ([]byte, error) {
	params := url.Values{}
	params.Set("cif", c.companyCIF)
	params.Set("seriesname", series)
	params.Set("number", number)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/invoice/pdf?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("cererea SmartBill nu a putut fi construită: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.pdfClient.Do(req)
	if err != nil {
		return nil, &SmartBillError{Message: "eroare de rețea la descărcarea PDF: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &SmartBillError{Message: "descărcarea PDF a eșuat", StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Payment - o încasare raportată de SmartBill.
type Payment struct {
	InvoiceSeries string  `json:"invoiceSeries"`
	InvoiceNumber string  `json:"invoiceNumber"`
	PaidAmount    float64 `json:"paidAmount"`
	PaymentDate   string  `json:"paymentDate"`
	PaymentType   string  `json:"type"`
}

// GetPayments - încasările din intervalul dat.
func (c *SmartBillClient) GetPayments(from, to time.Time) ([]Payment, error) {
	params := url.Values{}
	params.Set("cif", c.companyCIF)
	params.Set("startDate", from.Format("2006-01-02"))
	params.Set("endDate", to.Format("2006-01-02"))

	var result struct {
		Payments []Payment `json:"payments"`
	}
	if err := c.doJSON(http.MethodGet, "payment/list", nil, params, &result); err != nil {
		return nil, err
	}
	return result.Payments, nil
}

// PaymentStatusInfo - statusul de plată al unei facturi.
type PaymentStatusInfo struct {
	InvoiceTotal float64 `json:"invoiceTotalAmount"`
	PaidAmount   float64 `json:"paidAmount"`
	UnpaidAmount float64 `json:"unpaidAmount"`
}

// GetInvoicePaymentStatus - totalul încasat pe o factură anume.
func (c *SmartBillClient) GetInvoicePaymentStatus(series, number string) (*PaymentStatusInfo, error) {
	params := url.Values{}
	params.Set("cif", c.companyCIF)
	params.Set("seriesname", series)
	params.Set("number", number)

	var result PaymentStatusInfo
	if err := c.doJSON(http.MethodGet, "invoice/paymentstatus", nil, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestConnection - verifică credențialele listând seriile de facturare.
func (c *SmartBillClient) TestConnection() ([]string, error) {
	params := url.Values{}
	params.Set("cif", c.companyCIF)

	var result struct {
		List []struct {
			Name string `json:"name"`
		} `json:"list"`
	}
	if err := c.doJSON(http.MethodGet, "invoice/series", nil, params, &result); err != nil {
		return nil, err
	}

	series := make([]string, 0, len(result.List))
	for _, s := range result.List {
		series = append(series, s.Name)
	}
	return series, nil
}
