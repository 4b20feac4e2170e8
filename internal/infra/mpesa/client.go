package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"ecommerce-backend/internal/config"
)

const (
	transactionType = "CustomerPayBillOnline"
	countryCode     = "254"

	// Sentinels returned in simulated mode so the settlement pipeline can be
	// exercised without live credentials.
	SimulatedAccessToken       = "simulated-access-token-for-testing"
	SimulatedCheckoutRequestID = "ws_CO_123456789012345678"
)

// Client talks to the Daraja STK push API. Construct with NewClient; the
// Simulated flag in the config switches every call to deterministic local
// responses.
type Client struct {
	cfg        config.MpesaConfig
	httpClient *http.Client
}

func NewClient(cfg config.MpesaConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type STKPushResult struct {
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	CheckoutRequestID string           `json:"checkout_request_id,omitempty"`
	Response          *STKPushResponse `json:"response,omitempty"`
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID,omitempty"`
	CheckoutRequestID   string `json:"CheckoutRequestID,omitempty"`
	ResponseCode        string `json:"ResponseCode,omitempty"`
	ResponseDescription string `json:"ResponseDescription,omitempty"`
	CustomerMessage     string `json:"CustomerMessage,omitempty"`
	ErrorCode           string `json:"errorCode,omitempty"`
	ErrorMessage        string `json:"errorMessage,omitempty"`
}

type QueryResult struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Response *QueryResponse `json:"response,omitempty"`
}

type QueryResponse struct {
	ResponseCode        string `json:"ResponseCode,omitempty"`
	ResponseDescription string `json:"ResponseDescription,omitempty"`
	MerchantRequestID   string `json:"MerchantRequestID,omitempty"`
	CheckoutRequestID   string `json:"CheckoutRequestID,omitempty"`
	ResultCode          string `json:"ResultCode,omitempty"`
	ResultDesc          string `json:"ResultDesc,omitempty"`
	ErrorCode           string `json:"errorCode,omitempty"`
	ErrorMessage        string `json:"errorMessage,omitempty"`
}

// GetAccessToken exchanges the client credentials for a short-lived bearer
// token. Returns the simulated sentinel when running without credentials.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if c.cfg.Simulated {
		return SimulatedAccessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.AccessTokenURL, nil)
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken  string `json:"access_token"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("no access token in response: %s", body.ErrorMessage)
	}
	return body.AccessToken, nil
}

// generatePassword builds the time-boxed request password. Credentials are
// only valid within the provider's timestamp window, so a fresh digest is
// computed per call rather than cached.
func (c *Client) generatePassword(now time.Time) (password, timestamp string) {
	timestamp = now.Format("20060102150405")
	password = base64.StdEncoding.EncodeToString([]byte(c.cfg.BusinessShortcode + c.cfg.Passkey + timestamp))
	return password, timestamp
}

// normalizePhone canonicalizes to international format: a leading 0 becomes
// the country code, a leading + is stripped.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	switch {
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	default:
		return phone
	}
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// InitiateSTKPush asks the provider to prompt the payer's device. The
// returned CheckoutRequestID correlates the eventual callback or poll.
func (c *Client) InitiateSTKPush(ctx context.Context, phone string, amount float64, accountReference, transactionDesc string) *STKPushResult {
	phone = normalizePhone(phone)
	log.Printf("mpesa: initiating STK push for phone=%s amount=%.2f", phone, amount)

	if c.cfg.Simulated {
		return &STKPushResult{
			Success:           true,
			Message:           "SIMULATED STK push initiated successfully",
			CheckoutRequestID: SimulatedCheckoutRequestID,
			Response: &STKPushResponse{
				CheckoutRequestID:   SimulatedCheckoutRequestID,
				ResponseCode:        "0",
				ResponseDescription: "Success. Request accepted for processing",
			},
		}
	}

	token, err := c.GetAccessToken(ctx)
	if err != nil {
		log.Printf("mpesa: access token error: %v", err)
		return &STKPushResult{Success: false, Message: "Failed to get access token"}
	}

	password, timestamp := c.generatePassword(time.Now())
	payload := stkPushRequest{
		BusinessShortCode: c.cfg.BusinessShortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            int(amount),
		PartyA:            phone,
		PartyB:            c.cfg.BusinessShortcode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  accountReference,
		TransactionDesc:   transactionDesc,
	}

	var body STKPushResponse
	status, err := c.postJSON(ctx, c.cfg.STKPushURL, token, payload, &body)
	if err != nil {
		log.Printf("mpesa: STK push request failed: %v", err)
		return &STKPushResult{Success: false, Message: fmt.Sprintf("STK push request failed: %v", err)}
	}

	if status != http.StatusOK {
		msg := body.ErrorMessage
		if msg == "" {
			msg = "Unknown error"
		}
		return &STKPushResult{
			Success:  false,
			Message:  fmt.Sprintf("Failed to initiate STK push: %s", msg),
			Response: &body,
		}
	}

	return &STKPushResult{
		Success:           true,
		Message:           "STK push initiated successfully",
		CheckoutRequestID: body.CheckoutRequestID,
		Response:          &body,
	}
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// QuerySTKStatus polls the provider for the outcome of an earlier push.
func (c *Client) QuerySTKStatus(ctx context.Context, checkoutRequestID string) *QueryResult {
	if c.cfg.Simulated {
		return &QueryResult{
			Success: true,
			Message: "SIMULATED Query successful",
			Response: &QueryResponse{
				ResultCode: "0",
				ResultDesc: "The service request is processed successfully.",
			},
		}
	}

	token, err := c.GetAccessToken(ctx)
	if err != nil {
		log.Printf("mpesa: access token error: %v", err)
		return &QueryResult{Success: false, Message: "Failed to get access token"}
	}

	password, timestamp := c.generatePassword(time.Now())
	payload := stkQueryRequest{
		BusinessShortCode: c.cfg.BusinessShortcode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var body QueryResponse
	status, err := c.postJSON(ctx, c.cfg.QueryURL, token, payload, &body)
	if err != nil {
		log.Printf("mpesa: status query failed: %v", err)
		return &QueryResult{Success: false, Message: fmt.Sprintf("Query request failed: %v", err)}
	}

	if status != http.StatusOK {
		msg := body.ErrorMessage
		if msg == "" {
			msg = "Unknown error"
		}
		return &QueryResult{
			Success:  false,
			Message:  fmt.Sprintf("Query failed: %s", msg),
			Response: &body,
		}
	}

	return &QueryResult{Success: true, Message: "Query successful", Response: &body}
}

func (c *Client) postJSON(ctx context.Context, url, token string, payload, out any) (int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}
