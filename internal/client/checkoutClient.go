package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"parcel-delivery-backend/internal/config"
	"parcel-delivery-backend/internal/model"
)

type CheckoutClient interface {
	CreateSession(ctx context.Context, params *CreateSessionParams) (*model.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
}

type CreateSessionParams struct {
	Currency      string
	UnitAmount    int64 // provider minor units
	ProductName   string
	CustomerEmail string
	ParcelID      string
	ParcelName    string
}

type checkoutClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
	successURL string
	cancelURL  string
}

func NewCheckoutClient(checkoutCfg *config.Checkout) CheckoutClient {
	return &checkoutClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: checkoutCfg.BaseApiURL,
		secretKey:  checkoutCfg.SecretKey,
		successURL: checkoutCfg.SuccessURL,
		cancelURL:  checkoutCfg.CancelURL,
	}
}

func (c *checkoutClientImpl) CreateSession(ctx context.Context, params *CreateSessionParams) (*model.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.UnitAmount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[parcelId]", params.ParcelID)
	form.Set("metadata[parcelName]", params.ParcelName)
	form.Set("customer_email", params.CustomerEmail)
	// provider substitutes the session id into the placeholder on redirect
	form.Set("success_url", c.successURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.cancelURL)

	return c.doSessionRequest(ctx, http.MethodPost,
		c.baseApiURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
}

func (c *checkoutClientImpl) RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	return c.doSessionRequest(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/checkout/sessions/%s", c.baseApiURL, url.PathEscape(sessionID)),
		nil)
}

func (c *checkoutClientImpl) doSessionRequest(ctx context.Context, method, reqURL string, body io.Reader) (*model.CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		var apiErr model.CheckoutAPIError
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("checkout provider error %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("checkout provider error %d: %s", resp.StatusCode, string(b))
	}

	var session model.CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	return &session, nil
}
