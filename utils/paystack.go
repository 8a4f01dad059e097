package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrVerificationFailed means the gateway answered but did not report a
// successful transaction; callers translate it to a 400, not a 500.
var ErrVerificationFailed = errors.New("transaction verification failed")

// VerifiedTransaction is the subset of the gateway response the pipeline
// needs. Amount is already converted from minor units.
type VerifiedTransaction struct {
	Reference string
	Amount    float64
	Status    string
}

type paystackVerifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"` // minor currency units (kobo)
	} `json:"data"`
}

// PaystackVerifier calls the gateway's verify-by-reference endpoint. BaseURL
// is configurable so tests can point it at a local server.
type PaystackVerifier struct {
	BaseURL string
	Secret  string
	Client  *http.Client
}

func NewPaystackVerifier(baseURL, secret string) *PaystackVerifier {
	return &PaystackVerifier{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  secret,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// VerifyTransaction accepts the transaction only when the gateway reports
// success for the reference. The reference may be either a transaction
// reference string or a numeric transaction ID; both are forwarded as-is.
func (v *PaystackVerifier) VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, fmt.Errorf("empty payment reference")
	}

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", v.BaseURL, url.PathEscape(ref))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+v.Secret)

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway status %s", ErrVerificationFailed, resp.Status)
	}

	var body paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	if !body.Status || body.Data.Status != "success" {
		return nil, ErrVerificationFailed
	}

	return &VerifiedTransaction{
		Reference: ref,
		Amount:    float64(body.Data.Amount) / 100,
		Status:    body.Data.Status,
	}, nil
}
