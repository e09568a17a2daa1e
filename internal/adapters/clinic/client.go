// Package clinic wraps the OsapiCare platform API. Every protected
// call acquires a fresh credential through the Broker and sends it as a
// bearer token.
package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/osapicare/atende-agent/internal/domain"
)

// Result is the verbatim outcome of one platform call: the remote
// status code plus the decoded JSON body, relayed so the persona layer
// can phrase confirmations from whatever the platform answered.
type Result struct {
	Status int
	Body   any
}

type Client struct {
	baseURL string
	broker  Broker
	http    *http.Client
}

func NewClient(baseURL string, broker Broker, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		broker:  broker,
		http:    &http.Client{Timeout: timeout},
	}
}

// Post issues an authenticated POST. The credential is acquired inside
// the call and discarded with it.
func (c *Client) Post(ctx context.Context, path string, payload any) (Result, error) {
	cred, err := c.broker.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	return c.do(ctx, http.MethodPost, path, cred, payload)
}

// Get issues an authenticated GET.
func (c *Client) Get(ctx context.Context, path string) (Result, error) {
	cred, err := c.broker.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	return c.do(ctx, http.MethodGet, path, cred, nil)
}

// PostScoped is Post with the credential's health-unit reference handed
// to the payload builder, for endpoints whose body embeds the scope.
func (c *Client) PostScoped(ctx context.Context, path string, build func(healthUnitRef any) any) (Result, error) {
	cred, err := c.broker.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	return c.do(ctx, http.MethodPost, path, cred, build(cred.HealthUnitRef))
}

func (c *Client) do(ctx context.Context, method, path string, cred Credential, payload any) (Result, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Result{}, domain.NewFailure(domain.FailureMalformedResponse, "encoding request payload", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Result{}, domain.NewFailure(domain.FailureTransport, "building request", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Result{}, domain.NewFailure(domain.FailureTransport, method+" "+path, err)
	}
	defer res.Body.Close()

	out := Result{Status: res.StatusCode}
	if res.StatusCode == http.StatusNoContent {
		return out, nil
	}
	if err := json.NewDecoder(res.Body).Decode(&out.Body); err != nil {
		// The platform answers JSON on success and on rejection alike;
		// an undecodable body is malformed either way.
		return Result{}, domain.NewFailure(domain.FailureMalformedResponse, "decoding response body", err)
	}
	return out, nil
}
