package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osapicare/atende-agent/internal/domain"
)

// Credential is a short-lived access token plus the health-unit
// reference it is scoped to. It lives for a single outer platform call
// and is never cached, persisted or logged.
type Credential struct {
	AccessToken   string
	HealthUnitRef any
}

// Broker acquires a credential before each protected platform call.
// Re-login per call is a deliberate policy: stale tokens can never
// surface, at the cost of one extra round trip. A caching strategy can
// replace this implementation without touching the tool functions.
type Broker interface {
	Acquire(ctx context.Context) (Credential, error)
}

type LoginBroker struct {
	baseURL string
	email   string
	senha   string
	http    *http.Client
}

func NewLoginBroker(baseURL, email, senha string, timeout time.Duration) *LoginBroker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LoginBroker{
		baseURL: baseURL,
		email:   email,
		senha:   senha,
		http:    &http.Client{Timeout: timeout},
	}
}

func (b *LoginBroker) Acquire(ctx context.Context) (Credential, error) {
	payload, err := json.Marshal(map[string]string{
		"email": b.email,
		"senha": b.senha,
	})
	if err != nil {
		return Credential{}, domain.NewFailure(domain.FailureMalformedResponse, "encoding login payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/auth/local/signin", bytes.NewReader(payload))
	if err != nil {
		return Credential{}, domain.NewFailure(domain.FailureTransport, "building login request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.http.Do(req)
	if err != nil {
		return Credential{}, domain.NewFailure(domain.FailureTransport, "signing in", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return Credential{}, domain.NewFailure(
			domain.FailureRemoteRejection,
			fmt.Sprintf("signin: status %d: %s", res.StatusCode, detail),
			nil,
		)
	}

	var body struct {
		AccessToken   string `json:"access_token"`
		HealthUnitRef any    `json:"health_unit_ref"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Credential{}, domain.NewFailure(domain.FailureMalformedResponse, "decoding signin response", err)
	}
	if body.AccessToken == "" {
		return Credential{}, domain.NewFailure(domain.FailureMalformedResponse, "signin response missing access_token", nil)
	}

	return Credential{
		AccessToken:   body.AccessToken,
		HealthUnitRef: body.HealthUnitRef,
	}, nil
}
