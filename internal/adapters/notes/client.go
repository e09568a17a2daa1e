// Package notes talks to the keyed-JSON document store that holds the
// user's notes. The store follows the Firebase RTDB REST shape:
// POST /.json creates a document and returns the generated key,
// GET /.json dumps everything, PATCH /{id}.json updates fields and
// DELETE /{id}.json removes a document.
package notes

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

// Note is the wire shape of one stored note. Field names match the
// store's documents.
type Note struct {
	Titulo      string `json:"titulo"`
	Descricao   string `json:"descricao"`
	Data        string `json:"data"`
	Status      string `json:"status"`
	DataCriacao string `json:"data_criacao"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Create stores a new note and returns the server-generated key.
func (c *Client) Create(ctx context.Context, note Note) (string, error) {
	body, err := json.Marshal(note)
	if err != nil {
		return "", domain.NewFailure(domain.FailureMalformedResponse, "encoding note", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/.json", bytes.NewReader(body))
	if err != nil {
		return "", domain.NewFailure(domain.FailureTransport, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", domain.NewFailure(domain.FailureTransport, "creating note", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", rejection("creating note", res)
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil || out.Name == "" {
		return "", domain.NewFailure(domain.FailureMalformedResponse, "decoding created note key", err)
	}
	return out.Name, nil
}

// List returns every stored note keyed by its server id. An empty store
// dumps JSON null, which decodes into a nil map.
func (c *Client) List(ctx context.Context) (map[string]Note, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/.json", nil)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureTransport, "building request", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureTransport, "listing notes", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, rejection("listing notes", res)
	}

	var all map[string]Note
	if err := json.NewDecoder(res.Body).Decode(&all); err != nil {
		return nil, domain.NewFailure(domain.FailureMalformedResponse, "decoding notes dump", err)
	}
	return all, nil
}

// Patch updates the given fields of one note. The store answers either
// 200 with the patched fields or 204 with no body; both are success.
func (c *Client) Patch(ctx context.Context, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return domain.NewFailure(domain.FailureMalformedResponse, "encoding patch", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/"+id+".json", bytes.NewReader(body))
	if err != nil {
		return domain.NewFailure(domain.FailureTransport, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return domain.NewFailure(domain.FailureTransport, "patching note", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return rejection("patching note", res)
	}
}

// Delete removes one note.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/"+id+".json", nil)
	if err != nil {
		return domain.NewFailure(domain.FailureTransport, "building request", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return domain.NewFailure(domain.FailureTransport, "deleting note", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return rejection("deleting note", res)
	}
	return nil
}

func rejection(op string, res *http.Response) *domain.Failure {
	detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return domain.NewFailure(
		domain.FailureRemoteRejection,
		fmt.Sprintf("%s: status %d: %s", op, res.StatusCode, detail),
		nil,
	)
}
