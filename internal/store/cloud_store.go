package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogersnm/smoothies/internal/model"
)

// CloudStore implements Secondary using the public smoothies HTTP API.
type CloudStore struct {
	apiURL string
	apiKey string
	client *http.Client
	logger *slog.Logger
}

// compile-time check
var _ Secondary = (*CloudStore)(nil)

func NewCloudStore(apiURL, apiKey string) *CloudStore {
	return &CloudStore{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default().With("component", "cloud"),
	}
}

// --- HTTP helpers ---

func (cs *CloudStore) doJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, cs.apiURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if cs.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+cs.apiKey)
	}
	req.Header.Set("Idempotency-Key", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return cs.client.Do(req)
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func checkResponse(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		e := &APIError{StatusCode: resp.StatusCode}
		var body apiError
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			e.Code = body.Error.Code
			e.Message = body.Error.Message
		}
		return e
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (cs *CloudStore) send(ctx context.Context, op, method, path string, body any, okStatus ...int) error {
	resp, err := cs.doJSON(ctx, method, path, body)
	if err != nil {
		return &StorageError{Op: op, Key: path, Err: err}
	}
	for _, code := range okStatus {
		if resp.StatusCode == code {
			resp.Body.Close()
			return nil
		}
	}
	if err := checkResponse(resp); err != nil {
		cs.logger.Debug("public API request failed", "op", op, "path", path, "error", err)
		return &StorageError{Op: op, Key: path, Err: err}
	}
	return nil
}

// --- Secondary ---

func (cs *CloudStore) Create(ctx context.Context, s model.Smoothie) error {
	return cs.send(ctx, "create", http.MethodPost, "/smoothies", s.Normalized())
}

func (cs *CloudStore) Update(ctx context.Context, s model.Smoothie) error {
	return cs.send(ctx, "update", http.MethodPut, "/smoothies/"+url.PathEscape(s.ID), s.Normalized())
}

// Delete treats 404 as success: the record is already gone.
func (cs *CloudStore) Delete(ctx context.Context, id string) error {
	return cs.send(ctx, "delete", http.MethodDelete, "/smoothies/"+url.PathEscape(id), nil, http.StatusNotFound)
}
