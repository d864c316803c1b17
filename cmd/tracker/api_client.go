package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/websocket"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	baseURL = strings.TrimRight(baseURL, "/")
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/ws"
	return &APIClient{
		baseURL: baseURL + "/api",
		wsURL:   wsURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, strings.Join(parts, "; "))
}

type batchRequest struct {
	domain.InsertCharacter
	Quantity int `json:"quantity"`
}

func (c *APIClient) ListCharacters(ctx context.Context) ([]*domain.Character, error) {
	var characters []*domain.Character
	if err := c.do(ctx, http.MethodGet, "/characters", nil, &characters); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

func (c *APIClient) CreateCharacters(ctx context.Context, input domain.InsertCharacter, quantity int) ([]*domain.Character, error) {
	var created []*domain.Character
	body := batchRequest{InsertCharacter: input, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/characters/batch", body, &created); err != nil {
		return nil, fmt.Errorf("create %s: %w", input.Name, err)
	}
	return created, nil
}

func (c *APIClient) UpdateCharacter(ctx context.Context, id int, patch domain.CharacterPatch) (*domain.Character, error) {
	var updated domain.Character
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/characters/%d", id), patch, &updated); err != nil {
		return nil, fmt.Errorf("update character %d: %w", id, err)
	}
	return &updated, nil
}

func (c *APIClient) DeleteCharacter(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/characters/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete character %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) ListConditions(ctx context.Context) ([]domain.Condition, error) {
	var conditions []domain.Condition
	if err := c.do(ctx, http.MethodGet, "/conditions", nil, &conditions); err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	return conditions, nil
}

// Listen pushes roster change notifications to changes until ctx is done or
// the connection drops.
func (c *APIClient) Listen(ctx context.Context, changes chan<- websocket.CharactersChangedPayload) error {
	conn, _, err := gorillaWS.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect live updates: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg websocket.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read live update: %w", err)
		}
		if msg.Type != websocket.MessageTypeCharactersChanged {
			continue
		}

		var payload websocket.CharactersChangedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			continue
		}
		select {
		case changes <- payload:
		case <-ctx.Done():
			return nil
		}
	}
}

// HTTP helpers

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		bodyBytes, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(bodyBytes, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(bodyBytes))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
