package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/models"
)

// Deep evaluations with a large thinking budget can take minutes.
const requestTimeout = 5 * time.Minute

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// raw sends the request and returns the body of a 2xx response.
func (c *Client) raw(ctx context.Context, method, path string, body any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return nil, apiErr
	}
	return data, nil
}

// do decodes the {success, data} envelope into out. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.raw(ctx, method, path, body)
	if err != nil || out == nil || len(data) == 0 {
		return err
	}
	env := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Evaluate(ctx context.Context, input models.DecisionInput) (*models.HistoryItem, error) {
	var item models.HistoryItem
	if err := c.do(ctx, http.MethodPost, "/v1/decisions/evaluate", input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Video(ctx context.Context, historyID string) (dto.VideoResponse, error) {
	var out dto.VideoResponse
	err := c.do(ctx, http.MethodPost, "/v1/decisions/"+url.PathEscape(historyID)+"/video", nil, &out)
	return out, err
}

func (c *Client) Chat(ctx context.Context, sessionID, message string) (dto.ChatResponse, error) {
	var out dto.ChatResponse
	err := c.do(ctx, http.MethodPost, "/v1/chat", dto.ChatRequest{SessionID: sessionID, Message: message}, &out)
	return out, err
}

func (c *Client) Explain(ctx context.Context, term string) (dto.ExplainResponse, error) {
	var out dto.ExplainResponse
	err := c.do(ctx, http.MethodPost, "/v1/explain", dto.ExplainRequest{Term: term}, &out)
	return out, err
}

// Speech returns WAV audio.
func (c *Client) Speech(ctx context.Context, text string, language models.Language) ([]byte, error) {
	return c.raw(ctx, http.MethodPost, "/v1/media/speech", dto.SpeechRequest{Text: text, Language: language})
}

func (c *Client) History(ctx context.Context) ([]*models.HistoryItem, error) {
	var items []*models.HistoryItem
	err := c.do(ctx, http.MethodGet, "/v1/history", nil, &items)
	return items, err
}

func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/history", nil, nil)
}
