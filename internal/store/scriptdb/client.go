// Package scriptdb implements store.Store against a spreadsheet-backed
// script endpoint. Every call is a stateless HTTP request carrying the
// shared capability token; writes are whole-partition replaces.
package scriptdb

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

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

// Client talks to the script endpoint. Zero value is not usable; set
// BaseURL and Token.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New returns a client with a sane default timeout.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type dayResponse struct {
	Empty   bool              `json:"empty"`
	Date    string            `json:"date"`
	Entries []model.LogEntry  `json:"entries"`
	Totals  model.MacroTotals `json:"totals"`
}

type catalogResponse struct {
	Items []model.FoodItem `json:"items"`
}

type settingsResponse struct {
	Empty    bool               `json:"empty"`
	Settings map[string]float64 `json:"settings"`
}

type ackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *Client) LoadDay(ctx context.Context, date string) (model.DayRecord, error) {
	body, err := c.get(ctx, "getDay", url.Values{"date": {date}})
	if err != nil {
		return model.DayRecord{}, err
	}

	var parsed dayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Malformed responses are treated as no data, never as a hard
		// failure; the caller falls back to an empty day.
		slog.Warn("scriptdb: malformed getDay response", "date", date, "error", err)
		return model.DayRecord{}, store.ErrNoData
	}
	if parsed.Empty {
		return model.DayRecord{}, store.ErrNoData
	}
	entries := parsed.Entries
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return model.DayRecord{Date: date, Entries: entries, Totals: parsed.Totals}, nil
}

func (c *Client) SaveDay(ctx context.Context, rec model.DayRecord) error {
	return c.post(ctx, "saveDay", rec)
}

func (c *Client) LoadCatalog(ctx context.Context) ([]model.FoodItem, error) {
	body, err := c.get(ctx, "getFoods", nil)
	if err != nil {
		return nil, err
	}

	var parsed catalogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		slog.Warn("scriptdb: malformed getFoods response", "error", err)
		return []model.FoodItem{}, nil
	}
	if parsed.Items == nil {
		return []model.FoodItem{}, nil
	}
	return parsed.Items, nil
}

func (c *Client) SaveCatalog(ctx context.Context, items []model.FoodItem) error {
	return c.post(ctx, "saveFoods", catalogResponse{Items: items})
}

func (c *Client) LoadGoals(ctx context.Context) (map[string]float64, error) {
	body, err := c.get(ctx, "getSettings", nil)
	if err != nil {
		return nil, err
	}

	var parsed settingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		slog.Warn("scriptdb: malformed getSettings response", "error", err)
		return nil, store.ErrNoData
	}
	if parsed.Empty || parsed.Settings == nil {
		return nil, store.ErrNoData
	}
	return parsed.Settings, nil
}

func (c *Client) SaveGoal(ctx context.Context, name string, value float64) error {
	payload := map[string]any{
		"name":      name,
		"value":     value,
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	}
	return c.post(ctx, "saveSetting", payload)
}

func (c *Client) endpoint(action string, extra url.Values) string {
	q := url.Values{}
	q.Set("action", action)
	q.Set("token", c.Token)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return strings.TrimRight(c.BaseURL, "/") + "?" + q.Encode()
}

func (c *Client) get(ctx context.Context, action string, extra url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(action, extra), nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", action, err)
	}
	return c.do(req, action)
}

func (c *Client) post(ctx context.Context, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(action, nil), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, action)
	if err != nil {
		return err
	}

	var ack ackResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	if !ack.OK {
		return fmt.Errorf("%s rejected by script endpoint: %s", action, ack.Error)
	}
	return nil
}

func (c *Client) do(req *http.Request, action string) ([]byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s request: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", action, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s request failed with status %d", action, resp.StatusCode)
	}
	return body, nil
}
