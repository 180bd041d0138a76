package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/estatepilot/estatepilot/internal/pkg/env"
)

const defaultAirtableAPIBaseURL = "https://api.airtable.com/v0"

var (
	// ErrRateLimited is returned when Airtable answers 429.
	ErrRateLimited = errors.New("airtable: rate limited")
	// ErrQuotaExhausted is returned when Airtable rejects the request for
	// billing/plan reasons (402 or 403).
	ErrQuotaExhausted = errors.New("airtable: plan quota exhausted")
	// ErrRecordNotFound is returned when the remote record does not exist.
	ErrRecordNotFound = errors.New("airtable: record not found")
)

// Client is a minimal Airtable REST client scoped to one base.
type Client struct {
	BaseID string
	Token  string

	APIBaseURL string

	HTTPClient *http.Client
}

// Record is one Airtable record: remote id plus its field map.
type Record struct {
	ID          string                 `json:"id,omitempty"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedTime string                 `json:"createdTime,omitempty"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// NewClientFromEnv builds a client from AIRTABLE_* environment variables.
func NewClientFromEnv() *Client {
	return &Client{
		BaseID:     strings.TrimSpace(env.GetEnv("AIRTABLE_BASE_ID", "")),
		Token:      strings.TrimSpace(env.GetEnv("AIRTABLE_API_TOKEN", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("AIRTABLE_API_BASE_URL", defaultAirtableAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) tableURL(table string) (string, error) {
	if strings.TrimSpace(c.BaseID) == "" {
		return "", errors.New("AIRTABLE_BASE_ID is not configured")
	}
	if strings.TrimSpace(table) == "" {
		return "", errors.New("airtable table name is required")
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.APIBaseURL, "/"), c.BaseID, url.PathEscape(table)), nil
}

// ListRecords fetches all records of a table, following pagination offsets.
func (c *Client) ListRecords(ctx context.Context, table string) ([]Record, error) {
	base, err := c.tableURL(table)
	if err != nil {
		return nil, err
	}

	var all []Record
	offset := ""
	for {
		u, err := url.Parse(base)
		if err != nil {
			return nil, err
		}
		if offset != "" {
			q := u.Query()
			q.Set("offset", offset)
			u.RawQuery = q.Encode()
		}

		var page listResponse
		if err := c.doJSON(ctx, http.MethodGet, u.String(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// CreateRecord creates one record and returns it with its remote id.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]interface{}) (*Record, error) {
	base, err := c.tableURL(table)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"fields": fields}
	var out Record
	if err := c.doJSON(ctx, http.MethodPost, base, payload, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("airtable: create returned empty record id")
	}
	return &out, nil
}

// UpdateRecord patches the fields of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields map[string]interface{}) (*Record, error) {
	base, err := c.tableURL(table)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(recordID) == "" {
		return nil, errors.New("airtable record id is required")
	}

	payload := map[string]interface{}{"fields": fields}
	var out Record
	if err := c.doJSON(ctx, http.MethodPatch, base+"/"+url.PathEscape(recordID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload, out interface{}) error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("AIRTABLE_API_TOKEN is not configured")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusForbidden:
		return ErrQuotaExhausted
	case resp.StatusCode == http.StatusNotFound:
		return ErrRecordNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("airtable request failed: status=%d body=%s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
