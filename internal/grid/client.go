package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fieldworks/diary-service/internal/model"
)

// APIError carries a backend error response; Message is surfaced to the
// user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is the HTTP implementation of Gateway against the diary REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError extracts the backend's human-readable message so it can be
// shown to the user unchanged.
func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			msg = body.Error
		} else {
			msg = body.Message
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func (c *Client) ListBookings(ctx context.Context, date string, engineerID int64) ([]*model.DiaryEntry, error) {
	q := url.Values{"date": {date}}
	if engineerID != 0 {
		q.Set("engineerId", strconv.FormatInt(engineerID, 10))
	}
	var entries []*model.DiaryEntry
	if err := c.do(ctx, http.MethodGet, "/diary/entries", q, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) ListBookingsForCall(ctx context.Context, callID int64) ([]*model.DiaryEntry, error) {
	path := fmt.Sprintf("/diary/call-log/%d/assignments", callID)
	var entries []*model.DiaryEntry
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CheckConflict(ctx context.Context, query ConflictQuery) (bool, error) {
	q := url.Values{
		"engineer":  {strconv.FormatInt(query.EngineerID, 10)},
		"date":      {query.Date},
		"startTime": {query.StartTime},
		"endTime":   {query.EndTime},
	}
	if query.ExcludeID != 0 {
		q.Set("excludeId", strconv.FormatInt(query.ExcludeID, 10))
	}
	var out struct {
		HasConflict bool `json:"hasConflict"`
	}
	if err := c.do(ctx, http.MethodGet, "/diary/check-conflict", q, nil, &out); err != nil {
		return false, err
	}
	return out.HasConflict, nil
}

func (c *Client) CreateBooking(ctx context.Context, userID int64, payload BookingPayload) (*model.DiaryEntry, error) {
	path := fmt.Sprintf("/diary/entries/%d", userID)
	var entry model.DiaryEntry
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id int64, payload BookingPayload) (*model.DiaryEntry, error) {
	path := fmt.Sprintf("/diary/entries/%d", id)
	var entry model.DiaryEntry
	if err := c.do(ctx, http.MethodPut, path, nil, payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id, initialEngineerID, userID int64) error {
	path := fmt.Sprintf("/diary/entries/%d", id)
	body := map[string]int64{
		"initialEngineerId": initialEngineerID,
		"userId":            userID,
	}
	return c.do(ctx, http.MethodDelete, path, nil, body, nil)
}
