// Package client is a Go client for the chat room HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to one chat server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Participant struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

type messageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// APIError is returned for any non 2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.StatusCode, e.Message)
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Join(ctx context.Context, name string) (Participant, error) {
	var p Participant
	err := c.do(ctx, http.MethodPost, "/participants", "", map[string]string{"name": name}, &p)
	return p, err
}

func (c *Client) Participants(ctx context.Context) ([]Participant, error) {
	var ps []Participant
	err := c.do(ctx, http.MethodGet, "/participants", "", nil, &ps)
	return ps, err
}

// Touch sends a heartbeat for name.
func (c *Client) Touch(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/status", name, nil, nil)
}

func (c *Client) Post(ctx context.Context, from, to, text, kind string) (Message, error) {
	var m Message
	err := c.do(ctx, http.MethodPost, "/messages", from, messageRequest{To: to, Text: text, Type: kind}, &m)
	return m, err
}

// Messages lists what user can read. A zero limit returns everything.
func (c *Client) Messages(ctx context.Context, user string, limit int) ([]Message, error) {
	path := "/messages"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var ms []Message
	err := c.do(ctx, http.MethodGet, path, user, nil, &ms)
	return ms, err
}

func (c *Client) Update(ctx context.Context, user, id, to, text, kind string) (Message, error) {
	var m Message
	err := c.do(ctx, http.MethodPut, "/messages/"+url.PathEscape(id), user,
		messageRequest{To: to, Text: text, Type: kind}, &m)
	return m, err
}

func (c *Client) Delete(ctx context.Context, user, id string) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+url.PathEscape(id), user, nil, nil)
}

// do performs an HTTP request and decodes a JSON answer into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path, user string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("User", user)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
