// Package smoke drives a running store over HTTP the way a client would:
// register, log in, browse, order, read history and probe an admin route.
package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Password is used for the throwaway account created by Run.
const Password = "testpassword123"

// Client talks to one store instance.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Out     io.Writer
}

// Run executes the smoke flow and returns the first failed step.  Progress
// is written to c.Out.
func (c *Client) Run(ctx context.Context) error {
	email := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "@example.com"
	c.logf("test user: %s", email)

	// 1. register
	status, _, err := c.call(ctx, http.MethodPost, "/users", "", jsonBody(map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   Password,
	}), nil)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("register: status %d", status)
	}
	c.logf("register: ok")

	// 2. login with the OAuth2 password form
	form := url.Values{"username": {email}, "password": {Password}}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	status, _, err = c.call(ctx, http.MethodPost, "/users/login", "", formBody(form), &tok)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK || tok.AccessToken == "" {
		return fmt.Errorf("login: status %d", status)
	}
	c.logf("login: ok")

	// 3. public product list
	var products []struct {
		ProductID uint64 `json:"product_id"`
		Name      string `json:"name"`
	}
	if _, _, err := c.call(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("list products: catalog is empty, run seed first")
	}
	c.logf("products: %d found, ordering %q", len(products), products[0].Name)

	// 4. place an order
	status, respBody, err := c.call(ctx, http.MethodPost, "/orders", tok.AccessToken,
		jsonBody(map[string]any{"product_id": products[0].ProductID, "quantity": 1}), nil)
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("place order: status %d: %s", status, respBody)
	}
	c.logf("order: ok")

	// 5. order history
	var history []json.RawMessage
	status, _, err = c.call(ctx, http.MethodGet, "/orders", tok.AccessToken, nil, &history)
	if err != nil {
		return fmt.Errorf("order history: %w", err)
	}
	if status != http.StatusOK || len(history) == 0 {
		return fmt.Errorf("order history: status %d with %d lines", status, len(history))
	}
	c.logf("history: %d lines", len(history))

	// 6. an admin route must refuse a customer
	status, _, err = c.call(ctx, http.MethodGet, "/statistics/users", tok.AccessToken, nil, nil)
	if err != nil {
		return fmt.Errorf("admin probe: %w", err)
	}
	if status != http.StatusForbidden {
		return fmt.Errorf("admin probe: expected 403, got %d", status)
	}
	c.logf("admin probe: correctly blocked")
	return nil
}

type body struct {
	contentType string
	r           io.Reader
}

func jsonBody(v any) *body {
	b, _ := json.Marshal(v)
	return &body{contentType: "application/json", r: bytes.NewReader(b)}
}

func formBody(v url.Values) *body {
	return &body{contentType: "application/x-www-form-urlencoded", r: strings.NewReader(v.Encode())}
}

// call sends one request and decodes a 2xx JSON response into out when
// out is non-nil.  It returns the status and the raw body.
func (c *Client) call(ctx context.Context, method, path, token string, in *body, out any) (int, []byte, error) {
	var r io.Reader
	if in != nil {
		r = in.r
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, r)
	if err != nil {
		return 0, nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", in.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if out != nil && resp.StatusCode/100 == 2 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, raw, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) logf(format string, args ...any) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, format+"\n", args...)
	}
}
