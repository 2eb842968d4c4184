package main

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

	"github.com/2beens/runcal/internal/auth"
)

const userAgent = "runcal-import/1.0"

type uploadResult struct {
	Runner string `json:"runner"`
	Year   int    `json:"year"`
	Months []int  `json:"months"`
}

// importClient talks to the runcal service as a coach.
type importClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func newImportClient(baseURL string, httpClient *http.Client) *importClient {
	return &importClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *importClient) login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(auth.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/a/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("login: empty token")
	}

	c.token = resp.Token
	return nil
}

func (c *importClient) upload(ctx context.Context, runnerID string, year int, doc []byte) (*uploadResult, error) {
	target := fmt.Sprintf("%s/coach/schedules/%s?%s",
		c.baseURL,
		strconv.Itoa(year),
		url.Values{"runner": []string{runnerID}}.Encode(),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result uploadResult
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	return &result, nil
}

func (c *importClient) do(req *http.Request, v any) error {
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set(auth.TokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return json.Unmarshal(respBody, v)
}
