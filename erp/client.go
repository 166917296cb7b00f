package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"stroyassist.GO/config"
)

// Client is a thin HTTP client for the 1C catalog endpoints. It does not
// retry: a failed call is a failed batch, and the caller decides whether
// to continue with the next one.
type Client struct {
	baseURL   string
	username  string
	password  string
	batchSize int
	http      *http.Client
	log       *logrus.Logger
}

func NewClient(cfg config.ERPConfig, log *logrus.Logger) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		username:  cfg.Username,
		password:  cfg.Password,
		batchSize: cfg.BatchSize,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

// BatchSize returns the maximum number of codes per GetDetailedItems call.
func (c *Client) BatchSize() int {
	return c.batchSize
}

// ListGroups fetches the full group tree in one round trip.
func (c *Client) ListGroups(ctx context.Context) (*GroupTree, error) {
	raw, err := c.do(ctx, http.MethodGet, "GetGroups", nil)
	if err != nil {
		return nil, err
	}
	var tree GroupTree
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("erp: decode GetGroups: %w", err)
	}
	return &tree, nil
}

// GetItems fetches lightweight records (code, name, price, stock).
func (c *Client) GetItems(ctx context.Context, codes []string) ([]ShortItem, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	raw, err := c.do(ctx, http.MethodPost, "GetItems", map[string][]string{"items": codes})
	if err != nil {
		return nil, err
	}
	items, err := decodeItems[ShortItem](raw)
	if err != nil {
		return nil, fmt.Errorf("erp: decode GetItems: %w", err)
	}
	return items, nil
}

// GetDetailedItems fetches one batch of detailed records. Callers chunk
// larger code sets to BatchSize and pace the calls themselves.
func (c *Client) GetDetailedItems(ctx context.Context, codes []string) ([]DetailedItem, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	if len(codes) > c.batchSize {
		return nil, fmt.Errorf("erp: batch of %d codes exceeds batch size %d", len(codes), c.batchSize)
	}
	raw, err := c.do(ctx, http.MethodPost, "GetDetailedItems", map[string][]string{"items": codes})
	if err != nil {
		return nil, err
	}
	items, err := decodeItems[DetailedItem](raw)
	if err != nil {
		return nil, fmt.Errorf("erp: decode GetDetailedItems: %w", err)
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, rd)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erp: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("erp: %s returned status %d", endpoint, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erp: read %s response: %w", endpoint, err)
	}
	return raw, nil
}
