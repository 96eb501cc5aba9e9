// Package weather 调用 weatherapi.com 的 forecast 接口。
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"farm-assist-go/internal/config"
)

// DefaultLocation 让上游按请求 IP 推断地点。
const DefaultLocation = "auto:ip"

var ErrUpstream = errors.New("weather: upstream request failed")

// Client 获取指定地点未来三天的天气原始数据。
type Client interface {
	Forecast(ctx context.Context, location string) (json.RawMessage, error)
}

type weatherAPIClient struct {
	cfg    config.WeatherConfig
	client *http.Client
}

func NewClient(cfg config.WeatherConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &weatherAPIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *weatherAPIClient) Forecast(ctx context.Context, location string) (json.RawMessage, error) {
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("q", location)
	q.Set("days", "3")
	q.Set("aqi", "no")
	q.Set("alerts", "no")
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/forecast.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, redactURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s, body: %s", ErrUpstream, resp.Status, string(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrUpstream)
	}
	return json.RawMessage(body), nil
}

// redactURL 去掉 *url.Error 中的 key 参数，避免密钥进入日志。
func redactURL(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	redacted := "(redacted)"
	if u, perr := url.Parse(uerr.URL); perr == nil {
		q := u.Query()
		q.Del("key")
		u.RawQuery = q.Encode()
		redacted = u.String()
	}
	return &url.Error{Op: uerr.Op, URL: redacted, Err: uerr.Err}
}
