package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrTimeout       = errors.New("llm: request timed out")
	ErrQuota         = errors.New("llm: quota exceeded or rate limited")
	ErrUpstream      = errors.New("llm: upstream error")
	ErrEmptyResponse = errors.New("llm: empty response")
	ErrDisabled      = errors.New("llm: client not configured")
)

// classify 把 go-openai 和传输层的错误归入上面的哨兵错误，保留原始错误链。
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Type == "insufficient_quota" {
			return fmt.Errorf("%w: %w", ErrQuota, err)
		}
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrQuota, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// Reason 返回用于日志和统计的简短错误分类。
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrDisabled):
		return "disabled"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrQuota):
		return "quota"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	default:
		return "upstream"
	}
}
