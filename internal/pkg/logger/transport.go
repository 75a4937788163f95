package logger

import (
	log "log/slog"
	"net/http"
	"time"
)

// HTTPTransport 记录对象存储等外部 HTTP 调用，不读取请求体（图片等二进制内容）
type HTTPTransport struct {
	Transport http.RoundTripper
	Name      string
}

func NewHTTPTransport(name string, next http.RoundTripper) *HTTPTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &HTTPTransport{Transport: next, Name: name}
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("upstream", t.Name),
		log.String("method", req.Method),
		log.String("path", req.URL.Path),
		log.Int64("content_length", req.ContentLength),
		log.Duration("latency", elapsed),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "HTTP_UPSTREAM_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode))
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		log.ErrorContext(req.Context(), "HTTP_UPSTREAM_FAILED", fields...)
	case elapsed > 500*time.Millisecond:
		log.WarnContext(req.Context(), "HTTP_UPSTREAM_SLOW", fields...)
	default:
		log.DebugContext(req.Context(), "HTTP_UPSTREAM", fields...)
	}

	return resp, nil
}
