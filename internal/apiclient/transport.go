package apiclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

// loggingTransport logs one line per outgoing request, at a level picked from
// the outcome.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	l := t.logger
	if l == nil {
		l = logging.FromContext(req.Context())
	}
	l = l.With(
		"method", req.Method,
		"url", req.URL.Redacted(),
		"request_id", req.Header.Get(echo.HeaderXRequestID),
	)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)

	switch {
	case err != nil:
		l.Error("request completed", "duration_ms", dur.Milliseconds(), "error", err.Error())
	case resp.StatusCode >= 500:
		l.Error("request completed", "status", resp.StatusCode, "duration_ms", dur.Milliseconds())
	case resp.StatusCode >= 400:
		l.Warn("request completed", "status", resp.StatusCode, "duration_ms", dur.Milliseconds())
	default:
		l.Info("request completed", "status", resp.StatusCode, "duration_ms", dur.Milliseconds(), "bytes", resp.ContentLength)
	}
	return resp, err
}
