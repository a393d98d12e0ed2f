package remote

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type loggingTransport struct {
	logger *zap.Logger
	next   http.RoundTripper
}

func newLoggingTransport(logger *zap.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{logger: logger, next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	t.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", duration),
	)
	return res, nil
}
