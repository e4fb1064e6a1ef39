package strategy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

const defaultHTTPTimeout = 30 * time.Second

// httpExecutor issues an HTTP request and compares status plus an optional
// body regex. Uses stdlib net/http with a bounded client: the
// teacher and the rest of the pack show no preference for an HTTP-client
// library over stdlib for simple request/response assertions, so none is
// introduced here (see DESIGN.md).
type httpExecutor struct{}

func (e *httpExecutor) Execute(ctx context.Context, _ ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	if strat.HTTP == nil {
		return ExecResult{}, fmt.Errorf("http strategy missing its payload")
	}
	h := strat.HTTP

	timeout := parseTimeout(strat.Common.Timeout, defaultHTTPTimeout)
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := h.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(reqCtx, method, h.URL, nil)
	if err != nil {
		return ExecResult{}, fmt.Errorf("build request: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return ExecResult{Success: false, Duration: duration.Seconds(), Details: err.Error()}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ExecResult{}, fmt.Errorf("read response body: %w", err)
	}

	expectStatus := h.ExpectStatus
	if expectStatus == 0 {
		expectStatus = http.StatusOK
	}
	if resp.StatusCode != expectStatus {
		return ExecResult{
			Success:  false,
			Output:   string(body),
			Duration: duration.Seconds(),
			Details:  fmt.Sprintf("expected status %d, got %d", expectStatus, resp.StatusCode),
		}, nil
	}

	if h.BodyPattern != "" {
		re, err := regexp.Compile(h.BodyPattern)
		if err != nil {
			return ExecResult{}, fmt.Errorf("compile bodyPattern: %w", err)
		}
		if !re.Match(body) {
			return ExecResult{
				Success:  false,
				Output:   string(body),
				Duration: duration.Seconds(),
				Details:  "body did not match bodyPattern",
			}, nil
		}
	}

	return ExecResult{Success: true, Output: string(body), Duration: duration.Seconds()}, nil
}
