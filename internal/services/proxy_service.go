package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ProxyResult is the tagged outcome of a forwarded call. Exactly one of
// JSON and Raw is meaningful: JSON when the upstream body parsed, Raw
// otherwise.
type ProxyResult struct {
	StatusCode int
	JSON       any
	Raw        string
}

// IsJSON reports whether the upstream body parsed as JSON.
func (r *ProxyResult) IsJSON() bool {
	return r.JSON != nil
}

// PythonProxy forwards requests verbatim to the inference service and
// relays its responses. It performs no shape validation beyond JSON
// parseability and never retries.
type PythonProxy struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
}

func NewPythonProxy(baseURL string, timeout time.Duration, logger *zap.Logger) *PythonProxy {
	return &PythonProxy{
		http:    resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With(zap.String("service", "python_proxy")),
	}
}

// ForwardJSON re-serializes body and posts it to <base>+<endpoint>.
func (p *PythonProxy) ForwardJSON(ctx context.Context, endpoint string, body any) (*ProxyResult, error) {
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(p.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("python backend unreachable: %w", err)
	}
	return p.toResult(endpoint, resp), nil
}

// ForwardMultipart rebuilds a multipart form from the uploaded file plus
// any extra form fields and posts it to <base>+<endpoint>.
func (p *PythonProxy) ForwardMultipart(ctx context.Context, endpoint, fileField, fileName string, file io.Reader, fields map[string]string) (*ProxyResult, error) {
	req := p.http.R().
		SetContext(ctx).
		SetFileReader(fileField, fileName, file)
	if len(fields) > 0 {
		req.SetFormData(fields)
	}

	resp, err := req.Post(p.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("python backend unreachable: %w", err)
	}
	return p.toResult(endpoint, resp), nil
}

func (p *PythonProxy) toResult(endpoint string, resp *resty.Response) *ProxyResult {
	result := &ProxyResult{StatusCode: resp.StatusCode()}

	var parsed any
	if err := json.Unmarshal(resp.Body(), &parsed); err == nil && parsed != nil {
		result.JSON = parsed
	} else {
		result.Raw = resp.String()
	}

	p.logger.Info("Forwarded request to python backend",
		zap.String("endpoint", endpoint),
		zap.Int("status", result.StatusCode),
		zap.Bool("json", result.IsJSON()))
	return result
}
