package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	errs "github.com/giberode/gib/errors"
)

const maxResponseSize = 8 << 20

// Client talks to the GiB PHP backend. Every method returns typed values or an
// error wrapping errors.Network or errors.Parse.
type Client struct {
	baseURL           *url.URL
	httpClient        *http.Client
	limiter           *rate.Limiter
	logger            *zap.SugaredLogger
	attendanceTimeout time.Duration
}

func NewClient(cfg *Config, logger *zap.SugaredLogger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:           base,
		httpClient:        &http.Client{Timeout: cfg.Timeout},
		limiter:           rate.NewLimiter(limit, burst),
		logger:            logger,
		attendanceTimeout: cfg.AttendanceTimeout,
	}, nil
}

type request struct {
	method      string
	endpoint    string
	query       url.Values
	body        io.Reader
	contentType string
}

type formField struct {
	name  string
	value string
}

func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails early when the next token would arrive after the deadline
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", errs.Network, r.endpoint, err)
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: r.endpoint, RawQuery: r.query.Encode()})
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", errs.Network, r.method, r.endpoint, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", errs.Network, r.endpoint, err)
	}

	c.logger.Debugw("backend request", "method", r.method, "endpoint", r.endpoint, "status", res.StatusCode)
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, errs.HttpError{
			Code: res.StatusCode,
			Err:  fmt.Errorf("%w: %s returned %s", errs.Network, r.endpoint, res.Status),
		}
	}

	return body, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, query: query})
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPost, endpoint, payload)
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s payload: %w", endpoint, err)
	}
	return c.do(ctx, request{
		method:      method,
		endpoint:    endpoint,
		body:        bytes.NewReader(body),
		contentType: "application/json",
	})
}

func (c *Client) postForm(ctx context.Context, endpoint string, values url.Values) ([]byte, error) {
	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		body:        strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *Client) postMultipart(ctx context.Context, endpoint string, fields []formField, files map[string]*File) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("unable to write field %s: %w", f.name, err)
		}
	}
	for field, file := range files {
		if file == nil {
			continue
		}
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("unable to create part %s: %w", field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, fmt.Errorf("unable to write part %s: %w", field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		body:        buf,
		contentType: w.FormDataContentType(),
	})
}

// decode validates body against schema and unmarshals it into a new T
func decode[T any](endpoint string, body []byte, schema *jsonschema.Schema) (*T, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.Parse, endpoint, err)
	}
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errs.Parse, endpoint, err)
		}
	}

	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.Parse, endpoint, err)
	}
	return out, nil
}
