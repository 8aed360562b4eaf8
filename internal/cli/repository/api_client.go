package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/pkg/httputil"
)

const requestIDHeader = "X-Request-ID"

// APIClientOptions tunes the HTTP behaviour of an APIClient.
type APIClientOptions struct {
	// Timeout bounds the wait for response headers only, so long downloads
	// are never cut off. Zero waits forever.
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       zerolog.Logger
}

// APIClient talks to the repackaging server. Idempotent GETs are retried;
// uploads and job submissions are sent exactly once.
type APIClient struct {
	baseURL string
	reads   *http.Client
	writes  *http.Client
	log     zerolog.Logger
}

func NewAPIClient(baseURL string, opts APIClientOptions) *APIClient {
	transport := cleanhttp.DefaultPooledTransport()
	transport.ResponseHeaderTimeout = opts.Timeout
	plain := &http.Client{Transport: transport}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: transport}
	retryClient.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.Logger = retryLogger{log: opts.Logger}

	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		reads:   retryClient.StandardClient(),
		writes:  plain,
		log:     opts.Logger,
	}
}

func (c *APIClient) GetStatus(ctx context.Context) (entity.ServerStatus, error) {
	var status entity.ServerStatus
	err := c.getJSON(ctx, "/api/status", &status)
	return status, err
}

func (c *APIClient) GetCapabilities(ctx context.Context) (entity.SystemCapabilities, error) {
	var caps entity.SystemCapabilities
	err := c.getJSON(ctx, "/api/capabilities", &caps)
	return caps, err
}

// Upload streams content as the multipart field "file".
func (c *APIClient) Upload(ctx context.Context, name string, content io.Reader) (entity.JobResult, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	request, err := c.newRequest(ctx, http.MethodPost, "/api/upload", pr)
	if err != nil {
		pr.Close()
		return entity.JobResult{}, err
	}
	request.Header.Set("Content-Type", form.FormDataContentType())
	return c.doJobResult(c.writes, request)
}

func (c *APIClient) Repackage(ctx context.Context, jobRequest entity.JobRequest) (entity.JobResult, error) {
	body, err := json.Marshal(jobRequest)
	if err != nil {
		return entity.JobResult{}, err
	}
	request, err := c.newRequest(ctx, http.MethodPost, "/api/repackage", strings.NewReader(string(body)))
	if err != nil {
		return entity.JobResult{}, err
	}
	request.Header.Set("Content-Type", "application/json")
	return c.doJobResult(c.writes, request)
}

// Download returns the artifact body. The caller closes it.
func (c *APIClient) Download(ctx context.Context, fileName string) (io.ReadCloser, error) {
	request, err := c.newRequest(ctx, http.MethodGet, "/api/download/"+url.PathEscape(fileName), nil)
	if err != nil {
		return nil, err
	}
	response, err := c.reads.Do(request)
	if err != nil {
		return nil, err
	}
	if err := httputil.CheckResponse(response); err != nil {
		response.Body.Close()
		return nil, fmt.Errorf("download %s: %w", fileName, err)
	}
	return response.Body, nil
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set(requestIDHeader, uuid.New().String())
	return request, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, target interface{}) error {
	request, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	response, err := c.reads.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if err := httputil.CheckResponse(response); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

func (c *APIClient) doJobResult(client *http.Client, request *http.Request) (entity.JobResult, error) {
	var result entity.JobResult
	c.log.Debug().
		Str("method", request.Method).
		Str("path", request.URL.Path).
		Str("request_id", request.Header.Get(requestIDHeader)).
		Msg("sending request")

	response, err := client.Do(request)
	if err != nil {
		return result, err
	}
	defer response.Body.Close()
	if err := httputil.CheckResponse(response); err != nil {
		return result, fmt.Errorf("%s %s: %w", request.Method, request.URL.Path, err)
	}
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("%s %s: decode: %w", request.Method, request.URL.Path, err)
	}
	return result, nil
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger.
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
