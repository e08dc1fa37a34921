package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// ChunkParams identifies one chunk of an upload session.
type ChunkParams struct {
	SessionID   string
	Index       int
	TotalChunks int
	Filename    string
}

type chunkResponse struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// Client talks to the share backend.
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	logger     log.Logger
}

// NewHTTPClient returns the retrying HTTP client used for backend calls.
// Failed responses are handed back to the caller instead of being turned into a generic error,
// so the backend's error body stays readable.
func NewHTTPClient(logger log.Logger, retryMax int) *retryablehttp.Client {
	client := retryhttp.NewClient(logger)
	client.RetryMax = retryMax
	client.CheckRetry = createCustomRetryFunction(logger)
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return client
}

// NewClient ...
func NewClient(httpClient *retryablehttp.Client, baseURL string, logger log.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// UploadChunk posts one chunk as a raw octet-stream body.
// A non-2xx response is returned as *StatusError, a 2xx response carrying a truthy
// error field as *ErrorResponse.
func (c *Client) UploadChunk(ctx context.Context, params ChunkParams, data []byte) error {
	query := url.Values{}
	query.Set("uuid", params.SessionID)
	query.Set("chunkIndex", strconv.Itoa(params.Index))
	query.Set("totalChunks", strconv.Itoa(params.TotalChunks))
	query.Set("filename", params.Filename)
	uploadURL := fmt.Sprintf("%s/upload?%s", c.baseURL, query.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, uploadURL, data)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(data))

	dump, err := httputil.DumpRequest(req.Request, false)
	if err != nil {
		c.logger.Warnf("error while dumping request: %s", err)
	}
	c.logger.Debugf("Chunk request dump: %s", string(dump))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			c.logger.Printf(err.Error())
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debugf("Chunk response: HTTP %d %s", resp.StatusCode, string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, body)
	}

	var response chunkResponse
	if err := json.Unmarshal(body, &response); err != nil {
		// The backend is only required to answer 2xx on success, a non-JSON body is accepted.
		c.logger.Debugf("Ignoring non-JSON chunk response: %s", err)
		return nil
	}
	if msg := errorText(response.Error); msg != "" {
		return &ErrorResponse{Message: msg}
	}
	return nil
}

// DownloadURL is the public link a completed session is served under.
func (c *Client) DownloadURL(sessionID string) string {
	return fmt.Sprintf("%s/download/%s", c.baseURL, url.PathEscape(sessionID))
}

// ResolveDownloadURL accepts either a full download link or a bare session ID.
func (c *Client) ResolveDownloadURL(ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	return c.DownloadURL(ref)
}

func createCustomRetryFunction(logger log.Logger) func(context.Context, *http.Response, error) (bool, error) {
	return func(ctx context.Context, resp *http.Response, reqErr error) (bool, error) {
		retry, err := retryablehttp.DefaultRetryPolicy(ctx, resp, reqErr)
		logger.Debugf("CheckRetry: retry=%v ; err=%+v ; reqErr=%+v", retry, err, reqErr)
		return retry, err
	}
}

func newStatusError(code int, body []byte) *StatusError {
	statusErr := &StatusError{StatusCode: code, Body: string(bytes.TrimSpace(body))}

	var response chunkResponse
	if err := json.Unmarshal(body, &response); err == nil {
		statusErr.ServerMessage = errorText(response.Error)
	}
	return statusErr
}

// errorText renders the error field of a backend response.
// Absent, null, false, zero and empty values count as no error.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		if v == 0 {
			return ""
		}
		return string(raw)
	default:
		return string(bytes.TrimSpace(raw))
	}
}
