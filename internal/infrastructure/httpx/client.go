package httpx

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxErrorBody giới hạn body được giữ lại trong RequestError
const maxErrorBody = 4 << 10

// NewClient constructs a tuned http.Client shared by the REST clients.
func NewClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// RequestError is returned for any non-2xx upstream response.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ReadBody đọc toàn bộ body và đóng nó.
// Status ngoài 2xx → *RequestError kèm body text.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(body)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		reqErr := &RequestError{StatusCode: resp.StatusCode, Body: text}
		if resp.Request != nil {
			reqErr.Method = resp.Request.Method
			reqErr.URL = redactURL(resp.Request)
		}
		return nil, reqErr
	}

	return body, nil
}

func redactURL(req *http.Request) string {
	if req.URL == nil {
		return ""
	}
	u := *req.URL
	u.User = nil
	return u.String()
}
