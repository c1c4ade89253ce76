package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	clientOnce sync.Once
	client     *retryablehttp.Client
)

func httpClient() *retryablehttp.Client {
	clientOnce.Do(func() {
		client = retryablehttp.NewClient()
		client.RetryMax = 2
		client.HTTPClient.Timeout = 12 * time.Second
		client.Logger = nil
	})
	return client
}

// GetBytes fetches url and returns the response body. Non-2xx responses are
// errors.
func GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
