package oidc

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/jrschumacher/jwt-debugger/internal/logger"
)

// NewHTTPClient builds the client used for discovery and JWKS requests.
// With retries > 0, transport errors are retried with backoff; HTTP status
// codes never are.
func NewHTTPClient(timeout time.Duration, retries int) *http.Client {
	base := cleanhttp.DefaultPooledClient()
	base.Timeout = timeout
	if retries <= 0 {
		return base
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.RetryMax = retries
	rc.Logger = logger.Logger()
	rc.CheckRetry = retryTransportErrors
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

func retryTransportErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil {
		return false, ctx.Err()
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
