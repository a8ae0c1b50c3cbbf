package oauth2client

import (
	"net/http"

	"github.com/swiftsoftwaregroup/swift-moltin-client-go/logging"
)

// ClientOption customizes an APIClient.
type ClientOption func(*APIClient)

// WithHTTPClient sets the HTTP client used for token and API calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *APIClient) { c.httpClient = hc }
}

// WithLogger sets the client's logger. The default discards output.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *APIClient) { c.logger = l }
}

// WithCodec replaces the default JSON codec.
func WithCodec(codec *Codec) ClientOption {
	return func(c *APIClient) { c.codec = codec }
}

// WithTokenCache shares a token cache between clients, so clients with the
// same credentials fetch a single token between them.
func WithTokenCache(tc *TokenCache) ClientOption {
	return func(c *APIClient) { c.tokens = tc }
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	auth    bool
	query   map[string]string
	headers map[string]string
}

// WithoutAuth sends the request without an Authorization header.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) { o.auth = false }
}

// WithQuery appends params to the request URL in normalized order.
func WithQuery(params map[string]string) RequestOption {
	return func(o *requestOptions) { o.query = params }
}

// WithHeader sets an additional request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}
