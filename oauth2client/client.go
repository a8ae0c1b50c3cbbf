package oauth2client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/swiftsoftwaregroup/swift-moltin-client-go/logging"
	"github.com/swiftsoftwaregroup/swift-moltin-client-go/models"
)

// APIClient is a client for making authenticated calls to the Moltin API.
// It obtains and caches bearer tokens and normalizes API responses.
type APIClient struct {
	config     Config
	creds      Credentials
	apiURL     string
	session    string
	httpClient *http.Client
	auth       *AuthClient
	tokens     *TokenCache
	codec      *Codec
	logger     logging.Logger
}

// NewAPIClient creates a new APIClient for the endpoints and credentials in
// config.
//
// Parameters:
//   - config: endpoints, key pair and timeouts. Start from DefaultConfig or
//     LoadConfig and fill in the keys.
//   - opts: optional HTTP client, logger, codec or shared token cache.
//
// Returns:
//   - *APIClient: A new instance of APIClient.
//   - error: ErrInvalidArgument if config is incomplete.
//
// Example:
//
//	config := oauth2client.DefaultConfig()
//	config.PublicKey = "your_public_key"
//	config.SecretKey = "your_secret_key"
//	client, err := oauth2client.NewAPIClient(config)
func NewAPIClient(config Config, opts ...ClientOption) (*APIClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &APIClient{
		config:  config,
		creds:   config.Credentials(),
		apiURL:  strings.TrimRight(config.BaseURL, "/") + "/" + strings.Trim(config.Version, "/") + "/",
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	if client.codec == nil {
		client.codec = NewCodec(DefaultCodecConfig())
	}
	if client.logger == nil {
		client.logger = logging.Nop()
	}
	if client.tokens == nil {
		client.tokens = NewTokenCache(config.TokenLifetime, config.TokenTimeout)
	}
	client.auth = NewAuthClient(client.httpClient, client.codec)
	client.logger = client.logger.With("component", "oauth2client", "session", client.session)

	return client, nil
}

// Request makes an API call and returns the decoded JSON document.
//
// Parameters:
//   - method: HttpGet, HttpPost, HttpPut or HttpDelete
//   - path: The resource path, appended to BaseURL/Version/
//   - body: The request body for POST and PUT. Can be nil, []byte or
//     json.RawMessage (sent as JSON), url.Values (sent as a form), or any
//     JSON-serializable value. GET and DELETE take no body.
//   - opts: WithoutAuth, WithQuery, WithHeader
//
// Returns:
//   - interface{}: the full decoded document; see Result for the "result" field
//   - error: ErrInvalidArgument, *AuthenticationError, *APIError, *HTTPError,
//     *DecodeError, or an error matching ErrTimeout
//
// Request never retries. A 401 response drops the cached token so the next
// call authenticates again.
//
// Example:
//
//	doc, err := client.Request(ctx, oauth2client.HttpGet, "products", nil,
//		oauth2client.WithQuery(map[string]string{"limit": "10"}))
func (c *APIClient) Request(ctx context.Context, method HttpMethod, path string, body interface{}, opts ...RequestOption) (interface{}, error) {
	if path == "" {
		return nil, invalidArgument("path is empty")
	}
	if !method.valid() {
		return nil, invalidArgument("unsupported method %q", string(method))
	}
	if body != nil && !method.hasBody() {
		return nil, invalidArgument("%s requests cannot carry a body", method)
	}

	ro := requestOptions{auth: true}
	for _, opt := range opts {
		opt(&ro)
	}

	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	bodyReader, contentType, err := c.encodeBody(body)
	if err != nil {
		return nil, err
	}

	var token string
	if ro.auth {
		tok, err := c.tokens.GetToken(ctx, c.creds, c.fetchToken)
		if err != nil {
			c.logger.Warn(ctx, "failed to get valid token", "error", err)
			return nil, err
		}
		token = tok.Value
	}

	req, err := http.NewRequestWithContext(ctx, string(method), c.resolve(path, ro.query), bodyReader)
	if err != nil {
		return nil, invalidArgument("failed to create request: %v", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Moltin-Session", c.session)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range ro.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport("failed to send request", err)
	}
	defer resp.Body.Close()

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &DecodeError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to create gzip reader: %w", err)}
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	responseBody, err := io.ReadAll(reader)
	if err != nil {
		return nil, classifyTransport("failed to read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && ro.auth {
		c.tokens.Invalidate(c.creds)
	}

	doc, err := decodeResponse(c.codec, resp.StatusCode, responseBody)
	if err != nil {
		c.logger.Warn(ctx, "API call failed", "method", string(method), "path", path, "status", resp.StatusCode, "error", err)
		return nil, err
	}
	return doc, nil
}

// Get queries path with HttpGet.
func (c *APIClient) Get(ctx context.Context, path string, opts ...RequestOption) (interface{}, error) {
	return c.Request(ctx, HttpGet, path, nil, opts...)
}

// Post sends body to path with HttpPost.
func (c *APIClient) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (interface{}, error) {
	return c.Request(ctx, HttpPost, path, body, opts...)
}

// Put sends body to path with HttpPut.
func (c *APIClient) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (interface{}, error) {
	return c.Request(ctx, HttpPut, path, body, opts...)
}

// Delete removes the resource at path.
func (c *APIClient) Delete(ctx context.Context, path string, opts ...RequestOption) (interface{}, error) {
	return c.Request(ctx, HttpDelete, path, nil, opts...)
}

// Checkout validates req, converts it to the checkout wire shape and posts
// it to the cart's checkout endpoint.
func (c *APIClient) Checkout(ctx context.Context, req models.CheckoutRequest, opts ...RequestOption) (interface{}, error) {
	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	wire := models.ToWireShape(req)
	c.logger.Debug(ctx, "posting checkout", "cart_id", req.CartID, "variant", wire.Variant().String())

	return c.Request(ctx, HttpPost, "carts/"+url.PathEscape(req.CartID)+"/checkout", wire, opts...)
}

func (c *APIClient) fetchToken(ctx context.Context) (Token, error) {
	c.logger.Debug(ctx, "fetching access token", "auth_url", c.config.AuthURL)

	tok, err := c.auth.FetchToken(ctx, c.creds, c.config.AuthURL)
	if err != nil {
		c.logger.Error(ctx, "failed to fetch access token", "error", err)
		return Token{}, err
	}

	c.logger.Debug(ctx, "access token fetched", "expires_at", tok.ExpiresAt)
	return tok, nil
}

func (c *APIClient) encodeBody(body interface{}) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case json.RawMessage:
		return bytes.NewReader(v), "application/json", nil
	case []byte:
		return bytes.NewReader(v), "application/json", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	default:
		jsonBody, err := c.codec.Marshal(v)
		if err != nil {
			return nil, "", invalidArgument("failed to marshal request body: %v", err)
		}
		return bytes.NewReader(jsonBody), "application/json", nil
	}
}

func (c *APIClient) resolve(path string, query map[string]string) string {
	u := c.apiURL + strings.TrimLeft(path, "/")
	if len(query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + normalizeEscaped(query)
}
