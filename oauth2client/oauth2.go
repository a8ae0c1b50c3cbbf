package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// AuthClient performs the client-credentials exchange against the token
// endpoint. It holds no token state; caching is TokenCache's job.
type AuthClient struct {
	httpClient *http.Client
	codec      *Codec
}

// NewAuthClient returns an AuthClient using hc, or http.DefaultClient if hc
// is nil, and codec, or the default codec if codec is nil.
func NewAuthClient(hc *http.Client, codec *Codec) *AuthClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	if codec == nil {
		codec = NewCodec(DefaultCodecConfig())
	}
	return &AuthClient{httpClient: hc, codec: codec}
}

// FetchToken exchanges creds for a bearer token at authURL.
//
// The returned token carries the server-reported expiry converted to local
// time, or a zero ExpiresAt when the server did not report one. Every
// failure is an *AuthenticationError; deadline failures also match
// ErrTimeout.
func (a *AuthClient) FetchToken(ctx context.Context, creds Credentials, authURL string) (Token, error) {
	if authURL == "" {
		return Token{}, invalidArgument("auth url is empty")
	}

	form := normalizeEscaped(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     creds.PublicKey,
		"client_secret": creds.SecretKey,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form))
	if err != nil {
		return Token{}, &AuthenticationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Token{}, &AuthenticationError{Err: classifyTransport("failed to send request", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, &AuthenticationError{StatusCode: resp.StatusCode, Err: classifyTransport("failed to read response body", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, &AuthenticationError{StatusCode: resp.StatusCode, Err: a.describeFailure(body)}
	}

	return a.parseToken(resp.StatusCode, body)
}

func (a *AuthClient) parseToken(status int, body []byte) (Token, error) {
	if !a.codec.Valid(body) {
		return Token{}, &AuthenticationError{StatusCode: status, Err: errors.New("token response is not valid JSON")}
	}

	access := a.codec.get(body, "access_token")
	if access.ValueType() != jsoniter.StringValue || access.ToString() == "" {
		return Token{}, &AuthenticationError{StatusCode: status, Err: errors.New("token response has no access_token")}
	}

	tok := Token{Value: access.ToString()}

	expires := a.codec.get(body, "expires")
	switch expires.ValueType() {
	case jsoniter.NumberValue:
		tok.ExpiresAt = time.Unix(expires.ToInt64(), 0).Local()
	case jsoniter.StringValue:
		secs, err := strconv.ParseInt(expires.ToString(), 10, 64)
		if err != nil {
			return Token{}, &AuthenticationError{StatusCode: status, Err: fmt.Errorf("invalid expires value %q", expires.ToString())}
		}
		tok.ExpiresAt = time.Unix(secs, 0).Local()
	}

	return tok, nil
}

// describeFailure extracts the OAuth error fields from a failed response.
func (a *AuthClient) describeFailure(body []byte) error {
	if a.codec.Valid(body) {
		code := a.codec.get(body, "error")
		desc := a.codec.get(body, "error_description")
		if code.ValueType() == jsoniter.StringValue {
			if desc.ValueType() == jsoniter.StringValue && desc.ToString() != "" {
				return fmt.Errorf("%s: %s", code.ToString(), desc.ToString())
			}
			return errors.New(code.ToString())
		}
	}
	return errors.New("token endpoint rejected the request")
}
