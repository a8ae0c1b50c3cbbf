package oauth2client

// HttpMethod represents an HTTP method.
type HttpMethod string

// HTTP Method constants supported by the Moltin API.
const (
	HttpGet    HttpMethod = "GET"
	HttpPost   HttpMethod = "POST"
	HttpPut    HttpMethod = "PUT"
	HttpDelete HttpMethod = "DELETE"
)

// valid reports whether m is one of the supported methods.
func (m HttpMethod) valid() bool {
	switch m {
	case HttpGet, HttpPost, HttpPut, HttpDelete:
		return true
	}
	return false
}

// hasBody reports whether requests with this method carry a body.
func (m HttpMethod) hasBody() bool {
	return m == HttpPost || m == HttpPut
}
