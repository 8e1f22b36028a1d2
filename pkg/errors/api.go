package errors

import "net/http"

// Token-specific messages returned for 401/403 answers.
const (
	MsgTokenInvalid = "TOKEN ERROR: the provided token is invalid"
	MsgTokenMissing = "TOKEN ERROR: no token was provided"
	msgNoDetail     = "no description given"
)

// APIBody is the envelope every gif API answer shares.
type APIBody struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// APIDetail is the payload of an API_ERROR.
type APIDetail struct {
	Endpoint   string  // Requested path relative to the base URL
	URL        string  // Final request URL, "unknown" when no response arrived
	StatusCode int     // HTTP status, 500 when no response arrived
	Body       APIBody // Decoded response body (zero when undecodable)
}

// API builds an API_ERROR. A zero status becomes 500 and an empty URL becomes
// "unknown". The message follows the token policy of [APIMessage].
func API(endpoint, url string, status int, body APIBody, cause error) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if url == "" {
		url = "unknown"
	}
	detail := &APIDetail{Endpoint: endpoint, URL: url, StatusCode: status, Body: body}
	msg := APIMessage(detail)
	if cause != nil && body.Message == "" && body.Code == 0 {
		msg = cause.Error()
	}
	return &Error{
		Code:    ErrCodeAPI,
		Message: msg,
		API:     detail,
		Cause:   cause,
	}
}

// APIMessage picks the human message for an API failure. The body code wins
// over the HTTP status when the API filled it in.
func APIMessage(d *APIDetail) string {
	code := d.Body.Code
	if code == 0 {
		code = d.StatusCode
	}
	switch code {
	case http.StatusForbidden:
		return MsgTokenInvalid
	case http.StatusUnauthorized:
		return MsgTokenMissing
	}
	if d.Body.Message != "" {
		return d.Body.Message
	}
	return msgNoDetail
}
