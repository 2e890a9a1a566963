package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Args    map[string]any
	Headers map[string]string
}

var (
	allowedMethods = map[string]bool{
		"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
	}
	bodyMethods = map[string]bool{
		"POST": true, "PUT": true, "PATCH": true,
	}
)

// IsBodyMethod reports whether method sends its arguments as a JSON body.
func IsBodyMethod(method string) bool {
	return bodyMethods[method]
}

// BuildHeaders returns the headers of an authenticated call. It fails with
// an IllegalStateError when the method is not supported or the token is
// malformed.
func BuildHeaders(method string, session *rides.Session) (map[string]string, error) {
	if !allowedMethods[method] {
		return nil, rides.NewIllegalStateError("Unsupported HTTP Method.")
	}

	tokenType := session.TokenType()
	token := session.Token()

	if !ValidAuthorization(tokenType, token) {
		return nil, rides.NewIllegalStateError("Invalid token_type or token.")
	}

	headers := map[string]string{
		constants.HeaderAuthorization: tokenType + " " + token,
		constants.HeaderSDKUserAgent:  constants.SDKUserAgent,
	}

	if bodyMethods[method] {
		headers[constants.HeaderContentType] = constants.ContentTypeJSON
	}

	return headers, nil
}

// ValidAuthorization reports whether the token type is known and the token
// only contains letters, digits, '.', '_', '-' and '='.
func ValidAuthorization(tokenType, token string) bool {
	if tokenType != rides.ServerTokenType && tokenType != rides.OAuthTokenType {
		return false
	}

	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-', r == '=':
		default:
			return false
		}
	}

	return true
}

// GenerateData splits call arguments between the body and the query string.
// Body methods get the JSON encoding of args and no params; the others get
// args unchanged as params and no body. Nil args encode as an empty object.
func GenerateData(method string, args map[string]any) ([]byte, map[string]any, error) {
	if !bodyMethods[method] {
		return nil, args, nil
	}

	if args == nil {
		args = map[string]any{}
	}

	body, err := json.Marshal(args)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	return body, nil, nil
}

// BuildURL joins host and path and appends params as a query string. The
// path is percent-encoded, keeping only letters, digits, '_', '.', '-' and
// '/'. Hosts without a scheme get "https://".
func BuildURL(host, path string, params map[string]any) string {
	if !strings.Contains(host, "://") {
		host = constants.URLScheme + host
	}

	u := strings.TrimRight(host, "/") + "/" + QuotePath(strings.TrimPrefix(path, "/"))

	if query := EncodeParams(params); query != "" {
		u += "?" + query
	}

	return u
}

// QuotePath percent-encodes every byte of path outside letters, digits,
// '_', '.', '-' and '/'.
func QuotePath(path string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder

	for i := 0; i < len(path); i++ {
		c := path[i]

		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '_', c == '.', c == '-', c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}

	return b.String()
}

// EncodeParams form-encodes params in key order. Nil values are kept with
// an empty value; callers drop arguments they do not want sent.
func EncodeParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}

	values := url.Values{}

	for key, value := range params {
		values.Set(key, formatParam(value))
	}

	return values.Encode()
}

// formatParam renders value as a query value. Nil and nil pointers render
// as "".
func formatParam(value any) string {
	if value == nil {
		return ""
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}

		return formatParam(rv.Elem().Interface())
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
