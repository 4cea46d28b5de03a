package errors

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ErrorCode is the numeric status behind an application error code.
// Several names share a status; the first declared name wins on reverse lookup.
type ErrorCode int

// Application error codes, in declaration order.
const (
	CodeUnmappedError       ErrorCode = 500
	CodeUnprocessableEntity ErrorCode = 422
	CodeInvalidParams       ErrorCode = 400
	CodeInvalidToken        ErrorCode = 401
	CodeUserNotFound        ErrorCode = 404
	CodeLoginError          ErrorCode = 401
	CodeServerError         ErrorCode = 500
)

// UnmappedErrorName is returned for codes outside the enumeration.
const UnmappedErrorName = "UNMAPPED_ERROR"

// TimestampFormat is the layout used for ApplicationError timestamps (UTC).
const TimestampFormat = "2006-01-02T15:04:05.000Z"

const circularMarker = "[Circular]"

var errorCodeNames = []struct {
	name string
	code ErrorCode
}{
	{UnmappedErrorName, CodeUnmappedError},
	{"UNPROCESSABLE_ENTITY", CodeUnprocessableEntity},
	{"INVALID_PARAMS", CodeInvalidParams},
	{"INVALID_TOKEN", CodeInvalidToken},
	{"USER_NOT_FOUND", CodeUserNotFound},
	{"LOGIN_ERROR", CodeLoginError},
	{"SERVER_ERROR", CodeServerError},
}

// now is swapped in tests.
var now = time.Now

// Name resolves the symbolic name of the code.
func (c ErrorCode) Name() string {
	for _, entry := range errorCodeNames {
		if entry.code == c {
			return entry.name
		}
	}
	return UnmappedErrorName
}

// ErrorInput describes an application failure at the point it is detected.
type ErrorInput struct {
	Code          ErrorCode `json:"code,omitempty"`
	Title         string    `json:"title,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Timestamp     string    `json:"timestamp,omitempty"`
	Details       any       `json:"details,omitempty"`
}

// ApplicationError is an immutable, typed application failure with a stable
// code/title/status taxonomy.
type ApplicationError struct {
	Code          string
	Title         string
	StatusCode    int
	RequestID     string
	CorrelationID string
	Timestamp     string
	message       string
}

// ErrorBody is the transport rendering of an ApplicationError.
type ErrorBody struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// NewApplicationError builds an ApplicationError from its input. The message is
// the JSON form of the input; Title, RequestID and Timestamp get defaults when empty.
// A nil input behaves like an empty one.
func NewApplicationError(in *ErrorInput) *ApplicationError {
	if in == nil {
		in = &ErrorInput{}
	}
	name := in.Code.Name()

	appErr := &ApplicationError{
		Code:          name,
		Title:         in.Title,
		StatusCode:    int(in.Code),
		RequestID:     in.RequestID,
		CorrelationID: in.CorrelationID,
		Timestamp:     in.Timestamp,
		message:       describe(in),
	}
	if appErr.Title == "" {
		appErr.Title = name
	}
	if appErr.RequestID == "" {
		appErr.RequestID = uuid.NewString()
	}
	if appErr.Timestamp == "" {
		appErr.Timestamp = now().UTC().Format(TimestampFormat)
	}

	return appErr
}

// Error returns the serialized input.
func (e *ApplicationError) Error() string {
	return e.message
}

// Body renders the error for a transport response.
func (e *ApplicationError) Body() ErrorBody {
	detail := e.message
	if detail == "" {
		detail = "No mapped error"
	}
	return ErrorBody{
		Code:   e.Code,
		Title:  e.Title,
		Status: e.StatusCode,
		Detail: detail,
	}
}

// AsApplicationError extracts an ApplicationError from err's tree.
func AsApplicationError(err error) (*ApplicationError, bool) {
	var appErr *ApplicationError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// describe serializes the input. Any value reached again while it is still
// being serialized, such as a map holding itself, is written as circularMarker.
func describe(in *ErrorInput) string {
	guard := &cycleGuard{
		inputs: map[*ErrorInput]bool{in: true},
		refs:   map[refKey]bool{},
	}
	snapshot := *in
	snapshot.Details = guard.replace(in.Details)

	data, err := json.Marshal(snapshot)
	if err != nil {
		snapshot.Details = nil
		data, _ = json.Marshal(snapshot)
	}
	return string(data)
}

// refKey identifies a map or slice by its backing storage.
type refKey struct {
	ptr uintptr
	len int
}

// cycleGuard tracks the containers on the current serialization path.
type cycleGuard struct {
	inputs map[*ErrorInput]bool
	refs   map[refKey]bool
}

func (g *cycleGuard) replace(value any) any {
	switch v := value.(type) {
	case *ErrorInput:
		if v == nil {
			return value
		}
		if g.inputs[v] {
			return circularMarker
		}
		g.inputs[v] = true
		defer delete(g.inputs, v)

		nested := *v
		nested.Details = g.replace(v.Details)
		return nested
	case map[string]any:
		if v == nil {
			return value
		}
		key := refKey{ptr: reflect.ValueOf(v).Pointer(), len: -1}
		if g.refs[key] {
			return circularMarker
		}
		g.refs[key] = true
		defer delete(g.refs, key)

		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = g.replace(item)
		}
		return out
	case []any:
		if len(v) == 0 {
			return value
		}
		key := refKey{ptr: reflect.ValueOf(v).Pointer(), len: len(v)}
		if g.refs[key] {
			return circularMarker
		}
		g.refs[key] = true
		defer delete(g.refs, key)

		out := make([]any, len(v))
		for i, item := range v {
			out[i] = g.replace(item)
		}
		return out
	default:
		return value
	}
}
