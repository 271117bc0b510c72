package tools

// Status indicates whether a tool invocation succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrCode classifies tool failures. Codes are carried internally so
// callers can branch on them; the wire surface renders a single
// structured error message per failure.
type ErrCode string

const (
	// ErrCodeOutOfBounds: the resolved path escapes the server root.
	ErrCodeOutOfBounds ErrCode = "OUT_OF_BOUNDS"
	// ErrCodeDisallowedType: file extension outside the allow-set.
	ErrCodeDisallowedType ErrCode = "DISALLOWED_TYPE"
	// ErrCodeNotFound: the target does not exist.
	ErrCodeNotFound ErrCode = "NOT_FOUND"
	// ErrCodeWrongKind: a file was expected but a directory was found,
	// or vice versa.
	ErrCodeWrongKind ErrCode = "WRONG_KIND"
	// ErrCodeIO: an underlying filesystem error (permissions, space).
	ErrCodeIO ErrCode = "IO_ERROR"
)

// Error is the structured error carried by a failed Result.
type Error struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
	Details any     `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code == "" {
		return e.Message
	}
	return string(e.Code) + ": " + e.Message
}

// Result is the tagged outcome of a tool invocation. Exactly one of the
// success payload (Data) or Error is populated. Domain failures (bad
// path, missing file, IO errors) are Results, never Go errors; the error
// return of tool methods is reserved for faults that should abort the
// request at the protocol layer.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *Error         `json:"error,omitempty"`
}

// failure builds an error Result.
func failure(code ErrCode, message string) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message},
	}
}

// success builds a success Result with the original-compatible payload
// shape: the payload always carries "success": true alongside the
// operation-specific fields.
func success(message string, data map[string]any) Result {
	data["success"] = true
	return Result{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}
