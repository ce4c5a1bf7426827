package auth

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// APIResponse is the uniform envelope every JSON endpoint returns,
// success and failure alike.
type APIResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    any            `json:"data,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// RespondOK writes a success envelope
func RespondOK(c router.Context, status int, message string, data any) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorSink converts any handler error into an envelope with the status
// its category maps to. Internal failures are logged with their full
// detail but serialized as a generic message so nothing leaks.
type ErrorSink struct {
	Debug  bool
	Logger Logger
}

func NewErrorSink() *ErrorSink {
	return &ErrorSink{Logger: defLogger{}}
}

func (s *ErrorSink) WithLogger(logger Logger) *ErrorSink {
	if logger != nil {
		s.Logger = logger
	}
	return s
}

// Handle writes the envelope for err. It always returns nil: by the time
// the sink runs, the error has been converted into a response.
func (s *ErrorSink) Handle(c router.Context, err error) error {
	if err == nil {
		return nil
	}

	status, body := s.envelope(err)

	if s.Debug {
		fmt.Println("======= AUTH ERROR ======")
		fmt.Println(print.MaybePrettyJSON(body))
		fmt.Println("=========================")
	}

	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed: %s", err)
	} else {
		s.Logger.Info("request rejected: %s", err)
	}

	return c.JSON(status, body)
}

func (s *ErrorSink) envelope(err error) (int, APIResponse) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Internal Server Error",
		}
	}

	status := StatusForCategory(richErr.Category)
	if status >= http.StatusInternalServerError {
		// internal detail stays in the logs
		return status, APIResponse{
			Success: false,
			Message: "Internal Server Error",
		}
	}

	resp := APIResponse{
		Success: false,
		Message: richErr.Message,
	}

	if len(richErr.Metadata) > 0 {
		resp.Details = richErr.Metadata
	}

	return status, resp
}

// StatusForCategory maps an error category to its HTTP status
func StatusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WrapHandler routes handler errors, and panics, into the sink so a
// single endpoint never takes down the process or leaks a stack trace.
func WrapHandler(sink *ErrorSink, handler router.HandlerFunc) router.HandlerFunc {
	if sink == nil {
		sink = NewErrorSink()
	}

	return func(c router.Context) error {
		var err error

		func() {
			defer func() {
				if r := recover(); r != nil {
					err = goerrors.New(
						fmt.Sprintf("panic in handler: %v", r),
						goerrors.CategoryInternal,
					)
				}
			}()
			err = handler(c)
		}()

		if err != nil {
			return sink.Handle(c, err)
		}

		return nil
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field to message map for the envelope's details
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	if err == nil {
		return out
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		out["error"] = err.Error()
		return out
	}

	for field, ferr := range verrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}

	return out
}
