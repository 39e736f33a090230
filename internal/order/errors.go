package order

import (
	"errors"
)

// ErrSubmitInFlight is returned when a quote submission is already being sent.
var ErrSubmitInFlight = errors.New("quote submission already in flight")

// ValidationError describes the single precondition a customer action violated.
// Its message is shown to the customer as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// SubmissionError wraps a failed quote delivery.
type SubmissionError struct {
	Detail string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Detail == "" {
		return "주문 전송 중 오류가 발생했습니다. 다시 시도해주세요."
	}
	return "주문 전송 중 오류가 발생했습니다.\n" + e.Detail
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// detailer is implemented by delivery errors that carry provider text.
type detailer interface {
	Detail() string
}

func newSubmissionError(err error) *SubmissionError {
	detail := ""
	var d detailer
	if errors.As(err, &d) {
		detail = d.Detail()
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return &SubmissionError{Detail: detail, Err: err}
}
