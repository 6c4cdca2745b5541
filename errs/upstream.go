package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party API & LLM specific errors
var (
	ErrRateLimitExceeded     = errors.New("rate limit exceeded")
	ErrBillingQuotaExhausted = errors.New("billing quota exhausted")
	ErrUploadFailed          = errors.New("upload failed")
)

func NewRateLimitError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Rate limit exceeded for %s service", service),
		Field:      "rate_limit",
	}
}

func NewBillingQuotaError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusPaymentRequired,
		err:        ErrBillingQuotaExhausted,
		Details:    fmt.Sprintf("Billing quota exhausted for %s service", service),
		Field:      "billing",
	}
}

func NewUploadFailedError(name string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("Failed to upload %s", name),
		Cause:      cause,
	}
}
