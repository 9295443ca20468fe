package extraction

import "fmt"

// ServiceError indicates the completion service was unreachable, rejected
// the request, or timed out. The single extraction attempt is not retried.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("completion service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ParseError indicates the service replied but no valid record could be
// decoded from the reply. RawReply keeps the full model output for diagnostics.
type ParseError struct {
	Err      error
	RawReply string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
