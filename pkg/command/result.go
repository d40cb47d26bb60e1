package command

import (
	"fmt"

	"github.com/google/uuid"
)

// Result is the outcome of one command. It is immutable once returned.
type Result struct {
	CommandID uuid.UUID
	Kind      Kind
	Player    string
	Success   bool
	Data      string
	Err       error
}

// ErrorText is the error message, or "" on success.
func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r Result) String() string {
	if r.Success {
		return fmt.Sprintf("Command %s executed successfully: %s", r.Kind, r.Data)
	}
	return fmt.Sprintf("Command %s failed: %s", r.Kind, r.ErrorText())
}
