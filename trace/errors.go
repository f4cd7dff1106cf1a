package trace

import "fmt"

// ValidationError reports a property the player found violated while
// replaying a trace: which property, at which operation, and the address
// involved, mirroring the validation-error-with-offset convention used for
// structural checks elsewhere in the retrieved example pack.
type ValidationError struct {
	Property string
	OpIndex  int
	Address  uint32
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s violated at op #%d (address 0x%X): %s", e.Property, e.OpIndex, e.Address, e.Message)
}
