package publication

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is the sentinel matched by MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError is returned when a raw record has no derivable title.
// Such records are dropped, never propagated.
type MalformedRecordError struct {
	Source Source
	Index  int    // Position in the source batch (0-indexed), -1 if unknown
	Reason string // Description of what was missing
}

func (e *MalformedRecordError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s record %d: %s", e.Source, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s record: %s", e.Source, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedRecord) succeed.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
