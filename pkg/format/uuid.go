package format

import (
	"fmt"

	"github.com/google/uuid"
)

// checkUUID requires s to be a valid UUID. Pulled from the rest of
// the retrieved corpus: google/uuid's own parser, rather than the
// hand-rolled hex/dash scanner the teacher writes for this one format.
func checkUUID(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("%q is not a valid UUID", s)
	}
	return nil
}
