package campaign

import (
	"fmt"
	"strings"
)

// ComputeID derives the deterministic campaign ID from its anchor concurso
// and creation date, e.g. "c_3012_20260824". Re-running on the same data
// reproduces the same ID, which backs the idempotent open guard.
func ComputeID(startConcurso int, createdOn string) string {
	return fmt.Sprintf("c_%d_%s", startConcurso, strings.ReplaceAll(createdOn, "-", ""))
}
