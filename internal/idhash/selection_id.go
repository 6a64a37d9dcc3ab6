package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"lotofacil-lab/internal/domain"
)

// ComputeSelectionID computes a deterministic selection fingerprint using SHA256.
// Formula: SHA256(strategy_id|base_concurso|label:n n n;label:n n n)
// with games in sorted label order. Returns hex-encoded hash (64 characters).
func ComputeSelectionID(sel *domain.Selection) string {
	var sb strings.Builder
	sb.WriteString(sel.StrategyID)
	sb.WriteString("|")
	fmt.Fprintf(&sb, "%d", sel.BaseConcurso)

	for _, label := range sel.GameLabels() {
		sb.WriteString("|")
		sb.WriteString(label)
		sb.WriteString(":")
		for i, n := range sel.Games[label] {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%d", n)
		}
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}
