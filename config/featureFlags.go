package config

import (
	"os"
	"strings"
)

// TransitionGuardEnabled controls the org-scoped lock taken around completion
// workflow transitions (submit/approve/reject). The guard narrows the
// double-transition race window; disable only in single-writer deployments.
//
// Set via env:
// - TRANSITION_GUARD=off
func TransitionGuardEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("TRANSITION_GUARD")))
	return v != "off" && v != "false" && v != "0"
}
