// Package policy gates which actions a deployment may execute.
package policy

import (
	"strings"

	apierr "github.com/injhive/injhive/internal/errors"
)

// CheckActionAllowed rejects actions outside the allowlist. An empty
// allowlist permits everything.
func CheckActionAllowed(allowlist []string, action string) error {
	if len(allowlist) == 0 {
		return nil
	}
	norm := normalize(action)
	for _, allowed := range allowlist {
		if normalize(allowed) == norm {
			return nil
		}
	}
	return apierr.Newf(apierr.CodeBlocked, "action %s is blocked by policy", action)
}

func normalize(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
