package port

import (
	"context"

	"github.com/bnema/arkium/internal/domain/credential"
)

// CredentialAgent serves the per-page autofill script. Engines call it
// off the coordinator goroutine.
type CredentialAgent interface {
	// PlanFill returns what to fill into the forms found on host.
	PlanFill(ctx context.Context, host string, forms []credential.Form) (credential.FillPlan, bool)

	// Capture stores the login submitted through form on host.
	Capture(ctx context.Context, host string, form credential.Form) error
}
