package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/credential"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/logging"
)

// AutofillUseCase answers the in-page login form agent.
type AutofillUseCase struct {
	repo repository.CredentialRepository
	now  func() time.Time
}

// NewAutofillUseCase creates an autofill use case backed by repo.
func NewAutofillUseCase(repo repository.CredentialRepository) *AutofillUseCase {
	return &AutofillUseCase{repo: repo, now: time.Now}
}

// PlanFill looks up the most recent login for host and targets the first
// login form with it.
func (uc *AutofillUseCase) PlanFill(ctx context.Context, host string, forms []credential.Form) (credential.FillPlan, bool) {
	log := logging.FromContext(ctx)
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || len(forms) == 0 {
		return credential.FillPlan{}, false
	}

	creds, err := uc.repo.FindByHost(ctx, host)
	if err != nil {
		log.Warn().Err(err).Str("host", host).Msg("credential lookup failed")
		return credential.FillPlan{}, false
	}
	if len(creds) == 0 {
		return credential.FillPlan{}, false
	}

	plan, ok := credential.PlanFill(forms, creds[0].Username, creds[0].Password)
	if ok {
		log.Debug().Str("host", host).Int("form", plan.FormIndex).Int("user_field", plan.UserField).Msg("autofill planned")
	}
	return plan, ok
}

// Capture saves the login submitted through form. Submissions without both
// a username and a password are ignored.
func (uc *AutofillUseCase) Capture(ctx context.Context, host string, form credential.Form) error {
	host = strings.ToLower(strings.TrimSpace(host))
	username, password, ok := credential.Captured(form)
	if !ok || host == "" {
		return nil
	}

	cred := entity.Credential{Host: host, Username: username, Password: password, UpdatedAt: uc.now()}
	if err := uc.repo.Save(ctx, cred); err != nil {
		return fmt.Errorf("save credential for %s: %w", host, err)
	}
	logging.FromContext(ctx).Info().Str("host", host).Msg("credential captured")
	return nil
}

var _ port.CredentialAgent = (*AutofillUseCase)(nil)
