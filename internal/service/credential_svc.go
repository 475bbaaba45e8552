package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/youtube"
	"github.com/BVStecnologia/youtube-monitor/pkg/hash"
)

// StaleCredentialAge is how long an integration may go untouched before the
// sweep deactivates it.
const StaleCredentialAge = 30 * 24 * time.Hour

// TokenIntrospector performs the direct token test against the provider.
type TokenIntrospector interface {
	TestToken(ctx context.Context, accessToken string) (bool, error)
}

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*youtube.RefreshedToken, error)
}

type credentialProjectStore interface {
	ListYoutubeEnabled(ctx context.Context) ([]model.Project, error)
	SetCredentialValid(ctx context.Context, projectID int64, valid bool) error
	SetIntegration(ctx context.Context, projectID, integrationID int64) error
	DetachIntegration(ctx context.Context, integrationID int64) error
}

type integrationStore interface {
	ListByProject(ctx context.Context, projectID int64) ([]model.Integration, error)
	CurrentAccessToken(ctx context.Context, projectID int64) (string, error)
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error
	SetState(ctx context.Context, id int64, state model.CredentialState, note string, active bool) error
	Delete(ctx context.Context, id int64) error
	DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// Verdict is the outcome of one credential evaluation.
type Verdict struct {
	Valid  bool
	State  model.CredentialState
	Reason string
}

// CredentialSummary reports one EvaluateAll pass for observability.
type CredentialSummary struct {
	Checked int
	Valid   int
	Invalid int
}

// CredentialService drives the OAuth validity state machine per project.
// Each evaluation starts fresh: no in-progress state survives a tick, only
// the persisted verdict.
type CredentialService struct {
	projects     credentialProjectStore
	integrations integrationStore
	introspector TokenIntrospector
	refresher    TokenRefresher
}

func NewCredentialService(projects credentialProjectStore, integrations integrationStore, introspector TokenIntrospector, refresher TokenRefresher) *CredentialService {
	return &CredentialService{
		projects:     projects,
		integrations: integrations,
		introspector: introspector,
		refresher:    refresher,
	}
}

// EvaluateAll runs the state machine for every YouTube-enabled project.
// A failure (or panic) in one project never prevents the next from being
// evaluated.
func (s *CredentialService) EvaluateAll(ctx context.Context) (CredentialSummary, error) {
	projects, err := s.projects.ListYoutubeEnabled(ctx)
	if err != nil {
		return CredentialSummary{}, fmt.Errorf("list projects: %w", err)
	}

	var sum CredentialSummary
	for _, p := range projects {
		verdict := s.evaluateSafe(ctx, p)
		sum.Checked++
		if verdict.Valid {
			sum.Valid++
		} else {
			sum.Invalid++
		}

		log.Info().Int64("project", p.ID).Str("name", p.Name).
			Bool("valid", verdict.Valid).Str("state", string(verdict.State)).
			Str("reason", verdict.Reason).
			Msg("credential check")
	}
	return sum, nil
}

// evaluateSafe contains panics so one project cannot abort the batch.
func (s *CredentialService) evaluateSafe(ctx context.Context, p model.Project) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = Verdict{State: model.StateRefreshError, Reason: fmt.Sprintf("panic: %v", r)}
			s.persistVerdict(ctx, p.ID, 0, verdict)
		}
	}()
	return s.Evaluate(ctx, p)
}

// Evaluate runs the health state machine for a single project and persists
// the verdict on both the project and the integration row.
func (s *CredentialService) Evaluate(ctx context.Context, p model.Project) Verdict {
	integrations, err := s.integrations.ListByProject(ctx, p.ID)
	if err != nil {
		v := Verdict{State: model.StateRefreshError, Reason: fmt.Sprintf("load integrations: %v", err)}
		s.persistVerdict(ctx, p.ID, 0, v)
		return v
	}

	if len(integrations) == 0 {
		v := Verdict{State: model.StateNoCredential, Reason: "requires re-authorization"}
		s.persistVerdict(ctx, p.ID, 0, v)
		return v
	}

	// Duplicate cleanup happens before evaluation so the monitor always
	// tests the canonical (most recently updated) row.
	current := integrations[0]
	if len(integrations) > 1 {
		s.cleanupDuplicates(ctx, p.ID, integrations)
	}
	if err := s.projects.SetIntegration(ctx, p.ID, current.ID); err != nil {
		log.Warn().Err(err).Int64("project", p.ID).Msg("credential: attach integration failed")
	}

	// A credential already flagged "rotated but still rejected" needs manual
	// reauthorization; refreshing it again every tick would loop forever.
	// Only the direct test may rescue it.
	refreshAllowed := !(current.State == model.StateRefreshedButInvalid && !current.Active)

	ok, err := s.introspector.TestToken(ctx, current.AccessToken)
	if err != nil {
		log.Warn().Err(err).Int64("project", p.ID).Msg("credential: direct test errored")
	}
	if ok {
		v := Verdict{Valid: true, State: model.StateDirectValid}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	if current.RefreshToken == "" {
		v := Verdict{State: model.StateNoCredential, Reason: "requires re-authorization"}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}
	if !refreshAllowed {
		v := Verdict{State: model.StateRefreshedButInvalid, Reason: "requires re-authorization"}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	return s.attemptRefresh(ctx, p, current)
}

// attemptRefresh covers the refresh half of the state machine: rotate the
// token, persist it, then decide by byte-comparing the stored token before
// and after.
func (s *CredentialService) attemptRefresh(ctx context.Context, p model.Project, current model.Integration) Verdict {
	preToken, err := s.integrations.CurrentAccessToken(ctx, p.ID)
	if err != nil {
		preToken = current.AccessToken
	}

	refreshed, err := s.refresher.Refresh(ctx, current.RefreshToken)
	if err != nil {
		v := Verdict{State: model.StateRefreshError, Reason: fmt.Sprintf("refresh error: %v", err)}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	if err := s.integrations.UpdateTokens(ctx, current.ID, refreshed.AccessToken, refreshed.RefreshToken); err != nil {
		v := Verdict{State: model.StateRefreshError, Reason: fmt.Sprintf("persist refreshed token: %v", err)}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	postToken, err := s.integrations.CurrentAccessToken(ctx, p.ID)
	if err != nil {
		v := Verdict{State: model.StateRefreshError, Reason: fmt.Sprintf("re-read token: %v", err)}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	if postToken == preToken {
		v := Verdict{State: model.StateRefreshUnchanged, Reason: "refresh did not change token"}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	log.Info().Int64("project", p.ID).
		Str("old_token", hash.TokenFingerprint(preToken)).
		Str("new_token", hash.TokenFingerprint(postToken)).
		Msg("credential: token rotated, re-testing")

	ok, err := s.introspector.TestToken(ctx, postToken)
	if err != nil {
		log.Warn().Err(err).Int64("project", p.ID).Msg("credential: post-refresh test errored")
	}
	if ok {
		v := Verdict{Valid: true, State: model.StateRefreshedAndValid}
		s.persistVerdict(ctx, p.ID, current.ID, v)
		return v
	}

	// Token rotated but still rejected: the grant itself is broken and only
	// a new authorization can fix it.
	v := Verdict{
		State:  model.StateRefreshedButInvalid,
		Reason: "invalid even after refresh, requires re-authorization",
	}
	s.persistVerdict(ctx, p.ID, current.ID, v)
	return v
}

// cleanupDuplicates keeps integrations[0] (most recently updated) and removes
// the rest, detaching any project reference first so deletes cannot orphan a
// foreign key.
func (s *CredentialService) cleanupDuplicates(ctx context.Context, projectID int64, integrations []model.Integration) {
	log.Info().Int64("project", projectID).Int("count", len(integrations)).
		Msg("credential: cleaning up duplicate integrations")

	for _, old := range integrations[1:] {
		if err := s.projects.DetachIntegration(ctx, old.ID); err != nil {
			log.Error().Err(err).Int64("integration", old.ID).Msg("credential: detach failed")
			continue
		}
		if err := s.integrations.Delete(ctx, old.ID); err != nil {
			log.Error().Err(err).Int64("integration", old.ID).Msg("credential: delete failed")
		}
	}
}

// persistVerdict writes the verdict onto the project row and, when a
// concrete integration was evaluated, onto the integration row as well.
func (s *CredentialService) persistVerdict(ctx context.Context, projectID, integrationID int64, v Verdict) {
	if err := s.projects.SetCredentialValid(ctx, projectID, v.Valid); err != nil {
		log.Error().Err(err).Int64("project", projectID).Msg("credential: persist project verdict failed")
	}
	if integrationID == 0 {
		return
	}
	if err := s.integrations.SetState(ctx, integrationID, v.State, v.Reason, v.Valid); err != nil {
		log.Error().Err(err).Int64("integration", integrationID).Msg("credential: persist state failed")
	}
}

// SweepStale deactivates integrations untouched for StaleCredentialAge.
// Runs independently of the per-tick evaluation.
func (s *CredentialService) SweepStale(ctx context.Context) (int64, error) {
	n, err := s.integrations.DeactivateStale(ctx, time.Now().Add(-StaleCredentialAge))
	if err != nil {
		return 0, fmt.Errorf("deactivate stale integrations: %w", err)
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("credential: stale integrations deactivated")
	}
	return n, nil
}
