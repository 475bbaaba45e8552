package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/youtube"
)

type fakeProjects struct {
	validWrites map[int64]bool
	attached    map[int64]int64
	detached    []int64
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{validWrites: make(map[int64]bool), attached: make(map[int64]int64)}
}

func (f *fakeProjects) ListYoutubeEnabled(ctx context.Context) ([]model.Project, error) {
	return nil, nil
}
func (f *fakeProjects) SetCredentialValid(ctx context.Context, projectID int64, valid bool) error {
	f.validWrites[projectID] = valid
	return nil
}
func (f *fakeProjects) SetIntegration(ctx context.Context, projectID, integrationID int64) error {
	f.attached[projectID] = integrationID
	return nil
}
func (f *fakeProjects) DetachIntegration(ctx context.Context, integrationID int64) error {
	f.detached = append(f.detached, integrationID)
	return nil
}

type stateWrite struct {
	id     int64
	state  model.CredentialState
	note   string
	active bool
}

type fakeIntegrations struct {
	rows         []model.Integration
	currentToken string
	stateWrites  []stateWrite
	deleted      []int64
	updateCalls  int
}

func (f *fakeIntegrations) ListByProject(ctx context.Context, projectID int64) ([]model.Integration, error) {
	return f.rows, nil
}
func (f *fakeIntegrations) CurrentAccessToken(ctx context.Context, projectID int64) (string, error) {
	if f.currentToken == "" {
		return "", model.ErrNotFound
	}
	return f.currentToken, nil
}
func (f *fakeIntegrations) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	f.updateCalls++
	f.currentToken = accessToken
	return nil
}
func (f *fakeIntegrations) SetState(ctx context.Context, id int64, state model.CredentialState, note string, active bool) error {
	f.stateWrites = append(f.stateWrites, stateWrite{id, state, note, active})
	return nil
}
func (f *fakeIntegrations) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeIntegrations) DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeIntrospector struct {
	valid map[string]bool
	calls int
}

func (f *fakeIntrospector) TestToken(ctx context.Context, token string) (bool, error) {
	f.calls++
	return f.valid[token], nil
}

type fakeRefresher struct {
	token *youtube.RefreshedToken
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*youtube.RefreshedToken, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func integration(id int64, access, refresh string) model.Integration {
	return model.Integration{
		ID:              id,
		ProjectID:       1,
		IntegrationType: model.IntegrationTypeYoutube,
		AccessToken:     access,
		RefreshToken:    refresh,
		Active:          true,
		LastUpdated:     time.Now(),
	}
}

func TestEvaluate_NoCredential(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{}
	introspector := &fakeIntrospector{}
	refresher := &fakeRefresher{}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if v.Valid {
		t.Error("verdict valid for a project without credentials")
	}
	if v.Reason != "requires re-authorization" {
		t.Errorf("reason = %q, want \"requires re-authorization\"", v.Reason)
	}
	if introspector.calls != 0 || refresher.calls != 0 {
		t.Errorf("API calls made without a credential: introspect=%d refresh=%d",
			introspector.calls, refresher.calls)
	}
	if valid, ok := projects.validWrites[1]; !ok || valid {
		t.Error("project credential_valid not written false")
	}
}

func TestEvaluate_DirectValid(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{integration(10, "tok-a", "refresh-a")},
		currentToken: "tok-a",
	}
	introspector := &fakeIntrospector{valid: map[string]bool{"tok-a": true}}
	refresher := &fakeRefresher{}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if !v.Valid || v.State != model.StateDirectValid {
		t.Errorf("verdict = %+v, want direct_valid", v)
	}
	if refresher.calls != 0 {
		t.Error("refresh attempted although direct test passed")
	}
	if !projects.validWrites[1] {
		t.Error("project not marked valid")
	}
}

func TestEvaluate_NoRefreshToken(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{integration(10, "tok-a", "")},
		currentToken: "tok-a",
	}
	introspector := &fakeIntrospector{}
	refresher := &fakeRefresher{}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if v.Valid {
		t.Error("verdict valid without refresh token and failing direct test")
	}
	if v.Reason != "requires re-authorization" {
		t.Errorf("reason = %q, want \"requires re-authorization\"", v.Reason)
	}
	if refresher.calls != 0 {
		t.Error("refresh attempted without a refresh token")
	}
}

func TestEvaluate_RefreshConvergesInOneCall(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{integration(10, "tok-old", "refresh-a")},
		currentToken: "tok-old",
	}
	introspector := &fakeIntrospector{valid: map[string]bool{"tok-new": true}}
	refresher := &fakeRefresher{token: &youtube.RefreshedToken{AccessToken: "tok-new"}}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if !v.Valid || v.State != model.StateRefreshedAndValid {
		t.Errorf("verdict = %+v, want refreshed_and_valid", v)
	}
	if refresher.calls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", refresher.calls)
	}
	if introspector.calls != 2 {
		t.Errorf("introspection calls = %d, want 2 (before and after refresh)", introspector.calls)
	}
	if integrations.currentToken != "tok-new" {
		t.Error("rotated token not persisted")
	}
}

func TestEvaluate_RefreshUnchanged(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{integration(10, "tok-old", "refresh-a")},
		currentToken: "tok-old",
	}
	introspector := &fakeIntrospector{}
	refresher := &fakeRefresher{token: &youtube.RefreshedToken{AccessToken: "tok-old"}}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if v.Valid || v.State != model.StateRefreshUnchanged {
		t.Errorf("verdict = %+v, want refresh_unchanged", v)
	}
	if v.Reason != "refresh did not change token" {
		t.Errorf("reason = %q", v.Reason)
	}
}

func TestEvaluate_RefreshedButInvalid(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{integration(10, "tok-old", "refresh-a")},
		currentToken: "tok-old",
	}
	// Neither the old nor the rotated token passes.
	introspector := &fakeIntrospector{}
	refresher := &fakeRefresher{token: &youtube.RefreshedToken{AccessToken: "tok-new"}}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if v.Valid || v.State != model.StateRefreshedButInvalid {
		t.Errorf("verdict = %+v, want refreshed_but_invalid", v)
	}
	if v.Reason != "invalid even after refresh, requires re-authorization" {
		t.Errorf("reason = %q", v.Reason)
	}

	last := integrations.stateWrites[len(integrations.stateWrites)-1]
	if last.active {
		t.Error("integration left active after critical inconsistency")
	}
}

func TestEvaluate_NoAutoRetryAfterCriticalInconsistency(t *testing.T) {
	row := integration(10, "tok-new", "refresh-a")
	row.State = model.StateRefreshedButInvalid
	row.Active = false

	projects := newFakeProjects()
	integrations := &fakeIntegrations{rows: []model.Integration{row}, currentToken: "tok-new"}
	introspector := &fakeIntrospector{}
	refresher := &fakeRefresher{token: &youtube.RefreshedToken{AccessToken: "tok-newer"}}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if refresher.calls != 0 {
		t.Errorf("refresh retried %d times on a credential flagged for manual reauthorization", refresher.calls)
	}
	if v.Valid {
		t.Error("flagged credential reported valid without passing the direct test")
	}
}

func TestEvaluate_RefreshError(t *testing.T) {
	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{integration(10, "tok-old", "refresh-a")},
		currentToken: "tok-old",
	}
	introspector := &fakeIntrospector{}
	refresher := &fakeRefresher{err: errors.New("token endpoint down")}
	svc := NewCredentialService(projects, integrations, introspector, refresher)

	v := svc.Evaluate(context.Background(), model.Project{ID: 1})

	if v.Valid || v.State != model.StateRefreshError {
		t.Errorf("verdict = %+v, want refresh_error", v)
	}
}

func TestEvaluate_DuplicateCleanup(t *testing.T) {
	newest := integration(30, "tok-a", "refresh-a")
	newest.LastUpdated = time.Now()
	older := integration(20, "tok-b", "refresh-b")
	older.LastUpdated = time.Now().Add(-time.Hour)
	oldest := integration(10, "tok-c", "refresh-c")
	oldest.LastUpdated = time.Now().Add(-2 * time.Hour)

	projects := newFakeProjects()
	integrations := &fakeIntegrations{
		rows:         []model.Integration{newest, older, oldest},
		currentToken: "tok-a",
	}
	introspector := &fakeIntrospector{valid: map[string]bool{"tok-a": true}}
	svc := NewCredentialService(projects, integrations, introspector, &fakeRefresher{})

	svc.Evaluate(context.Background(), model.Project{ID: 1})

	if len(integrations.deleted) != 2 {
		t.Fatalf("deleted %d duplicates, want 2", len(integrations.deleted))
	}
	for _, id := range integrations.deleted {
		if id == 30 {
			t.Error("canonical (newest) integration was deleted")
		}
	}
	if len(projects.detached) != 2 {
		t.Errorf("detached %d references, want 2 (detach must precede delete)", len(projects.detached))
	}
	if projects.attached[1] != 30 {
		t.Errorf("project attached to integration %d, want 30", projects.attached[1])
	}
}
