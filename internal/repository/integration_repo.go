package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type IntegrationRepo struct {
	pool *pgxpool.Pool
}

func NewIntegrationRepo(pool *pgxpool.Pool) *IntegrationRepo {
	return &IntegrationRepo{pool: pool}
}

const integrationColumns = `
	id, project_id, integration_type, access_token,
	COALESCE(refresh_token, ''), active, last_updated,
	COALESCE(status_note, ''), COALESCE(state, '')`

// ListByProject returns all YouTube integrations for a project, most recently
// updated first. More than one row means stale duplicates exist; index 0 is
// the canonical one.
func (r *IntegrationRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Integration, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM integrations
		WHERE project_id = $1 AND integration_type = $2
		ORDER BY last_updated DESC`

	rows, err := r.pool.Query(ctx, query, projectID, model.IntegrationTypeYoutube)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var integrations []model.Integration
	for rows.Next() {
		var in model.Integration
		err := rows.Scan(
			&in.ID, &in.ProjectID, &in.IntegrationType, &in.AccessToken,
			&in.RefreshToken, &in.Active, &in.LastUpdated,
			&in.StatusNote, &in.State,
		)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, in)
	}
	return integrations, rows.Err()
}

// CurrentAccessToken reads the access token of the canonical (most recent)
// integration for a project. Used by the monitor to detect whether a refresh
// actually rotated the stored token.
func (r *IntegrationRepo) CurrentAccessToken(ctx context.Context, projectID int64) (string, error) {
	query := `
		SELECT access_token
		FROM integrations
		WHERE project_id = $1 AND integration_type = $2
		ORDER BY last_updated DESC
		LIMIT 1`

	var token string
	err := r.pool.QueryRow(ctx, query, projectID, model.IntegrationTypeYoutube).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// UpdateTokens persists a rotated token pair and bumps last_updated.
// An empty refreshToken leaves the stored refresh token untouched (Google
// only returns a new refresh token on first consent).
func (r *IntegrationRepo) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	if refreshToken == "" {
		_, err := r.pool.Exec(ctx, `
			UPDATE integrations
			SET access_token = $1, last_updated = NOW()
			WHERE id = $2`, accessToken, id)
		return err
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE integrations
		SET access_token = $1, refresh_token = $2, last_updated = NOW()
		WHERE id = $3`, accessToken, refreshToken, id)
	return err
}

// SetState persists the health state machine verdict on the integration row.
func (r *IntegrationRepo) SetState(ctx context.Context, id int64, state model.CredentialState, note string, active bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE integrations
		SET state = $1, status_note = $2, active = $3, last_updated = NOW()
		WHERE id = $4`, state, note, active, id)
	return err
}

// Delete removes a stale duplicate integration row. The caller must detach
// any project reference first.
func (r *IntegrationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM integrations WHERE id = $1`, id)
	return err
}

// DeactivateStale flips integrations with no activity since the cutoff to
// inactive. Returns how many rows were touched.
func (r *IntegrationRepo) DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE integrations
		SET active = false, status_note = 'deactivated: no activity in 30 days'
		WHERE integration_type = $1 AND active = true AND last_updated < $2`,
		model.IntegrationTypeYoutube, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
