package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

const projectColumns = `
	id, name, youtube_active, integration_id, credential_valid,
	COALESCE(description, ''), COALESCE(keywords, ''),
	COALESCE(negative_keywords, ''), COALESCE(country, '')`

// ListYoutubeEnabled returns every project with the YouTube integration
// switched on, regardless of credential health. The credential monitor
// evaluates each of these on every tick.
func (r *ProjectRepo) ListYoutubeEnabled(ctx context.Context) ([]model.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE youtube_active = true
		ORDER BY id`

	return r.list(ctx, query)
}

// ListValid returns projects whose credential passed the last health check.
// Downstream stages (ranking, discovery) only ever see these.
func (r *ProjectRepo) ListValid(ctx context.Context) ([]model.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE youtube_active = true AND credential_valid = true
		ORDER BY id`

	return r.list(ctx, query)
}

func (r *ProjectRepo) list(ctx context.Context, query string) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		err := rows.Scan(
			&p.ID, &p.Name, &p.YoutubeActive, &p.IntegrationID, &p.CredentialValid,
			&p.Description, &p.Keywords, &p.NegativeKeywords, &p.Country,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// SetCredentialValid writes the monitor's verdict onto the project row.
func (r *ProjectRepo) SetCredentialValid(ctx context.Context, projectID int64, valid bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET credential_valid = $1 WHERE id = $2`, valid, projectID)
	return err
}

// SetIntegration points the project at a specific integration row.
func (r *ProjectRepo) SetIntegration(ctx context.Context, projectID, integrationID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET integration_id = $1 WHERE id = $2`, integrationID, projectID)
	return err
}

// DetachIntegration clears any project reference to the given integration.
// Called before an old duplicate credential row is deleted.
func (r *ProjectRepo) DetachIntegration(ctx context.Context, integrationID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET integration_id = NULL WHERE integration_id = $1`, integrationID)
	return err
}
