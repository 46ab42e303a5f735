// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// ProjectStore manages projects and the technology rows they own.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore returns a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `p.id, p.title, p.slug, p.summary, p.description, p.category_id, p.status,
	p.cover_image_url, p.demo_url, p.repo_url, p.featured, p.priority, p.view_count, p.like_count,
	p.is_public, p.is_active, p.key_features, p.challenges, p.results, p.gallery,
	p.created_at, p.updated_at`

const projectSelect = `SELECT ` + projectColumns + `,
	c.id, c.name, c.slug, c.color
	FROM projects p
	LEFT JOIN project_categories c ON c.id = p.category_id`

func scanProjectFields(row scanner, extra ...any) (*models.Project, error) {
	var p models.Project
	dest := []any{
		&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Description, &p.CategoryID, &p.Status,
		&p.CoverImageURL, &p.DemoURL, &p.RepoURL, &p.Featured, &p.Priority, &p.ViewCount, &p.LikeCount,
		&p.IsPublic, &p.IsActive, jsonInto(&p.KeyFeatures), jsonInto(&p.Challenges),
		jsonInto(&p.Results), jsonInto(&p.Gallery), &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProject scans a projectSelect row, expanding the joined category.
func scanProject(row scanner) (*models.Project, error) {
	var (
		catID                    uuid.NullUUID
		catName, catSlug, catCol sql.NullString
	)
	p, err := scanProjectFields(row, &catID, &catName, &catSlug, &catCol)
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		p.Category = &models.ProjectCategory{
			ID: catID.UUID, Name: catName.String, Slug: catSlug.String, Color: catCol.String,
		}
	}
	return p, nil
}

// List returns every project, highest priority first, with categories and
// technologies expanded.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, projectSelect+` ORDER BY p.priority DESC, p.created_at DESC`)
}

// ListPublic returns the projects shown on the public site.
func (s *ProjectStore) ListPublic(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, projectSelect+`
		WHERE p.is_public AND p.is_active
		ORDER BY p.priority DESC, p.created_at DESC`)
}

func (s *ProjectStore) list(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects, err := collect(rows, scanProject)
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	if err := s.attachTechnologies(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByID retrieves a project with its relations. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.find(ctx, `WHERE p.id = $1`, id)
}

// FindBySlug retrieves a listed project by slug. Returns nil if not found.
func (s *ProjectStore) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.find(ctx, `WHERE p.slug = $1 AND p.is_public AND p.is_active`, slug)
}

func (s *ProjectStore) find(ctx context.Context, where string, arg any) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, projectSelect+" "+where, arg))
	if p, err = notFound(p, err, "find project"); err != nil || p == nil {
		return nil, err
	}
	one := []models.Project{*p}
	if err := s.attachTechnologies(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// attachTechnologies loads the technology rows of all projects in one query.
func (s *ProjectStore) attachTechnologies(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, len(projects))
	index := make(map[uuid.UUID]int, len(projects))
	for i, p := range projects {
		ids[i] = p.ID.String()
		index[p.ID] = i
		projects[i].Technologies = []models.ProjectTechnology{}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.project_id, pt.technology_id, pt.proficiency_level, pt.is_primary, pt.display_order,
		       `+prefixed("t.", technologyColumns)+`
		FROM project_technologies pt
		JOIN technologies t ON t.id = pt.technology_id
		WHERE pt.project_id = ANY($1::uuid[])
		ORDER BY pt.display_order
	`, ids)
	if err != nil {
		return fmt.Errorf("list project technologies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pt models.ProjectTechnology
		var t models.Technology
		if err := rows.Scan(
			&pt.ProjectID, &pt.TechnologyID, &pt.ProficiencyLevel, &pt.IsPrimary, &pt.DisplayOrder,
			&t.ID, &t.Name, &t.Slug, &t.Category, &t.Icon, &t.IconURL, &t.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan project technology: %w", err)
		}
		pt.Technology = &t
		i := index[pt.ProjectID]
		projects[i].Technologies = append(projects[i].Technologies, pt)
	}
	return rows.Err()
}

// SlugExists reports whether a project other than exclude uses slug.
func (s *ProjectStore) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)
	`, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check project slug: %w", err)
	}
	return exists, nil
}

// CreateProject inserts the project record only.
func (s *ProjectStore) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	return insertProject(ctx, s.db, p)
}

// UpdateProject updates the project record only.
func (s *ProjectStore) UpdateProject(ctx context.Context, p *models.Project) error {
	return updateProject(ctx, s.db, p)
}

// ReplaceTechnologies deletes every technology row of the project and
// inserts techs in their place.
func (s *ProjectStore) ReplaceTechnologies(ctx context.Context, projectID uuid.UUID, techs []models.ProjectTechnology) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		return replaceTechnologies(ctx, tx, projectID, techs)
	})
}

// SaveProjectAtomic creates or updates the project and replaces its
// technology rows in one transaction. A zero ID creates.
func (s *ProjectStore) SaveProjectAtomic(ctx context.Context, p *models.Project, techs []models.ProjectTechnology) (*models.Project, error) {
	var saved *models.Project
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if p.ID == uuid.Nil {
			created, err := insertProject(ctx, tx, p)
			if err != nil {
				return err
			}
			saved = created
		} else {
			if err := updateProject(ctx, tx, p); err != nil {
				return err
			}
			saved = p
		}
		for i := range techs {
			techs[i].ProjectID = saved.ID
		}
		return replaceTechnologies(ctx, tx, saved.ID, techs)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func insertProject(ctx context.Context, q querier, p *models.Project) (*models.Project, error) {
	row := q.QueryRowContext(ctx, `
		INSERT INTO projects AS p (title, slug, summary, description, category_id, status,
			cover_image_url, demo_url, repo_url, featured, priority, is_public, is_active,
			key_features, challenges, results, gallery)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+projectColumns,
		p.Title, p.Slug, p.Summary, p.Description, p.CategoryID, p.Status,
		p.CoverImageURL, p.DemoURL, p.RepoURL, p.Featured, p.Priority, p.IsPublic, p.IsActive,
		jsonb{p.KeyFeatures}, jsonb{p.Challenges}, jsonb{p.Results}, jsonb{p.Gallery},
	)
	created, err := scanProjectFields(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

func updateProject(ctx context.Context, q querier, p *models.Project) error {
	res, err := q.ExecContext(ctx, `
		UPDATE projects SET
			title = $1, slug = $2, summary = $3, description = $4, category_id = $5, status = $6,
			cover_image_url = $7, demo_url = $8, repo_url = $9, featured = $10, priority = $11,
			is_public = $12, is_active = $13, key_features = $14, challenges = $15, results = $16,
			gallery = $17, updated_at = NOW()
		WHERE id = $18
	`, p.Title, p.Slug, p.Summary, p.Description, p.CategoryID, p.Status,
		p.CoverImageURL, p.DemoURL, p.RepoURL, p.Featured, p.Priority,
		p.IsPublic, p.IsActive, jsonb{p.KeyFeatures}, jsonb{p.Challenges}, jsonb{p.Results},
		jsonb{p.Gallery}, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update project: %w", ErrNotFound)
	}
	return nil
}

func replaceTechnologies(ctx context.Context, q querier, projectID uuid.UUID, techs []models.ProjectTechnology) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM project_technologies WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("clear project technologies: %w", err)
	}
	for i, t := range techs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO project_technologies (project_id, technology_id, proficiency_level, is_primary, display_order)
			VALUES ($1, $2, $3, $4, $5)
		`, projectID, t.TechnologyID, t.ProficiencyLevel, t.IsPrimary, i)
		if err != nil {
			return fmt.Errorf("insert project technology %s: %w", t.TechnologyID, err)
		}
	}
	return nil
}

// Delete removes a project. Its technology rows cascade.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// Like increments the like counter and returns the new value.
func (s *ProjectStore) Like(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		UPDATE projects SET like_count = like_count + 1 WHERE id = $1 RETURNING like_count
	`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("like project: %w", err)
	}
	return n, nil
}
