package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mach10-org/mach-app/internal/models"
)

// GetLearningID returns the id of the user's course record for slug, or an
// empty string when no record exists yet.
func (r *Postgres) GetLearningID(ctx context.Context, userID, slug string) (string, error) {
	query := r.psql.Select("id").
		From("learning").
		Where(`"user" = ?`, userID).
		Where("slug = ?", slug)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", fmt.Errorf("build SQL query (user: %s, slug: %s): %w", userID, slug, err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, sql, args...); err != nil {
		return "", fmt.Errorf("look up learning record (user: %s, slug: %s): %w", userID, slug, err)
	}

	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// ListLearning returns all of the user's course records with their completed
// lessons attached.
func (r *Postgres) ListLearning(ctx context.Context, userID string) ([]models.Learning, error) {
	const query = `
		SELECT id, quantity, completed, "user", created_at, title, slug
		FROM learning
		WHERE "user" = $1
	`

	var records []models.Learning
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("query learning records (user: %s): %w", userID, err)
	}

	if len(records) == 0 {
		return records, nil
	}

	courseIDs := make([]string, len(records))
	for i, record := range records {
		courseIDs[i] = record.ID
	}

	lessonQuery := r.psql.Select("id", "slug", "title", "course_id", "updated_at").
		From("learning_lesson").
		Where(squirrel.Eq{"course_id": courseIDs})

	sql, args, err := lessonQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (user: %s): %w", userID, err)
	}

	var lessons []models.LearningLesson
	if err := r.db.SelectContext(ctx, &lessons, sql, args...); err != nil {
		return nil, fmt.Errorf("query learning lessons (user: %s): %w", userID, err)
	}

	byCourse := make(map[string][]models.LearningLesson, len(records))
	for _, lesson := range lessons {
		byCourse[lesson.CourseID] = append(byCourse[lesson.CourseID], lesson)
	}
	for i := range records {
		records[i].Lessons = byCourse[records[i].ID]
	}

	return records, nil
}

// CreateLearning inserts a new course record and returns the stored row with
// its generated id.
func (r *Postgres) CreateLearning(ctx context.Context, learning *models.Learning) (*models.Learning, error) {
	query := r.psql.Insert("learning").
		Columns(`"user"`, "slug", "title", "quantity", "created_at").
		Values(learning.User, learning.Slug, learning.Title, learning.Quantity, learning.CreatedAt).
		Suffix(`RETURNING id, quantity, completed, "user", created_at, title, slug`)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (user: %s, slug: %s): %w", learning.User, learning.Slug, err)
	}

	var created models.Learning
	if err := r.db.GetContext(ctx, &created, sql, args...); err != nil {
		return nil, fmt.Errorf("create learning record (user: %s, slug: %s): %w", learning.User, learning.Slug, err)
	}

	return &created, nil
}

// UpsertLearningLesson records a lesson completion, keyed on
// (course_id, slug) so a repeated completion updates the existing row.
func (r *Postgres) UpsertLearningLesson(ctx context.Context, lesson *models.LearningLesson) (*models.LearningLesson, error) {
	query := r.psql.Insert("learning_lesson").
		Columns("course_id", "slug", "title").
		Values(lesson.CourseID, lesson.Slug, lesson.Title).
		Suffix(`ON CONFLICT (course_id, slug)
			DO UPDATE SET title = EXCLUDED.title, updated_at = now()
			RETURNING id, slug, title, course_id, updated_at`)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (course_id: %s, slug: %s): %w", lesson.CourseID, lesson.Slug, err)
	}

	var stored models.LearningLesson
	if err := r.db.GetContext(ctx, &stored, sql, args...); err != nil {
		return nil, fmt.Errorf("upsert learning lesson (course_id: %s, slug: %s): %w", lesson.CourseID, lesson.Slug, err)
	}

	return &stored, nil
}
