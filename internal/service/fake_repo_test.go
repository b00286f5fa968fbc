package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mach10-org/mach-app/internal/localstate"
	"github.com/mach10-org/mach-app/internal/models"
	"github.com/mach10-org/mach-app/internal/service"
)

// fakeRepo is an in-memory models.Repository. It enforces the same
// constraints the backend declares: uniqueness on (course_id, slug) for
// lessons, and none for learning rows.
type fakeRepo struct {
	lookupErr  error
	listErr    error
	createErr  error
	upsertErr  error
	profileErr error

	learning []models.Learning
	lessons  []models.LearningLesson
	profiles map[string]models.Profile

	createCalls        int
	upsertProfileCalls int
	nextID             int
}

func (f *fakeRepo) genID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeRepo) GetLearningID(ctx context.Context, userID, slug string) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	for _, record := range f.learning {
		if record.User == userID && record.Slug == slug {
			return record.ID, nil
		}
	}
	return "", nil
}

func (f *fakeRepo) ListLearning(ctx context.Context, userID string) ([]models.Learning, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Learning
	for _, record := range f.learning {
		if record.User != userID {
			continue
		}
		for _, lesson := range f.lessons {
			if lesson.CourseID == record.ID {
				record.Lessons = append(record.Lessons, lesson)
			}
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeRepo) CreateLearning(ctx context.Context, learning *models.Learning) (*models.Learning, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *learning
	created.ID = f.genID()
	f.learning = append(f.learning, created)
	return &created, nil
}

func (f *fakeRepo) UpsertLearningLesson(ctx context.Context, lesson *models.LearningLesson) (*models.LearningLesson, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	for i := range f.lessons {
		if f.lessons[i].CourseID == lesson.CourseID && f.lessons[i].Slug == lesson.Slug {
			f.lessons[i].Title = lesson.Title
			f.lessons[i].UpdatedAt = time.Now().UTC()
			stored := f.lessons[i]
			return &stored, nil
		}
	}
	stored := *lesson
	stored.ID = f.genID()
	stored.UpdatedAt = time.Now().UTC()
	f.lessons = append(f.lessons, stored)
	return &stored, nil
}

func (f *fakeRepo) UpsertProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	f.upsertProfileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profiles == nil {
		f.profiles = make(map[string]models.Profile)
	}
	stored := *profile
	f.profiles[stored.ID] = stored
	return &stored, nil
}

func newProfile(t *testing.T, repo models.Repository) *service.Profile {
	t.Helper()
	state, err := localstate.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })
	return service.NewProfile(repo, state)
}
