package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mach10-org/mach-app/internal/models"
	"github.com/mach10-org/mach-app/pkg/utils"
)

// ErrResetUnsupported signals that removing a single completion record is
// not implemented.
var ErrResetUnsupported = errors.New("resetting a completion record is not supported")

// Learning is the record store for the signed-in user's course completions.
// It keeps an in-memory copy of the user's learning rows and writes
// completions through to the backend.
//
// A Learning value belongs to one session; its methods are not safe for
// concurrent use.
type Learning struct {
	repo    models.Repository
	profile *Profile
	taken   []models.Learning
}

func NewLearning(repo models.Repository, profile *Profile) *Learning {
	return &Learning{repo: repo, profile: profile}
}

// Taken returns the cached learning list.
func (s *Learning) Taken() []models.Learning {
	return s.taken
}

func (s *Learning) setTaken(list []models.Learning) {
	s.taken = list
}

// Load fetches the user's learning records with their lessons and replaces
// the cached list. A backend failure is logged and yields an empty list; the
// load is not retried.
func (s *Learning) Load(ctx context.Context, userID string) []models.Learning {
	list, err := s.repo.ListLearning(ctx, userID)
	if err != nil {
		zap.S().Error("load learning records", zap.Error(err), zap.String("user", userID))
		list = []models.Learning{}
	}

	s.setTaken(list)
	return s.taken
}

// Record stores a lesson completion for the current user. Without a
// signed-in user it reports (false, nil). Backend failures never escape as
// panics; the boolean mirrors success and the error carries the reason.
func (s *Learning) Record(ctx context.Context, payload models.CoursePayload) (bool, error) {
	user, err := s.profile.User()
	if err != nil {
		zap.S().Error("resolve current user", zap.Error(err))
		return false, fmt.Errorf("resolve current user: %w", err)
	}
	if user == nil {
		return false, nil
	}

	ok, err := s.save(ctx, user.ID, payload)
	if err != nil {
		zap.S().Error("record completion", zap.Error(err),
			zap.String("course", payload.Course), zap.String("lesson", payload.Slug))
		return false, err
	}

	return ok, nil
}

// save looks up the user's course record, creates it if absent, then upserts
// the lesson row. The lookup-then-insert sequence is not guarded: two
// concurrent sessions completing lessons in the same new course can create
// duplicate learning rows, since the backend declares no uniqueness on
// ("user", slug).
func (s *Learning) save(ctx context.Context, userID string, payload models.CoursePayload) (bool, error) {
	courseID, err := s.repo.GetLearningID(ctx, userID, payload.Course)
	if err != nil {
		return false, fmt.Errorf("look up course record (user: %s, course: %s): %w", userID, payload.Course, err)
	}

	if courseID == "" {
		record := &models.Learning{
			User:      userID,
			Slug:      payload.Course,
			CreatedAt: utils.NowUTC(),
		}
		if payload.CourseInfo != nil {
			record.Quantity = payload.CourseInfo.Quantity
			record.Title = payload.CourseInfo.Title
		}

		created, err := s.repo.CreateLearning(ctx, record)
		if err != nil {
			zap.S().Warn("create course record", zap.Error(err),
				zap.String("user", userID), zap.String("course", payload.Course))
		} else {
			courseID = created.ID
		}
	}

	// Neither lookup nor insert produced a usable id.
	if courseID == "" {
		return false, nil
	}

	lesson := &models.LearningLesson{
		CourseID: courseID,
		Slug:     payload.Slug,
		Title:    payload.Title,
	}
	if _, err := s.repo.UpsertLearningLesson(ctx, lesson); err != nil {
		return false, fmt.Errorf("upsert lesson record (course_id: %s, lesson: %s): %w", courseID, payload.Slug, err)
	}

	return true, nil
}

// Reset is a stub: removal of a single completion record is not implemented.
// It returns the cached list unchanged together with ErrResetUnsupported.
func (s *Learning) Reset(payload models.CoursePayload) ([]models.Learning, error) {
	return s.taken, ErrResetUnsupported
}
