package models

import "context"

// Repository is the remote backend surface used by the stores. Absence of a
// row is a normal branch (empty id, empty list), not an error.
type Repository interface {
	GetLearningID(ctx context.Context, userID, slug string) (string, error)
	ListLearning(ctx context.Context, userID string) ([]Learning, error)
	CreateLearning(ctx context.Context, learning *Learning) (*Learning, error)
	UpsertLearningLesson(ctx context.Context, lesson *LearningLesson) (*LearningLesson, error)

	UpsertProfile(ctx context.Context, profile *Profile) (*Profile, error)
}
