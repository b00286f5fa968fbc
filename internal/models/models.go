package models

import "time"

// Learning is one course-progress record: one row per (user, course).
// A row is created the first time the user completes a lesson in the course
// and is never deleted in the normal flow.
type Learning struct {
	ID        string    `db:"id" json:"id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Completed bool      `db:"completed" json:"completed"`
	User      string    `db:"user" json:"user"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`

	Lessons []LearningLesson `db:"-" json:"learning_lesson"`
}

// LearningLesson marks a single lesson as completed within a course.
// Unique on (course_id, slug), so repeated completions upsert.
type LearningLesson struct {
	ID        string    `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Title     string    `db:"title" json:"title"`
	CourseID  string    `db:"course_id" json:"course_id"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is the backend row for a user's public profile, keyed on the
// user's id and written via upsert.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Username  string    `db:"username" json:"username"`
	XP        int       `db:"xp" json:"xp"`
}

// UserMetadata is the mutable part of the cached user; the xp counter lives
// here and mirrors the profiles row after an upsert.
type UserMetadata struct {
	Username string `json:"username"`
	XP       int    `json:"xp"`
}

// User is the signed-in identity cached in local state between sessions.
type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

// CourseInfo carries course metadata supplied by the caller for the case
// where no course record exists yet.
type CourseInfo struct {
	Quantity int
	Title    string
}

// CoursePayload describes a lesson completion: the course slug, the lesson
// slug, and optional metadata used when a new course record must be created.
type CoursePayload struct {
	Course     string
	Slug       string
	Next       string
	CourseInfo *CourseInfo
	Title      string
}
