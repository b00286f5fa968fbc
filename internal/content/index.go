package content

import (
	"strings"

	"go.uber.org/zap"
)

// AllCourseIndex returns the active course index entries of a collection.
// Each returned entry's slug has the index suffix rewritten so it points at
// the course root.
func AllCourseIndex(c *Collection) []Entry {
	list := c.Filter(func(e Entry) bool {
		return !e.Data.Draft && strings.Contains(e.ID, "/"+indexMarker)
	})

	for i := range list {
		list[i].Slug = strings.Replace(list[i].Slug, "/"+indexMarker, "/", 1)
	}

	return list
}

// CourseLessons returns the active lessons of one course, excluding the
// course's own index entry.
func CourseLessons(c *Collection, course string) []Entry {
	return c.Filter(func(e Entry) bool {
		return strings.HasPrefix(e.ID, course+"/") &&
			!e.Data.Draft &&
			!strings.Contains(e.ID, course+"/"+indexMarker)
	})
}

// AllLessons returns every active lesson in the collection.
func AllLessons(c *Collection) []Entry {
	return c.Filter(func(e Entry) bool {
		return !e.Data.Draft && !strings.Contains(e.ID, "/"+indexMarker)
	})
}

// CourseIndex looks up the entry whose slug is exactly "course/" and renders
// it. A missing entry or a render failure yields nil rather than an error.
func CourseIndex(c *Collection, course string) *Render {
	entry, ok := c.EntryBySlug(course + "/")
	if !ok {
		return nil
	}

	rendered, err := entry.Render()
	if err != nil {
		zap.S().Debug("render course index", zap.Error(err), zap.String("course", course))
		return nil
	}

	return &rendered
}
