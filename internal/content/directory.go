package content

import "strings"

// DirectoryNode groups one top-level category's entries.
type DirectoryNode struct {
	// Slugs lists the leaf segment of every entry in the category, index
	// pages included, in enumeration order.
	Slugs []string
	// Courses lists the category's entries except its own index page.
	Courses []Entry
	// Entry holds the last entry seen for the category, whatever its kind.
	// When the category's index page is not last in enumeration order this
	// ends up pointing at a regular entry instead.
	Entry *Entry
}

// Directory maps top-level category names to their grouped entries.
type Directory map[string]*DirectoryNode

// Directories groups a collection's entries by the first segment of their
// slug. Entries whose slug has no category segment are skipped.
func Directories(c *Collection) Directory {
	dir := Directory{}

	for _, entry := range c.Entries() {
		segments := strings.Split(entry.Slug, "/")
		if len(segments) < 2 {
			continue
		}

		cat := segments[0]
		alias := segments[len(segments)-1]

		node, ok := dir[cat]
		if !ok {
			node = &DirectoryNode{}
			dir[cat] = node
		}

		node.Slugs = append(node.Slugs, alias)
		if !strings.Contains(entry.Slug, cat+"/"+indexMarker) {
			node.Courses = append(node.Courses, entry)
		}

		seen := entry
		node.Entry = &seen
	}

	return dir
}
