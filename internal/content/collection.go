// Package content provides read-only views over a static content collection:
// per-course and per-lesson listings, index-entry rendering, and the nested
// category directory used by the course navigation.
package content

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// indexMarker is the slug segment naming a course or category landing page.
const indexMarker = "_index"

const frontmatterDelim = "---"

// EntryData is the frontmatter head of a content entry.
type EntryData struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
	Quantity    int    `yaml:"quantity"`
}

// Entry is one content item: a course, a lesson, or an index page.
// ID is the file path relative to the collection root including the
// extension; Slug is the same path without it.
type Entry struct {
	ID   string
	Slug string
	Data EntryData

	body []byte
}

// Render is the head/body pair produced by rendering an entry.
type Render struct {
	Head EntryData
	HTML string
}

// Render converts the entry body to HTML.
func (e Entry) Render() (Render, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(e.body, &buf); err != nil {
		return Render{}, fmt.Errorf("render entry (id: %s): %w", e.ID, err)
	}
	return Render{Head: e.Data, HTML: buf.String()}, nil
}

// Collection is an immutable, build-time set of content entries enumerated
// in lexical path order.
type Collection struct {
	name    string
	entries []Entry
}

// Load reads every markdown file below dir on fs into a collection.
func Load(fs billy.Filesystem, dir string) (*Collection, error) {
	col := &Collection{name: dir}
	if err := col.walk(fs, dir, ""); err != nil {
		return nil, err
	}

	sort.Slice(col.entries, func(i, j int) bool {
		return col.entries[i].ID < col.entries[j].ID
	})

	return col, nil
}

func (c *Collection) walk(fs billy.Filesystem, root, rel string) error {
	infos, err := fs.ReadDir(path.Join(root, rel))
	if err != nil {
		return fmt.Errorf("read content dir (collection: %s, dir: %s): %w", c.name, rel, err)
	}

	for _, info := range infos {
		childRel := path.Join(rel, info.Name())
		if info.IsDir() {
			if err := c.walk(fs, root, childRel); err != nil {
				return err
			}
			continue
		}

		ext := path.Ext(info.Name())
		if ext != ".md" && ext != ".mdx" {
			continue
		}

		entry, err := readEntry(fs, path.Join(root, childRel), childRel)
		if err != nil {
			return err
		}
		c.entries = append(c.entries, entry)
	}

	return nil
}

func readEntry(fs billy.Filesystem, filePath, rel string) (Entry, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return Entry{}, fmt.Errorf("open content file (path: %s): %w", filePath, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return Entry{}, fmt.Errorf("read content file (path: %s): %w", filePath, err)
	}

	entry := Entry{
		ID:   rel,
		Slug: strings.TrimSuffix(rel, path.Ext(rel)),
	}

	entry.Data, entry.body, err = splitFrontmatter(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("parse frontmatter (path: %s): %w", filePath, err)
	}

	return entry, nil
}

// splitFrontmatter separates a leading YAML frontmatter block from the
// markdown body. A file without a frontmatter block is all body.
func splitFrontmatter(raw []byte) (EntryData, []byte, error) {
	var data EntryData

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, frontmatterDelim+"\n") {
		return data, []byte(text), nil
	}

	rest := text[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim)
	if end < 0 {
		return data, []byte(text), nil
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &data); err != nil {
		return EntryData{}, nil, err
	}

	body := rest[end+len(frontmatterDelim)+1:]
	body = strings.TrimPrefix(body, "\n")

	return data, []byte(body), nil
}

// Entries returns the collection's entries in enumeration order. The
// returned slice is shared; callers must not modify it.
func (c *Collection) Entries() []Entry {
	return c.entries
}

// Filter returns copies of the entries for which keep reports true,
// preserving enumeration order.
func (c *Collection) Filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, entry := range c.entries {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// EntryBySlug returns the entry whose slug matches exactly.
func (c *Collection) EntryBySlug(slug string) (Entry, bool) {
	for _, entry := range c.entries {
		if entry.Slug == slug {
			return entry, true
		}
	}
	return Entry{}, false
}
