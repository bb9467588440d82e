package filter

import (
	"strconv"
	"strings"

	"github.com/alexbilevskiy/tgfocus/internal/models"
)

type entry struct {
	id     int64
	isId   bool
	text   string
	handle string
}

type Exclusions struct {
	ignorePinned bool
	entries      []entry
}

// Parse builds exclusions from raw config entries. Entries that parse as an
// integer are treated as chat ids, everything else as a handle or title.
func Parse(raw []string, ignorePinned bool) *Exclusions {
	e := &Exclusions{ignorePinned: ignorePinned}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		en := entry{text: strings.ToLower(r), handle: strings.ToLower(strings.TrimPrefix(r, "@"))}
		if id, err := strconv.ParseInt(r, 10, 64); err == nil {
			en.id = id
			en.isId = true
		}
		e.entries = append(e.entries, en)
	}

	return e
}

func (e *Exclusions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.entries)
}

func (e *Exclusions) ShouldExclude(d models.Dialog) bool {
	if e == nil {
		return false
	}
	if e.ignorePinned && d.Pinned {
		return true
	}

	id := d.ID()
	title := strings.ToLower(d.Title)
	username := strings.ToLower(d.Username)
	for _, en := range e.entries {
		if en.isId && id != 0 && id == en.id {
			return true
		}
		if username != "" && username == en.handle {
			return true
		}
		if title != "" && title == en.text {
			return true
		}
	}

	return false
}
