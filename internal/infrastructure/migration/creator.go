package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix     = ".up.sql"
	downSuffix   = ".down.sql"
	versionWidth = 6
)

var pairTemplate = template.Must(template.New("migration").Parse(
	`-- {{.Version}} {{.Name}} ({{.Direction}})
-- Created: {{.Created}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// File is one scaffolded migration pair
type File struct {
	Version     uint
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// Entry is a migration found on disk
type Entry struct {
	Version uint
	Name    string
	HasDown bool
}

// String renders the entry as its file base name
func (e Entry) String() string {
	return formatVersion(e.Version) + "_" + e.Name
}

// Create writes an empty up/down pair numbered one past the highest
// existing version, so golang-migrate's sequential ordering holds
func Create(dir, name, description string) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(dir)
	if err != nil {
		return nil, err
	}
	var version uint = 1
	if n := len(existing); n > 0 {
		version = existing[n-1].Version + 1
	}

	base := filepath.Join(dir, formatVersion(version)+"_"+slug)
	f := &File{
		Version:     version,
		Name:        slug,
		Description: strings.TrimSpace(description),
		UpPath:      base + upSuffix,
		DownPath:    base + downSuffix,
	}

	created := time.Now().UTC().Format(time.RFC3339)
	if err := writeTemplate(f.UpPath, f, "up", created); err != nil {
		return nil, err
	}
	if err := writeTemplate(f.DownPath, f, "down", created); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func writeTemplate(path string, f *File, direction, created string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer out.Close()

	return pairTemplate.Execute(out, map[string]string{
		"Version":     formatVersion(f.Version),
		"Name":        f.Name,
		"Direction":   direction,
		"Created":     created,
		"Description": f.Description,
	})
}

// List returns the migrations in dir ordered by version.
// A missing directory yields an empty list.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[uint]*Entry)
	downs := make(map[uint]bool)
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		switch {
		case strings.HasSuffix(name, upSuffix):
			version, slug, ok := parseBase(strings.TrimSuffix(name, upSuffix))
			if ok {
				byVersion[version] = &Entry{Version: version, Name: slug}
			}
		case strings.HasSuffix(name, downSuffix):
			if version, _, ok := parseBase(strings.TrimSuffix(name, downSuffix)); ok {
				downs[version] = true
			}
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for version, e := range byVersion {
		e.HasDown = downs[version]
		entries = append(entries, *e)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return int(a.Version) - int(b.Version)
	})
	return entries, nil
}

func parseBase(base string) (uint, string, bool) {
	prefix, slug, found := strings.Cut(base, "_")
	if !found || slug == "" {
		return 0, "", false
	}
	n, err := strconv.ParseUint(prefix, 10, 32)
	if err != nil {
		return 0, "", false
	}
	return uint(n), slug, true
}

func formatVersion(v uint) string {
	return fmt.Sprintf("%0*d", versionWidth, v)
}

// sanitizeName lower-cases name and collapses separators to single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
