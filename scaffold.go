package pgmt

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/semver/v3"
)

//go:embed templates/new.sql
var newTemplateContent string

//go:embed templates/init.sql
var initTemplateContent string

var defaultTemplate = template.Must(template.New("new").Parse(newTemplateContent))

// DefaultTemplate returns the embedded default migration template's
// contents, for the CLI's migration-template command.
func DefaultTemplate() string {
	return strings.TrimSpace(newTemplateContent)
}

// TemplateData is passed to a migration-file template.
type TemplateData struct {
	Version string
	Slug    string
}

// Setup creates the migrations directory (if needed) and an initial
// placeholder migration file.
func Setup(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migrations directory: %w", err)
	}
	path := filepath.Join(dir, "V0.1.0__init.sql")
	if err := safeWriteFile(path, []byte(initTemplateContent), 0o644); err != nil {
		return "", fmt.Errorf("create migration file: %w", err)
	}
	return path, nil
}

// NewFile creates a new V<version>__<slug>.sql migration file in dir.
// If version is empty, it's the next patch release after the highest V
// version already present (or 0.1.0 if there are none).
func NewFile(dir, version, slug string, tmpl *template.Template) (string, error) {
	if tmpl == nil {
		tmpl = defaultTemplate
	}

	loaded, err := Load([]string{dir})
	if err != nil {
		return "", err
	}

	if version == "" {
		version = nextVersion(loaded).String()
	} else if _, err := semver.NewVersion(version); err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}

	slug = slugify(slug)
	name := fmt.Sprintf("V%s__%s.sql", version, slug)
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return path, tmpl.Execute(f, TemplateData{Version: version, Slug: slug})
}

func nextVersion(loaded []LoadedScript) *semver.Version {
	var highest *semver.Version
	for _, ls := range loaded {
		m, ok := Classify(ls)
		if !ok || m.Kind != KindV {
			continue
		}
		if highest == nil || m.Version.GreaterThan(highest) {
			highest = m.Version
		}
	}
	if highest == nil {
		v, _ := semver.NewVersion("0.1.0")
		return v
	}
	next := highest.IncPatch()
	return &next
}

var reSeparator = regexp.MustCompile(`[\-\s._/]+`)

func slugify(s string) string {
	return reSeparator.ReplaceAllString(strings.TrimSpace(s), "_")
}

// safeWriteFile is like os.WriteFile but fails if the file already
// exists, so setup never clobbers an existing migrations directory.
func safeWriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
