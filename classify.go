package pgmt

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MigrationKind is the single-character kind a filename classifies to.
type MigrationKind int

const (
	KindV MigrationKind = iota // forward
	KindU                      // undo
	KindR                      // repeatable
)

func (k MigrationKind) String() string {
	switch k {
	case KindV:
		return "V"
	case KindU:
		return "U"
	case KindR:
		return "R"
	default:
		return "?"
	}
}

// kindRank orders kinds U < V < R, per the filename classifier's total
// order. The U-before-V ordering is structural only (U is never applied
// by this core) but is kept stable for a future undo pass.
func (k MigrationKind) kindRank() int {
	switch k {
	case KindU:
		return 0
	case KindV:
		return 1
	default:
		return 2
	}
}

// Migration is a filename classified into a typed descriptor, carrying
// the loaded script content along with it.
type Migration struct {
	LoadedScript

	Kind MigrationKind

	// Version is the parsed semantic version for V and U migrations.
	// Nil for R.
	Version *semver.Version

	// VersionRaw is the exact version text from the filename for V/U
	// migrations (what gets stored in the version column), or the raw
	// repeatable identifier for R.
	VersionRaw string

	// Prefix is the single-character kind as recorded in the history
	// table's type column.
	Prefix string

	Description string
	Checksum    int32
}

// Classify parses a loaded script's file name into a Migration. It
// reports false when the name is unclassifiable (doesn't start with
// V/U/R, or the version segment of a V/U name isn't valid semver); an
// unclassifiable file is not an error, it is simply excluded from the
// applied stream.
func Classify(ls LoadedScript) (Migration, bool) {
	name := ls.FileName

	var kind MigrationKind
	var rest string
	switch {
	case strings.HasPrefix(name, "V"):
		kind, rest = KindV, name[1:]
	case strings.HasPrefix(name, "U"):
		kind, rest = KindU, name[1:]
	case strings.HasPrefix(name, "R"):
		kind, rest = KindR, name[1:]
	default:
		return Migration{}, false
	}

	m := Migration{
		LoadedScript: ls,
		Kind:         kind,
		Description:  description(name),
		Checksum:     Checksum(ls.Content),
	}

	if kind == KindR {
		m.Prefix = "R"
		m.VersionRaw = rest
		return m, true
	}

	versionStr := rest
	if idx := strings.Index(rest, "__"); idx >= 0 {
		versionStr = rest[:idx]
	}

	v, err := semver.NewVersion(versionStr)
	if err != nil {
		// I5: version doesn't parse as semver -> unsortable, excluded.
		return Migration{}, false
	}

	m.Version = v
	m.VersionRaw = versionStr
	m.Prefix = kind.String()
	return m, true
}

// description extracts the substring after the first "__", with
// underscores rendered as spaces. The .sql extension is kept as part
// of the description, matching the source behavior. Empty when "__"
// is absent.
func description(name string) string {
	idx := strings.Index(name, "__")
	if idx < 0 {
		return ""
	}
	return strings.ReplaceAll(name[idx+2:], "_", " ")
}

// Less implements the total order over classified migrations: kind
// order U < V < R; within U and V, ascending semver; within R,
// ascending raw identifier.
func Less(a, b Migration) bool {
	ra, rb := a.Kind.kindRank(), b.Kind.kindRank()
	if ra != rb {
		return ra < rb
	}
	if a.Kind == KindR {
		return a.VersionRaw < b.VersionRaw
	}
	return a.Version.LessThan(b.Version)
}
