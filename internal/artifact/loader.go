package artifact

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader reads artifacts from a single root directory. It holds no state
// beyond the root and is safe for concurrent use.
type Loader struct {
	Root string
}

// NewLoader creates a loader for the given artifact root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Resolve returns the filesystem path of a ref. The second result is false
// when the ref path is absolute or escapes the root.
func (l *Loader) Resolve(ref Ref) (string, bool) {
	if ref.Path == "" || path.IsAbs(ref.Path) || strings.Contains(ref.Path, `\`) {
		return "", false
	}
	clean := path.Clean(ref.Path)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return filepath.Join(l.Root, filepath.FromSlash(clean)), true
}

// Load reads and parses one artifact. It never returns an error; the outcome
// is reported in the Status of the result.
func (l *Loader) Load(ref Ref) Loaded {
	out := Loaded{Ref: ref}

	p, ok := l.Resolve(ref)
	if !ok {
		slog.Warn("artifact path escapes root", "ref", ref.String(), "path", ref.Path)
		out.Status = StatusMissing
		return out
	}

	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		slog.Debug("artifact missing", "ref", ref.String(), "path", p)
		out.Status = StatusMissing
		return out
	}
	if err != nil {
		return parseError(out, err)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return parseError(out, err)
	}

	switch ref.Kind {
	case KindTable:
		t, err := ParseTable(data)
		if err != nil {
			return parseError(out, err)
		}
		out.Table = t
	case KindHTML:
		out.HTML = string(data)
	case KindText:
		out.Text = string(data)
	default:
		return parseError(out, &UnknownKindError{Kind: ref.Kind})
	}

	out.Status = StatusOK
	slog.Debug("artifact loaded", "ref", ref.String(), "bytes", len(data))
	return out
}

// LoadAll loads every ref independently, preserving order. One failing
// artifact never prevents the others from loading.
func (l *Loader) LoadAll(refs []Ref) []Loaded {
	out := make([]Loaded, len(refs))
	for i, ref := range refs {
		out[i] = l.Load(ref)
	}
	return out
}

// UnknownKindError reports a ref whose kind the loader cannot parse.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return "unknown artifact kind " + string(e.Kind)
}

func parseError(out Loaded, err error) Loaded {
	slog.Warn("artifact unreadable", "ref", out.Ref.String(), "error", err)
	out.Status = StatusParseError
	out.Err = err.Error()
	return out
}
