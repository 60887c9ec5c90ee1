package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/envsync/internal/errors"
)

// Values maps snapshot keys to plaintext values.
type Values map[string]string

// FileName returns the snapshot file name for an environment.
func FileName(environment string) string {
	return ".env." + environment
}

// Path returns the snapshot path for an environment inside dir.
func Path(dir, environment string) string {
	return filepath.Join(dir, FileName(environment))
}

// Read loads the snapshot at path. A missing file is an empty snapshot.
func Read(path string) (Values, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Values{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	values, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// Parse reads KEY="VALUE" lines. Unquoted values are accepted verbatim.
func Parse(r io.Reader) (Values, error) {
	values := Values{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, raw, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: line %d: expected KEY=\"VALUE\"", kerrors.ErrInvalidSnapshot, lineNumber)
		}

		value, err := unquote(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v; expected KEY=\"VALUE\"", kerrors.ErrInvalidSnapshot, lineNumber, err)
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return values, nil
}

// Merge returns base overlaid with updates. Keys missing from updates are kept.
func Merge(base, updates Values) Values {
	merged := make(Values, len(base)+len(updates))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}

// Keys returns the keys of v in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format renders v as sorted KEY="VALUE" lines.
func Format(v Values) string {
	var b strings.Builder
	for _, k := range v.Keys() {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(quote(v[k]))
		b.WriteString("\n")
	}
	return b.String()
}

// Write replaces the snapshot at path with v.
func Write(path string, v Values) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Format(v)), 0600); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot %s: %w", path, err)
	}
	return nil
}

// Update merges updates into the snapshot at path and writes the result.
func Update(path string, updates Values) (Values, error) {
	current, err := Read(path)
	if err != nil {
		return nil, err
	}
	merged := Merge(current, updates)
	if err := Write(path, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func quote(value string) string {
	return `"` + quoter.Replace(value) + `"`
}

// unquote decodes a value. A quoted value may be followed by a # comment.
func unquote(raw string) (string, error) {
	if !strings.HasPrefix(raw, `"`) {
		return raw, nil
	}

	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '"':
			rest := strings.TrimSpace(raw[i+1:])
			if rest != "" && !strings.HasPrefix(rest, "#") {
				return "", fmt.Errorf("unexpected %q after closing quote (only a # comment may follow)", rest)
			}
			return b.String(), nil
		case '\\':
			i++
			if i == len(raw) {
				return "", errors.New("dangling escape")
			}
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\':
				b.WriteByte(raw[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(raw[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errors.New("unterminated quoted value")
}
