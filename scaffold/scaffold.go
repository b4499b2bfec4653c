// Package scaffold writes a new pressfront site from the embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains the scaffold files. They use text/template syntax and
// carry a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// Data holds the values passed to every template.
type Data struct {
	ProjectName string
	ModuleName  string
	SiteName    string
	SourceURL   string
}

// NewData derives template data from a module path such as
// "github.com/user/my-site".
func NewData(module, sourceURL string) Data {
	dir := path.Base(module)
	if sourceURL == "" {
		sourceURL = "http://wordpress.local"
	}
	return Data{
		ProjectName: dir,
		ModuleName:  module,
		SiteName:    Title(dir),
		SourceURL:   strings.TrimRight(sourceURL, "/"),
	}
}

// Generate writes the scaffold into dir, which must not exist yet. It
// returns the created files in walk order.
func Generate(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("scaffold: directory %q already exists", dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var created []string
	err := fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		out := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))
		if filepath.Base(out) == "dotenv" {
			out = filepath.Join(filepath.Dir(out), ".env.example")
		}

		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}

		content, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("scaffold: read %s: %w", p, err)
		}
		tmpl, err := template.New(path.Base(p)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("scaffold: parse %s: %w", p, err)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("scaffold: create %s: %w", out, err)
		}
		if err := tmpl.Execute(f, data); err != nil {
			f.Close()
			return fmt.Errorf("scaffold: execute %s: %w", p, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		created = append(created, out)
		return nil
	})
	return created, err
}

// Title converts a hyphenated name to title case: "my-site" -> "My Site".
func Title(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
