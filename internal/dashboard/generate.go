// Package dashboard renders the Grafana dashboard JSON for the
// GreptimeDB round metrics from the template at the repository root.
package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"
)

const templateFile = "grafana-slo-dashboard.json.tmpl"

func rootDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}

// Render writes the rendered rounds dashboard to outDir.
func Render(outDir string) error {
	return RenderTemplate(filepath.Join(rootDir(), templateFile), outDir)
}

// RenderTemplate renders one dashboard template into outDir, dropping
// the .tmpl suffix from the output name. Datasource UIDs are resolved
// from the environment via the env template function; an unset variable
// fails the render.
func RenderTemplate(path, outDir string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	t, err := template.New(filepath.Base(path)).Funcs(funcMap).ParseFiles(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), ".tmpl"))
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := t.Execute(f, nil); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
