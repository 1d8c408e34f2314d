// Package scaffold creates new manifest projects from embedded templates.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed all:templates
var templatesFS embed.FS

// Scaffolder handles project initialization from templates
type Scaffolder struct {
	verbose bool
}

// NewScaffolder creates a new Scaffolder instance
func NewScaffolder(verbose bool) *Scaffolder {
	return &Scaffolder{
		verbose: verbose,
	}
}

// CreateProject creates a new manifest project from a template. packageName
// becomes the manifest's package attribute.
func (s *Scaffolder) CreateProject(packageName, templateName, targetPath string) error {
	templatePath := fmt.Sprintf("templates/%s", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return fmt.Errorf("template '%s' not found: %w", templateName, err)
	}

	isEmpty, err := isDirectoryEmpty(targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return fmt.Errorf("target directory '%s' is not empty\n\nmanifmerge init requires an empty directory to avoid overwriting existing files.\n\nOptions:\n• Choose a different location\n• Remove existing files manually\n• Use a new directory name", targetPath)
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	s.logVerbose("Creating project '%s' at %s with template '%s'", packageName, targetPath, templateName)

	if err := s.copyTemplateFiles(templatePath, targetPath, packageName); err != nil {
		return fmt.Errorf("failed to copy template files: %w", err)
	}

	s.logVerbose("Project created successfully")
	return nil
}

// copyTemplateFiles recursively copies files from embedded template to target directory
func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath, packageName string) error {
	return fs.WalkDir(templatesFS, templatePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == templatePath {
			return nil
		}

		relPath, err := filepath.Rel(templatePath, path)
		if err != nil {
			return err
		}
		target := filepath.Join(targetPath, relPath)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		processed := s.processTemplate(string(content), packageName)
		if err := os.WriteFile(target, []byte(processed), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}

		s.logVerbose("Created %s", target)
		return nil
	})
}

// processTemplate substitutes the {{package}} token. The token is distinct
// from the ${name} placeholder syntax so templates can ship runtime
// placeholders untouched.
func (s *Scaffolder) processTemplate(content, packageName string) string {
	return strings.ReplaceAll(content, "{{package}}", packageName)
}

func (s *Scaffolder) logVerbose(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}

// ListTemplates returns the available template names.
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isDirectoryEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}
