// Package buildfile reads the project header and targets of an Ant build file.
package buildfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotProject is returned when the document root is not <project>.
var ErrNotProject = errors.New("root element is not <project>")

// Project is the subset of an Ant project the runner cares about.
type Project struct {
	Name        string   `xml:"name,attr" json:"name,omitempty"`
	Default     string   `xml:"default,attr" json:"default,omitempty"`
	BaseDir     string   `xml:"basedir,attr" json:"basedir,omitempty"`
	Description string   `xml:"description" json:"description,omitempty"`
	Targets     []Target `xml:"target" json:"targets"`
}

// Target is a single <target> element.
type Target struct {
	Name        string `xml:"name,attr" json:"name"`
	Description string `xml:"description,attr" json:"description,omitempty"`
	Depends     string `xml:"depends,attr" json:"depends,omitempty"`
}

// Parse reads the build file at path.
func Parse(path string) (Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, fmt.Errorf("open build file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a build file document.
func Decode(r io.Reader) (Project, error) {
	dec := xml.NewDecoder(r)
	// Build files routinely declare encodings such as GBK or ISO-8859-1;
	// only the ASCII structure matters here.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Project{}, fmt.Errorf("parse build file: %w", ErrNotProject)
			}
			return Project{}, fmt.Errorf("parse build file: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "project" {
			return Project{}, fmt.Errorf("parse build file: %w (found <%s>)", ErrNotProject, start.Name.Local)
		}
		var p Project
		if err := dec.DecodeElement(&p, &start); err != nil {
			return Project{}, fmt.Errorf("parse build file: %w", err)
		}
		p.trim()
		return p, nil
	}
}

func (p *Project) trim() {
	p.Description = strings.TrimSpace(p.Description)
	kept := p.Targets[:0]
	for _, t := range p.Targets {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		kept = append(kept, t)
	}
	p.Targets = kept
}

// LooksLikeAnt reports whether the project carries Ant's usual header
// attributes or declares at least one target.
func (p Project) LooksLikeAnt() bool {
	return p.Name != "" || p.Default != "" || p.BaseDir != "" || len(p.Targets) > 0
}

// HasTarget reports whether name is declared in the file.
func (p Project) HasTarget(name string) bool {
	for _, t := range p.Targets {
		if t.Name == name {
			return true
		}
	}
	return false
}

// DisplayName returns the project name or a placeholder.
func (p Project) DisplayName() string {
	if p.Name == "" {
		return "Unknown Project"
	}
	return p.Name
}
