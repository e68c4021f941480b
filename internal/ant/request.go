package ant

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BuildFileExt is the only extension Execute accepts.
const BuildFileExt = ".xml"

// Request describes one build invocation. Construct it with NewRequest.
type Request struct {
	TargetFile string        `json:"target_file"`
	Target     string        `json:"target,omitempty"`
	Timeout    time.Duration `json:"timeout"`
	WorkingDir string        `json:"working_dir"`
}

// NewRequest builds a request for file. An empty target runs the project's
// default target; an empty workingDir means the build file's directory.
func NewRequest(file, target string, timeoutSeconds int, workingDir string) (Request, error) {
	if timeoutSeconds <= 0 {
		return Request{}, fmt.Errorf("%w: timeout must be positive, got %ds", ErrInvalidInput, timeoutSeconds)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if workingDir == "" {
		workingDir = filepath.Dir(abs)
	}
	return Request{
		TargetFile: abs,
		Target:     strings.TrimSpace(target),
		Timeout:    time.Duration(timeoutSeconds) * time.Second,
		WorkingDir: workingDir,
	}, nil
}

// Validate checks the request without touching the process layer.
func (r Request) Validate() error {
	if r.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(r.TargetFile) == "" {
		return fmt.Errorf("%w: no build file given", ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(r.TargetFile), BuildFileExt) {
		return fmt.Errorf("%w: %s is not an XML file", ErrInvalidInput, r.TargetFile)
	}
	info, err := os.Stat(r.TargetFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: build file does not exist: %s", ErrInvalidInput, r.TargetFile)
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidInput, r.TargetFile)
	}
	if r.WorkingDir != "" {
		if info, err := os.Stat(r.WorkingDir); err != nil || !info.IsDir() {
			return fmt.Errorf("%w: working directory %s is not a directory", ErrInvalidInput, r.WorkingDir)
		}
	}
	return nil
}

// Args returns the Ant command line arguments.
func (r Request) Args() []string {
	args := []string{"-f", r.TargetFile}
	if r.Target != "" {
		args = append(args, r.Target)
	}
	return args
}

// TargetLabel names the target for display.
func (r Request) TargetLabel() string {
	if r.Target == "" {
		return "(default target)"
	}
	return r.Target
}

func (r Request) dir() string {
	if r.WorkingDir != "" {
		return r.WorkingDir
	}
	return filepath.Dir(r.TargetFile)
}
