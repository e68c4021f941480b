package cli

import (
	"io"
	"log"
	"runtime"

	"antmenu/internal/config"
	"antmenu/internal/logx"
	"antmenu/internal/menu"
	"antmenu/internal/paths"
	"antmenu/internal/tools"
)

// Seams replaced in tests.
var (
	resolvePaths = paths.Resolve
	newManager   = menu.New
	toolLocator  = tools.Locator{}
	targetOS     = runtime.GOOS
)

type environment struct {
	paths  paths.InstallPaths
	cfg    config.Config
	logger *log.Logger
	closer io.Closer
}

// loadEnvironment resolves the install layout, loads the settings and opens
// the application log. A log that cannot be opened is replaced by a discarding
// logger.
func loadEnvironment(logPrefix string) (*environment, error) {
	pp, err := resolvePaths(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}

	env := &environment{paths: pp, cfg: cfg, logger: logx.Discard()}
	if logger, closer, err := logx.New(pp.LogsDir, logPrefix); err == nil {
		env.logger = logger
		env.closer = closer
		logger.Printf("config %s", pp.ConfigFile)
	}
	return env, nil
}

func (e *environment) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}
