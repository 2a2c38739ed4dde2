// Command ppm manages Python projects: scaffolding, packages and scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/custodia-labs/ppm/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ppm/internal/adapters/driven/pip"
	"github.com/custodia-labs/ppm/internal/adapters/driven/shell"
	"github.com/custodia-labs/ppm/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ppm/internal/adapters/driven/vcs"
	"github.com/custodia-labs/ppm/internal/adapters/driving/cli"
	"github.com/custodia-labs/ppm/internal/config"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/core/services"
	"github.com/custodia-labs/ppm/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Getenv("PPM_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppm: %v\n", err)
		return 1
	}

	templates, err := file.NewTemplateStore(cfg.Templates.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppm: %v\n", err)
		return 1
	}

	// A missing shell only matters to run, start and build.
	var sh driven.Shell
	sh, err = shell.Select(shell.Kind(cfg.Shell.Kind), runtime.GOOS)
	if err != nil {
		sh = &shell.Unavailable{Err: err}
	}

	var history driven.HistoryStore
	if cfg.History.Enabled {
		journal := sqlite.NewLazyHistoryStore(cfg.HistoryDir("."))
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Warn("close history: %v", err)
			}
		}()
		history = journal
	}

	manifests := file.NewManifestStore(cfg.Project.Manifest)
	env := pip.NewEnvironment(cfg.Project.EnvDir, cfg.Python.Interpreter)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Packages: services.NewPackageService(manifests, env, history, cli.NewConfirmer(os.Stdin, os.Stderr)),
		Scripts:  services.NewScriptService(manifests, env, sh),
		Projects: services.NewProjectService(
			manifests,
			file.NewManifestStoreFactory(),
			pip.NewFactory(cfg.Python.Interpreter),
			vcs.NewGit(),
			templates,
			services.ProjectLayout{
				ManifestFile: cfg.Project.Manifest,
				EnvDir:       cfg.Project.EnvDir,
			},
		),
		History: services.NewHistoryService(history),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.ExecuteContext(ctx)
}
