package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"turbols/internal/service"
)

const defaultConfigName = "turbols.toml"

// loadVocabulary seeds a service from, in order: a vocabulary snapshot,
// a turbols.toml project file, and a JSON step-list payload. Each source is
// optional; an explicitly named file that fails to load is an error.
func loadVocabulary(cmd *cobra.Command, svc *service.Service) error {
	flags := cmd.Root().PersistentFlags()

	if path, _ := flags.GetString("vocab"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read vocabulary snapshot: %w", err)
		}
		if err := svc.Restore(data); err != nil {
			return err
		}
	}

	tomlPath, _ := flags.GetString("toml")
	explicit := tomlPath != ""
	if tomlPath == "" {
		tomlPath = defaultConfigName
	}
	cfg, err := service.LoadFileConfig(tomlPath)
	switch {
	case err == nil:
		if err := svc.ApplyFileConfig(cfg); err != nil {
			return err
		}
		if cfg.StepsFile != "" {
			if err := loadSteps(svc, cfg.StepsFile); err != nil {
				return err
			}
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if path, _ := flags.GetString("steps"); path != "" {
		if err := loadSteps(svc, path); err != nil {
			return err
		}
	}
	return nil
}

func loadSteps(svc *service.Service, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read step list: %w", err)
	}
	return svc.SetStepList(raw, true)
}
