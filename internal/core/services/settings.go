package services

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
)

// LoadSettings reads and validates the run configuration.
//
// commitText is the commit given in interactive mode and may be empty.
// openCache is used to inspect the reuse directory and to empty the cache
// directory. The cache directory is only created and emptied once every
// other value has been validated.
func LoadSettings(cfg driven.ConfigStore, commitText string, openCache CacheOpener) (*domain.Settings, error) {
	s := &domain.Settings{
		OS:         cfg.GetString(domain.KeyOS),
		VCS:        cfg.GetString(domain.KeyVCS),
		Extraction: domain.Properties(cfg.Sub(domain.PrefixExtraction)),
		Analysis:   domain.Properties(cfg.Sub(domain.PrefixAnalysis)),
		CommitText: commitText,
	}
	if s.OS == "" {
		s.OS = runtime.GOOS
	}

	var errs []error
	if s.VCS == "" {
		errs = append(errs, invalid(domain.KeyVCS, "not set"))
	}

	level, err := cfg.GetInt(domain.KeyLogLevel, domain.DefaultLogLevel)
	switch {
	case err != nil:
		errs = append(errs, invalid(domain.KeyLogLevel, err.Error()))
	case level < 0 || level > 2:
		errs = append(errs, invalid(domain.KeyLogLevel, "must be 0, 1 or 2"))
	default:
		s.LogLevel = level
	}

	maxElements, err := cfg.GetInt(domain.KeyQueueMaxElements, domain.DefaultQueueElements)
	switch {
	case err != nil:
		errs = append(errs, invalid(domain.KeyQueueMaxElements, err.Error()))
	case maxElements < domain.MinQueueElements || maxElements > domain.MaxQueueElements:
		errs = append(errs, invalid(domain.KeyQueueMaxElements,
			fmt.Sprintf("must be between %d and %d", domain.MinQueueElements, domain.MaxQueueElements)))
	default:
		s.QueueMaxElements = maxElements
	}

	errs = append(errs, validateExtraction(s, openCache)...)
	errs = append(errs, validateAnalysis(s.Analysis)...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := prepareCache(s.Extraction, openCache); err != nil {
		return nil, err
	}
	return s, nil
}

func validateExtraction(s *domain.Settings, openCache CacheOpener) []error {
	props := s.Extraction

	if dir := props.Get(domain.KeyReuse); dir != "" {
		if !isDir(dir) {
			return []error{invalid(domain.KeyReuse, dir+" is not a directory")}
		}
		if openCache == nil {
			return []error{invalid(domain.KeyReuse, "no commit cache available")}
		}
		paths, err := openCache(dir).List()
		if err != nil || len(paths) == 0 {
			return []error{invalid(domain.KeyReuse, dir+" holds no cached commits")}
		}
		return nil
	}

	var errs []error
	if !props.Has(domain.KeyExtractor) {
		errs = append(errs, invalid(domain.KeyExtractor, "not set"))
	}

	if s.CommitText == "" {
		input := props.Get(domain.KeyInput)
		switch {
		case input == "":
			errs = append(errs, invalid(domain.KeyInput, "not set"))
		case exists(input) && !isDir(input):
			errs = append(errs, invalid(domain.KeyInput, input+" is not a directory"))
		}

		if list := props.Get(domain.KeyCommitList); list != "" {
			if info, err := os.Stat(list); err != nil || !info.Mode().IsRegular() {
				errs = append(errs, invalid(domain.KeyCommitList, list+" is not a readable file"))
			}
		}
	}

	if dir := props.Get(domain.KeyCache); dir != "" && exists(dir) && !isDir(dir) {
		errs = append(errs, invalid(domain.KeyCache, dir+" is not a directory"))
	}
	return errs
}

func validateAnalysis(props domain.Properties) []error {
	var errs []error
	if !props.Has(domain.KeyAnalyzer) {
		errs = append(errs, invalid(domain.KeyAnalyzer, "not set"))
	}
	if out := props.Get(domain.KeyOutput); out != "" && out != domain.MemoryOutput && !isDir(out) {
		errs = append(errs, invalid(domain.KeyOutput, out+" is not an existing directory"))
	}
	return errs
}

// prepareCache creates the cache directory if needed and removes earlier
// cache files from it. Nothing happens in reuse mode.
func prepareCache(props domain.Properties, openCache CacheOpener) error {
	dir := props.Get(domain.KeyCache)
	if dir == "" || props.Has(domain.KeyReuse) {
		return nil
	}
	if openCache == nil {
		return invalid(domain.KeyCache, "no commit cache available")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := openCache(dir).Clear(); err != nil {
		return fmt.Errorf("clear cache directory: %w", err)
	}
	return nil
}

func invalid(key, reason string) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrInvalidConfig, key, reason)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
