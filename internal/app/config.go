package service

import (
	"github.com/okian/skillmerge/internal/adapters/spreadsheet"
	"github.com/okian/skillmerge/internal/config"
	"github.com/okian/skillmerge/internal/domain/inference"
)

// WithConfig applies the process configuration: batch limits, the reader's
// charset and archive limits, and extra header aliases for the engine.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		WithParseWorkers(cfg.ParseWorkers)(s)
		WithMaxFiles(cfg.MaxFiles)(s)
		s.reader = spreadsheet.New(
			spreadsheet.WithCharset(cfg.XLSCharset),
			spreadsheet.WithMaxArchiveEntries(cfg.MaxArchiveEntries),
			spreadsheet.WithMaxMemberBytes(cfg.MaxUploadBytes()),
		)
		s.engine = inference.New(
			inference.WithSkillHeaders(cfg.SkillHeaderAliases...),
			inference.WithLevelHeaders(cfg.LevelHeaderAliases...),
		)
	}
}
