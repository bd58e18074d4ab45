package inference

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSkillHeaders adds header synonyms for the skill column.
func WithSkillHeaders(headers ...string) Option {
	return func(e *Engine) {
		e.vocab.skill.add(headers...)
	}
}

// WithLevelHeaders adds header synonyms for the level column.
func WithLevelHeaders(headers ...string) Option {
	return func(e *Engine) {
		e.vocab.level.add(headers...)
	}
}

// WithEmployeeHeaders adds header synonyms for an in-sheet employee column.
func WithEmployeeHeaders(headers ...string) Option {
	return func(e *Engine) {
		e.vocab.employee.add(headers...)
	}
}
