package html2textile

import (
	"log/slog"
	"strings"
)

// Option configures conversion behavior.
type Option func(*config)

// config is copied into every Engine. Both allow-lists are empty unless a
// caller fills them: unknown tags are dropped and no attributes survive
// pass-through by default.
type config struct {
	permittedTags  map[string]struct{}
	permittedAttrs map[string]struct{}
	strict         bool
	logger         *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithPermittedTags adds tag names that are passed through as literal markup
// when no Textile rule exists for them.
func WithPermittedTags(tags ...string) Option {
	return func(cfg *config) {
		cfg.permittedTags = addNames(cfg.permittedTags, tags)
	}
}

// WithPermittedAttributes adds attribute keys that are kept on passed-through
// tags.
func WithPermittedAttributes(attrs ...string) Option {
	return func(cfg *config) {
		cfg.permittedAttrs = addNames(cfg.permittedAttrs, attrs)
	}
}

// WithAllowList applies both lists of an AllowList.
func WithAllowList(list AllowList) Option {
	return func(cfg *config) {
		cfg.permittedTags = addNames(cfg.permittedTags, list.Tags)
		cfg.permittedAttrs = addNames(cfg.permittedAttrs, list.Attributes)
	}
}

// WithStrict makes conversion fail on unbalanced captures instead of
// recovering from them.
func WithStrict(enabled bool) Option {
	return func(cfg *config) {
		cfg.strict = enabled
	}
}

// WithLogger sets the logger used for diagnostics. Nothing is logged by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func addNames(set map[string]struct{}, names []string) map[string]struct{} {
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(names))
		}
		set[name] = struct{}{}
	}
	return set
}
