package config

import "context"

type (
	configKey  struct{}
	workDirKey struct{}
)

// WithConfig attaches the loaded configuration to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the configuration attached to ctx, or defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}

// WithWorkDir attaches the invocation working directory to the context.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the invocation working directory, or "".
func WorkDirFromContext(ctx context.Context) string {
	dir, _ := ctx.Value(workDirKey{}).(string)
	return dir
}
