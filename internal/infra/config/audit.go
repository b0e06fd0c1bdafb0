package config

// AuditingConfig holds the configuration for grant auditing.
type AuditingConfig struct {
	// Persist stores audit events in Postgres in addition to the log stream.
	Persist bool `mapstructure:"persist"`
}
