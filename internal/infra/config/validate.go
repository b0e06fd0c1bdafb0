package config

import (
	"errors"
	"fmt"
)

// CheckBackends validates the settings that depend on the selected backends.
func (c *Config) CheckBackends() error {
	var errs []error
	switch c.Persistence.Type {
	case "file":
		if c.Persistence.File.Path == "" {
			errs = append(errs, errors.New("persistence.file.path is required for the file backend"))
		}
	case "s3":
		if c.AWS.Region == "" || c.AWS.S3Bucket == "" {
			errs = append(errs, errors.New("aws.region and aws.s3_bucket are required for the s3 backend"))
		}
	}
	if c.NeedsDatabase() && c.Persistence.Database.URL == "" {
		errs = append(errs, fmt.Errorf("persistence.database.url is required (persistence=%s rewards=%s audit=%t)",
			c.Persistence.Type, c.Rewards.Backend, c.Auditing.Persist))
	}
	return errors.Join(errs...)
}
