package config

// AWSConfig represents the AWS configuration used by the S3 catalogue backend.
type AWSConfig struct {
	Region   string `mapstructure:"region"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Key    string `mapstructure:"s3_key"`
}
