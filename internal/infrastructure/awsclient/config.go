// Package awsclient builds the shared AWS SDK configuration used by the
// S3, DynamoDB, CloudWatch and CloudWatch Logs adapters.
package awsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// Settings are the connection parameters common to all AWS clients.
type Settings struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadConfig creates an AWS config. Static credentials are used when both keys
// are set, otherwise the default credential chain applies.
func LoadConfig(ctx context.Context, s Settings) (aws.Config, error) {
	region := strings.TrimSpace(s.Region)
	if region == "" {
		region = DefaultRegion
	}

	optFns := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	accessKeyID := strings.TrimSpace(s.AccessKeyID)
	secretAccessKey := strings.TrimSpace(s.SecretAccessKey)
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return aws.Config{}, fmt.Errorf("both access key id and secret access key are required for static credentials")
		}
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cfg, nil
}

// Endpoint returns a pointer suitable for a client's BaseEndpoint option,
// or nil when the SDK default endpoint should be used.
func Endpoint(raw string) *string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return nil
	}
	return aws.String(endpoint)
}
