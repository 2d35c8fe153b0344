// README: AWS client initialization (SES for plan delivery).
package infra

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// NewSES builds an SES client from the default credential chain for region.
func NewSES(ctx context.Context, region string) (*ses.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}
