// Package bedrock implements the provider adapter for AWS Bedrock using the
// runtime InvokeModel API with the Anthropic messages body format.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"campus-ai/agent-gateway/pkg/providers"
)

// defaultMaxTokens caps the completion length when no limit is configured.
const defaultMaxTokens = 1024

// invokeAPI is the client surface used by the adapter; narrowed to an
// interface so tests can stub InvokeModel without AWS credentials.
type invokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client talks to the Bedrock runtime. Credentials come from the standard
// AWS chain (env, shared config, instance role); only the region is taken
// from provider configuration.
type Client struct {
	config providers.Config
	client invokeAPI
}

// NewProvider creates the Bedrock adapter.
func NewProvider(ctx context.Context, config providers.Config) (*Client, error) {
	if config.Region == "" {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderBedrock,
			Field:    "region",
			Message:  "AWS region is required",
		}
	}
	if config.Model == "" {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderBedrock,
			Field:    "model",
			Message:  "model id is required",
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, &providers.ConfigError{
			Provider: providers.ProviderBedrock,
			Field:    "region",
			Message:  fmt.Sprintf("failed to load AWS config: %v", err),
		}
	}

	return &Client{
		config: config,
		client: bedrockruntime.NewFromConfig(awsCfg),
	}, nil
}

// Generate performs one completion via InvokeModel.
func (c *Client) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	payload, err := json.Marshal(newInvokeBody(req, c.config))
	if err != nil {
		return nil, &providers.BadResponseError{
			Provider: providers.ProviderBedrock,
			Message:  fmt.Sprintf("failed to encode request: %v", err),
			Err:      err,
		}
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, c.classifyError(err, model)
	}

	var resp invokeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, &providers.BadResponseError{
			Provider: providers.ProviderBedrock,
			Message:  fmt.Sprintf("failed to decode response: %v", err),
			Err:      err,
		}
	}

	return resp.toGenerateResponse(model)
}

// HealthCheck verifies the adapter is usable without a paid model
// invocation. The SDK client validates credentials lazily, so this checks
// construction succeeded; reachability surfaces on the first Generate.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.client == nil {
		return &providers.UnreachableError{
			Provider: providers.ProviderBedrock,
			Err:      errors.New("client not initialized"),
		}
	}
	return nil
}

// Name returns the provider id.
func (c *Client) Name() string {
	return providers.ProviderBedrock
}

// Close is a no-op; the SDK client holds no resources needing release.
func (c *Client) Close() error {
	return nil
}

// classifyError maps SDK failures to the typed provider errors. A service
// response (smithy.APIError) means Bedrock answered and rejected the call;
// anything else is a transport failure.
func (c *Client) classifyError(err error, model string) error {
	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return &providers.ModelNotFoundError{
			Provider: providers.ProviderBedrock,
			Model:    model,
		}
	}

	var modelTimeout *brtypes.ModelTimeoutException
	if errors.As(err, &modelTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return &providers.TimeoutError{
			Provider: providers.ProviderBedrock,
			Timeout:  c.config.Timeout,
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &providers.BadResponseError{
			Provider: providers.ProviderBedrock,
			Message:  fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage()),
			Err:      err,
		}
	}

	return &providers.UnreachableError{
		Provider: providers.ProviderBedrock,
		Err:      err,
	}
}
