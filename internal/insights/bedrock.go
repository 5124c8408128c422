package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	defaultModelID     = "anthropic.claude-3-haiku-20240307-v1:0"
	defaultMaxTokens   = 500
	defaultTemperature = 0.7
)

// Completer turns a system and user prompt into raw completion text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// InvokeModelAPI is the subset of the Bedrock runtime client used here.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockConfig configures the Bedrock completer.
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float64
}

type bedrockMessage struct {
	Role    string               `json:"role"`
	Content []bedrockContentPart `json:"content"`
}

type bedrockContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// BedrockCompleter calls an Anthropic model through AWS Bedrock.
type BedrockCompleter struct {
	client      InvokeModelAPI
	modelID     string
	maxTokens   int
	temperature float64
}

// NewBedrockCompleter loads the default AWS config for the region.
func NewBedrockCompleter(ctx context.Context, cfg BedrockConfig) (*BedrockCompleter, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	log.Printf("[insights] Bedrock completer model=%s region=%s", modelOrDefault(cfg.ModelID), cfg.Region)
	return NewBedrockCompleterWithClient(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewBedrockCompleterWithClient wraps an existing runtime client.
func NewBedrockCompleterWithClient(client InvokeModelAPI, cfg BedrockConfig) *BedrockCompleter {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	return &BedrockCompleter{
		client:      client,
		modelID:     modelOrDefault(cfg.ModelID),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func modelOrDefault(id string) string {
	if id == "" {
		return defaultModelID
	}
	return id
}

// ModelID returns the configured model.
func (b *BedrockCompleter) ModelID() string {
	return b.modelID
}

// Complete sends one user turn and concatenates the text blocks returned.
func (b *BedrockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        b.maxTokens,
		System:           system,
		Messages: []bedrockMessage{{
			Role:    "user",
			Content: []bedrockContentPart{{Type: "text", Text: user}},
		}},
		Temperature: b.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	log.Printf("[insights] completion in=%d out=%d tokens stop=%s",
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
	return text.String(), nil
}
