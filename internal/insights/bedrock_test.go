package insights

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	input  *bedrockruntime.InvokeModelInput
	output []byte
	err    error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.output}, nil
}

func TestBedrockCompleter_Complete(t *testing.T) {
	inv := &fakeInvoker{output: []byte(`{"content":[{"type":"text","text":"{\"primaryInsight\":"},{"type":"text","text":"{}}"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`)}
	c := NewBedrockCompleterWithClient(inv, BedrockConfig{ModelID: "anthropic.test"})

	text, err := c.Complete(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"primaryInsight":{}}`, text)

	assert.Equal(t, "anthropic.test", aws.ToString(inv.input.ModelId))
	var req bedrockRequest
	require.NoError(t, json.Unmarshal(inv.input.Body, &req))
	assert.Equal(t, "bedrock-2023-05-31", req.AnthropicVersion)
	assert.Equal(t, 500, req.MaxTokens)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, "sys", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "hello", req.Messages[0].Content[0].Text)
}

func TestBedrockCompleter_Error(t *testing.T) {
	c := NewBedrockCompleterWithClient(&fakeInvoker{err: errors.New("AccessDenied")}, BedrockConfig{})

	_, err := c.Complete(context.Background(), "sys", "hello")
	assert.ErrorContains(t, err, "AccessDenied")
	assert.Equal(t, defaultModelID, c.ModelID())
}
