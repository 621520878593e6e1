package processor

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
)

// AzureStreamer opens streaming completions against an Azure OpenAI
// deployment. The deployment name travels in the Model param.
type AzureStreamer struct {
	client openai.Client
}

func NewAzureStreamer(endpoint, apiKey, apiVersion string) *AzureStreamer {
	client := openai.NewClient(
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	)
	return &AzureStreamer{client: client}
}

func (s *AzureStreamer) Stream(ctx context.Context, params openai.ChatCompletionNewParams) ChatStream {
	return s.client.Chat.Completions.NewStreaming(ctx, params)
}
