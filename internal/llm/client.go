// Package llm wraps the chat-completion providers. Provider failures never
// escape: the caller always gets an answer, possibly a canned fallback with
// the Fallback flag set.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"personachat/internal/config"
	"personachat/internal/models"
)

// Result carries the generated answer and whether the canned fallback was
// substituted for a real provider response.
type Result struct {
	Answer   string
	Fallback bool
}

// Client talks to one configured chat-completion provider.
type Client struct {
	chatModel model.ToolCallingChatModel
	provider  string
}

// NewClient builds the provider-specific chat model. Unknown providers and
// construction failures are hard errors; runtime generation failures are not.
func NewClient(ctx context.Context, provider string, provCfg config.ProviderConfig) (*Client, error) {
	var chatModel model.ToolCallingChatModel
	var err error

	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{APIKey: provCfg.APIKey})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &Client{chatModel: chatModel, provider: provider}, nil
}

// Provider reports which provider this client talks to.
func (c *Client) Provider() string {
	if c == nil {
		return ""
	}
	return c.provider
}

// Generate asks the provider for an answer. The system prompt carries the
// persona instruction and any grounding context; history supplies prior
// turns for multi-turn context. On any provider error (or a nil client when
// no provider is configured) the canned fallback is returned instead.
func (c *Client) Generate(ctx context.Context, systemPrompt, question string, history []models.ChatMessage) Result {
	if c == nil || c.chatModel == nil {
		return Result{Answer: FallbackAnswer(question), Fallback: true}
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, &schema.Message{Role: schema.System, Content: systemPrompt})
	for _, msg := range history {
		role := schema.User
		if msg.Role == models.RoleAssistant {
			role = schema.Assistant
		}
		messages = append(messages, &schema.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: question})

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		log.Printf("provider %s generate failed: %v", c.provider, err)
		return Result{Answer: FallbackAnswer(question), Fallback: true}
	}
	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		log.Printf("provider %s returned empty answer", c.provider)
		return Result{Answer: FallbackAnswer(question), Fallback: true}
	}
	return Result{Answer: answer}
}
