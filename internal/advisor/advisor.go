// File path: internal/advisor/advisor.go
package advisor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/frameshift-dev/frameshift/internal/common"
	"github.com/frameshift-dev/frameshift/internal/component"
)

// Advisor produces a short remediation note for a failed component
// migration. The note is attached to the component record so it shows up in
// reports next to the failure reason.
type Advisor interface {
	Advise(ctx context.Context, meta component.Metadata, failure string) (string, error)
}

// New picks the best available advisor: the OpenAI-backed one when an API
// key is configured, otherwise the local heuristic advisor. Advice is
// strictly additive, so a missing key never degrades the migration itself.
func New() Advisor {
	key := os.Getenv("FRAMESHIFT_OPENAI_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return &LocalAdvisor{}
	}
	common.Logger().Info("advisor: using OpenAI-backed failure advisor")
	return NewOpenAI(key)
}

// LocalAdvisor maps common failure shapes to fixed remediation hints. It is
// deterministic and needs no network, which also makes it the advisor used
// in tests.
type LocalAdvisor struct{}

func (LocalAdvisor) Advise(_ context.Context, meta component.Metadata, failure string) (string, error) {
	lower := strings.ToLower(failure)
	switch {
	case strings.Contains(lower, "no such file") || strings.Contains(lower, "not found"):
		return fmt.Sprintf("source file %s is missing; re-run discovery after restoring it", meta.FilePath), nil
	case strings.Contains(lower, "no component declaration"):
		return "the file has no recognizable component declaration; check whether it is a helper module rather than a component", nil
	case strings.Contains(lower, "permission"):
		return fmt.Sprintf("output location is not writable; check permissions under the output root for %s", meta.Name), nil
	default:
		return fmt.Sprintf("inspect %s and re-queue %s once the cause of %q is fixed", meta.FilePath, meta.Name, failure), nil
	}
}

// OpenAIAdvisor asks a chat model for a remediation hint.
type OpenAIAdvisor struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAI(apiKey string) *OpenAIAdvisor {
	model := openai.ChatModel(os.Getenv("FRAMESHIFT_OPENAI_MODEL"))
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIAdvisor{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *OpenAIAdvisor) Advise(ctx context.Context, meta component.Metadata, failure string) (string, error) {
	prompt := fmt.Sprintf(
		"A %s component named %s (source file %s, complexity %d/100) failed to migrate to Leptos with this error:\n%s\nSuggest the single most likely fix in at most two sentences.",
		meta.Type, meta.Name, meta.FilePath, meta.Complexity, failure)
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a terse migration engineer. Answer with the fix only."),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("request advice: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("request advice: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
