package providers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Dialect translates between the gateway's provider-agnostic call and one
// provider's wire format. Implementations are stateless.
type Dialect interface {
	// Name returns the dialect identifier ("gemini", "openai", "ollama").
	Name() string

	// BuildRequest produces the request URL, JSON body, and headers for a
	// single optimization call.
	BuildRequest(cfg GatewayConfig, prompt string, opts CallOptions) (url string, body []byte, headers map[string]string, err error)

	// ParseResponse extracts the rewritten text and the native completion
	// token count from a success response body. A zero token count means the
	// provider reported no usage and the caller should estimate.
	ParseResponse(body []byte) (text string, tokens int, err error)
}

// NewDialect returns the dialect for a provider type.
func NewDialect(providerType string) (Dialect, error) {
	switch providerType {
	case "gemini":
		return geminiDialect{}, nil
	case "openai":
		return openaiDialect{}, nil
	case "ollama":
		return ollamaDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", providerType)
	}
}

var optimizedPrefix = regexp.MustCompile(`(?i)^optimized prompt:\s*`)

// cleanText trims the model output: surrounding whitespace, a single pair of
// wrapping quotes, and a leading "Optimized prompt:" echo.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)
	text = optimizedPrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func defaultedOptions(opts CallOptions) CallOptions {
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}
	return opts
}

// geminiDialect speaks the generateContent API.
type geminiDialect struct{}

func (geminiDialect) Name() string { return "gemini" }

func (geminiDialect) BuildRequest(cfg GatewayConfig, prompt string, opts CallOptions) (string, []byte, map[string]string, error) {
	opts = defaultedOptions(opts)

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": prompt}},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     opts.Temperature,
			"maxOutputTokens": opts.MaxTokens,
			"topP":            opts.TopP,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model)
	headers := map[string]string{
		"Content-Type":   "application/json",
		"x-goog-api-key": cfg.APIKey,
	}

	return url, body, headers, nil
}

func (geminiDialect) ParseResponse(body []byte) (string, int, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			CandidatesTokenCount int `json:"candidatesTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", 0, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("response contains no candidates")
	}
	return cleanText(resp.Candidates[0].Content.Parts[0].Text), resp.UsageMetadata.CandidatesTokenCount, nil
}

// openaiDialect speaks the chat/completions API. Used for Groq and other
// OpenAI-compatible endpoints.
type openaiDialect struct{}

func (openaiDialect) Name() string { return "openai" }

func (openaiDialect) BuildRequest(cfg GatewayConfig, prompt string, opts CallOptions) (string, []byte, map[string]string, error) {
	opts = defaultedOptions(opts)

	payload := map[string]any{
		"model": cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": fmt.Sprintf("Optimize this prompt: %q", prompt)},
		},
		"temperature": opts.Temperature,
		"max_tokens":  opts.MaxTokens,
		"top_p":       opts.TopP,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + cfg.APIKey,
	}

	return url, body, headers, nil
}

func (openaiDialect) ParseResponse(body []byte) (string, int, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", 0, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", 0, fmt.Errorf("response contains no choices")
	}
	return cleanText(resp.Choices[0].Message.Content), resp.Usage.CompletionTokens, nil
}

// ollamaDialect speaks the local api/generate API. The system framing is
// inlined into the prompt because the generate endpoint has no message roles.
type ollamaDialect struct{}

func (ollamaDialect) Name() string { return "ollama" }

func (ollamaDialect) BuildRequest(cfg GatewayConfig, prompt string, opts CallOptions) (string, []byte, map[string]string, error) {
	opts = defaultedOptions(opts)

	payload := map[string]any{
		"model":  cfg.Model,
		"prompt": fmt.Sprintf("%s\n\nOriginal prompt: %q\n\nOptimized prompt:", systemPrompt, prompt),
		"stream": false,
		"options": map[string]any{
			"temperature": opts.Temperature,
			"num_predict": opts.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/api/generate"
	headers := map[string]string{"Content-Type": "application/json"}

	return url, body, headers, nil
}

func (ollamaDialect) ParseResponse(body []byte) (string, int, error) {
	var resp struct {
		Response  string `json:"response"`
		EvalCount int    `json:"eval_count"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", 0, err
	}
	if resp.Response == "" {
		return "", 0, fmt.Errorf("response contains no text")
	}
	return cleanText(resp.Response), resp.EvalCount, nil
}
