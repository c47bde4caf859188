package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fintechbuddy/insights-api/config"
	"github.com/fintechbuddy/insights-api/models"
)

// ============================================================================
// GROQ AI SERVICE - Q&A over the uploaded transactions
// Plain chat-completions call; the dataset is inlined into the prompt.
// ============================================================================

const (
	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

	// maxPayloadChars bounds the serialized dataset handed to the model.
	// Above the ceiling only the most recent tailRows rows are sent.
	maxPayloadChars = 35000
	tailRows        = 200
)

// ErrAINotConfigured means the query path is disabled: no credential or no
// model in the environment.
var ErrAINotConfigured = errors.New(
	"Groq API key or model not configured, set GROQ_API_KEY and GROQ_MODEL in your environment")

// UpstreamError wraps a failure from the Groq API, with the underlying
// detail preserved. Actionable is set when the configured model looks
// decommissioned and the fix is a config change, not a retry.
type UpstreamError struct {
	Msg        string
	Actionable bool
}

func (e *UpstreamError) Error() string {
	return e.Msg
}

type GroqService struct {
	cfg        *config.AIConfig
	endpoint   string
	httpClient *http.Client
}

func NewGroqService(cfg *config.AIConfig) *GroqService {
	return &GroqService{
		cfg:        cfg,
		endpoint:   groqEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// groqChoice keeps Message raw: the answer has been observed under several
// shapes (object with "content", object with "text", plain string) and the
// extractor tries each in turn.
type groqChoice struct {
	Message json.RawMessage `json:"message"`
	Text    string          `json:"text"`
}

type groqResponse struct {
	Choices []groqChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// AskQuestion sends the current dataset plus the user's question to Groq
// and returns the model's textual answer.
func (s *GroqService) AskQuestion(ctx context.Context, ds *models.Dataset, question string) (string, error) {
	apiKey, model := s.cfg.Credentials()
	if apiKey == "" || model == "" {
		return "", ErrAINotConfigured
	}

	prompt := buildPrompt(ds.Transactions, question)

	reqBody := groqRequest{
		Model:       model,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", classifyUpstream(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyUpstream(fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyUpstream(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(body, &groqResp); err != nil {
		return "", classifyUpstream(fmt.Sprintf("failed to parse response: %v", err))
	}
	if groqResp.Error != nil {
		return "", classifyUpstream(groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return "", &UpstreamError{Msg: "empty response from model"}
	}

	answer := extractAnswer(groqResp.Choices[0])
	if answer == "" {
		return "", &UpstreamError{Msg: "model response contained no answer text in any known shape"}
	}
	return answer, nil
}

// buildPrompt serializes the transactions (bounded) and appends the user's
// question with the standing analysis instructions.
func buildPrompt(txs []models.Transaction, question string) string {
	payload := serializeBounded(txs)

	return "You are a Financial Spending Analysis AI.\n" +
		"You are given a user's bank transaction history in JSON format:\n\n" +
		payload + "\n\n" +
		fmt.Sprintf("The user asks: %q\n\n", question) +
		"Analyze the data carefully and return:\n" +
		"- A clear answer to the question\n" +
		"- Exact numbers if required\n" +
		"- Additional insights & warnings\n" +
		"- Spending optimization tips\n\n" +
		"The answer must be simple and accurate."
}

func serializeBounded(txs []models.Transaction) string {
	full, err := json.Marshal(txs)
	if err != nil {
		return "[]"
	}
	if len(full) <= maxPayloadChars {
		return string(full)
	}

	tail := txs
	if len(tail) > tailRows {
		tail = tail[len(tail)-tailRows:]
	}
	trimmed, err := json.Marshal(tail)
	if err != nil {
		return "[]"
	}
	return string(trimmed)
}

// answerExtractors is the ordered list of response shapes tried for the
// answer text. First non-empty result wins.
var answerExtractors = []func(groqChoice) string{
	func(c groqChoice) string { return messageField(c.Message, "content") },
	func(c groqChoice) string { return messageField(c.Message, "text") },
	func(c groqChoice) string {
		var s string
		if json.Unmarshal(c.Message, &s) == nil {
			return s
		}
		return ""
	},
	func(c groqChoice) string { return c.Text },
}

func extractAnswer(choice groqChoice) string {
	for _, extract := range answerExtractors {
		if answer := strings.TrimSpace(extract(choice)); answer != "" {
			return answer
		}
	}
	return ""
}

func messageField(raw json.RawMessage, field string) string {
	if len(raw) == 0 {
		return ""
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return ""
	}
	var s string
	if json.Unmarshal(obj[field], &s) != nil {
		return ""
	}
	return s
}

// classifyUpstream matches the decommissioned-model signature so the caller
// gets a reconfigure hint instead of a bare failure.
func classifyUpstream(detail string) *UpstreamError {
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "decommission") || strings.Contains(lower, "model_decommissioned") {
		return &UpstreamError{
			Msg: "configured Groq model appears decommissioned, update GROQ_MODEL to a supported model " +
				"(see https://console.groq.com/docs/deprecations). Original error: " + detail,
			Actionable: true,
		}
	}
	return &UpstreamError{Msg: "LLM request failed: " + detail}
}
