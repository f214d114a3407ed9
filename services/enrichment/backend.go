package enrichment

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ResponseShape selects the wire contract spoken by the text-generation backend
type ResponseShape string

const (
	// ShapeCompletions posts {inputs, parameters} to /{model} and reads [{generated_text}]
	ShapeCompletions ResponseShape = "completions"
	// ShapeChat posts {model, messages} to /chat/completions and reads choices[0].message.content
	ShapeChat ResponseShape = "chat"
)

var errMalformed = errors.New("unexpected backend response shape")

// ParseResponseShape validates a configured shape name
func ParseResponseShape(s string) (ResponseShape, error) {
	switch shape := ResponseShape(strings.ToLower(strings.TrimSpace(s))); shape {
	case ShapeCompletions, ShapeChat:
		return shape, nil
	default:
		return "", fmt.Errorf("unknown enrichment response shape %q (want %q or %q)", s, ShapeCompletions, ShapeChat)
	}
}

// BackendError is a non-2xx reply from the text-generation backend
type BackendError struct {
	StatusCode int
	Body       string
	Retryable  bool
}

// Error implements the error interface
func (e *BackendError) Error() string {
	return fmt.Sprintf("enrichment backend returned status %d: %s", e.StatusCode, e.Body)
}

func newBackendError(statusCode int, body []byte) *BackendError {
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return &BackendError{
		StatusCode: statusCode,
		Body:       msg,
		Retryable:  statusCode >= 500 || statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout,
	}
}

type completionsRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters completionsParameters `json:"parameters"`
}

type completionsParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	DoSample    bool    `json:"do_sample"`
}

type completionItem struct {
	GeneratedText *string `json:"generated_text"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// endpoint returns the request path and body for an instruction
func (s ResponseShape) endpoint(model, instruction string) (string, interface{}) {
	switch s {
	case ShapeChat:
		return "/chat/completions", chatRequest{
			Model:    model,
			Messages: []chatMessage{{Role: "user", Content: instruction}},
		}
	default:
		return "/" + model, completionsRequest{
			Inputs: instruction,
			Parameters: completionsParameters{
				MaxLength:   512,
				Temperature: 0.7,
				DoSample:    true,
			},
		}
	}
}

// extract pulls the trimmed text out of a response body. Any other shape is errMalformed.
func (s ResponseShape) extract(body []byte) (string, error) {
	var text *string

	switch s {
	case ShapeChat:
		var resp chatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("%w: %v", errMalformed, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: no choices", errMalformed)
		}
		text = resp.Choices[0].Message.Content
	case ShapeCompletions:
		var items []completionItem
		if err := json.Unmarshal(body, &items); err != nil {
			return "", fmt.Errorf("%w: %v", errMalformed, err)
		}
		if len(items) == 0 {
			return "", fmt.Errorf("%w: empty completion list", errMalformed)
		}
		text = items[0].GeneratedText
	default:
		return "", fmt.Errorf("%w: unsupported shape %q", errMalformed, s)
	}

	if text == nil {
		return "", fmt.Errorf("%w: text field missing", errMalformed)
	}
	trimmed := strings.TrimSpace(*text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty text", errMalformed)
	}
	return trimmed, nil
}

// BuildInstruction combines the style directive, optional context and the input text
func BuildInstruction(text, contextHint string) string {
	var b strings.Builder
	if hint := strings.TrimSpace(contextHint); hint != "" {
		b.WriteString("Context: ")
		b.WriteString(hint)
		b.WriteString("\n\n")
	}
	b.WriteString("Please improve and polish the following text to make it more professional, clear, and well-structured: ")
	b.WriteString(text)
	return b.String()
}
