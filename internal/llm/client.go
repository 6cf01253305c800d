package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jobvault/pkg/models"
	"jobvault/pkg/utils"
)

// Client runs the two model passes of the capture pipeline on top of a
// Provider: de-noising raw page text into Markdown, then extracting the
// structured job record from that Markdown.
type Client struct {
	provider Provider
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewClient wraps a provider. timeout bounds each individual model call.
func NewClient(provider Provider, timeout time.Duration) *Client {
	return &Client{
		provider: provider,
		timeout:  timeout,
		logger:   utils.GetLogger(),
	}
}

// Denoise converts raw extracted page text into clean Markdown.
func (c *Client) Denoise(ctx context.Context, rawText string) (string, error) {
	start := time.Now()

	markdown, err := c.complete(ctx, buildDenoisePrompt(rawText))
	if err != nil {
		return "", err
	}

	c.logger.WithFields(logrus.Fields{
		"provider":        c.provider.Name(),
		"input_chars":     len(rawText),
		"output_chars":    len(markdown),
		"processing_time": time.Since(start),
	}).Info("De-noise pass completed")

	return strings.TrimSpace(markdown), nil
}

// ExtractJobData pulls the structured job record out of cleaned Markdown.
// Malformed model output is reported as an output error, never persisted.
func (c *Client) ExtractJobData(ctx context.Context, jobMarkdown string) (*models.JobData, error) {
	start := time.Now()

	response, err := c.complete(ctx, buildExtractPrompt(jobMarkdown))
	if err != nil {
		return nil, err
	}

	data, err := parseExtractResponse(response)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"provider":        c.provider.Name(),
		"title":           data.Title,
		"company":         data.Company,
		"required_skills": len(data.RequiredSkills),
		"processing_time": time.Since(start),
	}).Info("Extraction pass completed")

	return data, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.provider.Complete(ctx, prompt)
	if err != nil {
		return "", utils.NewLLMTransportError(
			fmt.Sprintf("%s call failed", c.provider.Name()), err)
	}
	return text, nil
}

// parseExtractResponse strips code fences, decodes the JSON and checks the
// contract fields are present.
func parseExtractResponse(response string) (*models.JobData, error) {
	cleaned := stripCodeFences(response)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, utils.NewLLMOutputError(fmt.Sprintf("invalid JSON: %v", err))
	}

	for _, field := range []string{"title", "company", "required_skills", "preferred_skills"} {
		if _, ok := fields[field]; !ok {
			return nil, utils.NewLLMOutputError(fmt.Sprintf("missing required field: %s", field))
		}
	}

	var data models.JobData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, utils.NewLLMOutputError(fmt.Sprintf("unexpected field types: %v", err))
	}

	return &data, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
