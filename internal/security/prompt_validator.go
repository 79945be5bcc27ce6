// Package security screens user prompts before they reach the model and
// records audit events for every chat round-trip.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

const DefaultMaxPromptLength = 2000

// injectionPatterns covers the common prompt-injection phrasings.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)override\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)new\s+context\s*:`),
	regexp.MustCompile(`(?i)change\s+context\s*:`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an)\s`),
	regexp.MustCompile(`(?i)instead\s+of\s+the\s+above`),
	regexp.MustCompile(`(?i)reveal\s+your\s+system\s+prompt`),
}

// ValidationResult reports whether a prompt may proceed.
type ValidationResult struct {
	Valid   bool
	Message string
}

// PromptValidator rejects empty, oversized and injection-shaped prompts.
type PromptValidator struct {
	maxLength int
}

func NewPromptValidator(maxLength int) *PromptValidator {
	if maxLength <= 0 {
		maxLength = DefaultMaxPromptLength
	}
	return &PromptValidator{maxLength: maxLength}
}

func (v *PromptValidator) Validate(prompt string) ValidationResult {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ValidationResult{Message: "prompt is empty"}
	}
	if len(prompt) > v.maxLength {
		return ValidationResult{
			Message: fmt.Sprintf("prompt exceeds maximum length of %d characters", v.maxLength),
		}
	}
	for _, p := range injectionPatterns {
		if p.MatchString(prompt) {
			return ValidationResult{Message: "prompt contains a disallowed instruction pattern"}
		}
	}
	return ValidationResult{Valid: true}
}
