package entity

import (
	"fmt"
	"strings"
)

const (
	// maxFilenameLength bounds stored filenames.
	maxFilenameLength = 255

	// maxCustomPromptLength bounds caller-supplied custom prompts.
	maxCustomPromptLength = 1000
)

// supportedContentTypes lists the document content types the service
// accepts. Binary container formats (PDF, DOCX) are handled by an external
// extraction service and arrive here as plain text.
var supportedContentTypes = map[string]bool{
	"text/plain": true,
	"text/html":  true,
}

// ValidateFilename validates a document filename for storage.
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return &ValidationError{Field: "filename", Message: "filename is required"}
	}
	if len(filename) > maxFilenameLength {
		return &ValidationError{
			Field:   "filename",
			Message: fmt.Sprintf("filename must not exceed %d characters", maxFilenameLength),
		}
	}
	// Path traversal protection for filenames echoed into storage and logs.
	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return &ValidationError{Field: "filename", Message: "filename must not contain path separators"}
	}
	return nil
}

// ValidateContentType checks that the declared document content type is one
// the service can extract text from.
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return &ValidationError{Field: "content_type", Message: "content_type is required"}
	}
	if !supportedContentTypes[contentType] {
		return &ValidationError{
			Field:   "content_type",
			Message: fmt.Sprintf("content type %q is invalid: must be text/plain or text/html", contentType),
		}
	}
	return nil
}

// ValidateCustomPrompt validates a caller-supplied prompt template string.
// Empty prompts are allowed (the named template is used instead); non-empty
// prompts are length-bounded and must satisfy the template invariants.
func ValidateCustomPrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}
	if len(prompt) > maxCustomPromptLength {
		return &ValidationError{
			Field:   "custom_prompt",
			Message: fmt.Sprintf("custom prompt must not exceed %d characters", maxCustomPromptLength),
		}
	}
	tmpl := Template{Key: "custom", Name: "Custom", Prompt: prompt}
	return tmpl.Validate()
}
