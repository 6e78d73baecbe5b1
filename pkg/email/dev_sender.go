package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements EmailSender for local runs. Each email is written to
// dir as <stamp>_<tag>.html and .json, plus one file per attachment.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a sender that writes emails to dir, creating it on demand.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type emailMetadata struct {
	Timestamp   string       `json:"timestamp"`
	SendTo      string       `json:"send_to"`
	Subject     string       `json:"subject"`
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// SendEmail writes the email and its attachments to the configured directory.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	// Nanoseconds keep two reports sent in the same second apart.
	base := fmt.Sprintf("%s_%09d_%s", now.Format("2006_01_02_150405"), now.Nanosecond(), sanitizeFilename(identifier))

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
	}

	for _, a := range params.Attachments {
		name := base + "_" + sanitizeFilename(a.Filename)
		if err := os.WriteFile(filepath.Join(d.dir, name), a.Content, 0o644); err != nil {
			return fmt.Errorf("%w: failed to write attachment: %v", ErrFailedToSendEmail, err)
		}
	}

	jsonData, err := json.MarshalIndent(emailMetadata{
		Timestamp:   now.Format(time.RFC3339),
		SendTo:      params.SendTo,
		Subject:     params.Subject,
		Tag:         params.Tag,
		Attachments: params.Attachments,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), jsonData, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename keeps letters, digits, dash, underscore and dot, lowercased
// and truncated to 100 characters.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
