package gmail

import (
	"encoding/base64"
	"html"
	"regexp"
	"strings"

	emaildomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"

	"google.golang.org/api/gmail/v1"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// extractRecord normalizes one full-format Gmail message. Body preference:
// first text/plain part, else first text/html part cleaned, else the
// single-part payload, else the provider snippet.
func extractRecord(msg *gmail.Message) *emaildomain.EmailRecord {
	rec := &emaildomain.EmailRecord{
		MessageID: msg.Id,
		Snippet:   msg.Snippet,
	}
	if msg.Payload != nil {
		rec.Subject = getHeader(msg.Payload.Headers, "Subject")
		rec.Body = extractBody(msg.Payload)
	}
	if rec.Body == "" {
		rec.Body = msg.Snippet
	}
	return rec
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func extractBody(payload *gmail.MessagePart) string {
	if len(payload.Parts) > 0 {
		if plain := findPart(payload.Parts, "text/plain"); plain != "" {
			return plain
		}
		if raw := findPart(payload.Parts, "text/html"); raw != "" {
			return cleanHTML(raw)
		}
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		body := decodeBody(payload.Body.Data)
		if payload.MimeType == "text/html" {
			return cleanHTML(body)
		}
		return body
	}
	return ""
}

// findPart returns the decoded content of the first part (depth first) with
// the given MIME type.
func findPart(parts []*gmail.MessagePart, mimeType string) string {
	for _, part := range parts {
		if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			if body := decodeBody(part.Body.Data); body != "" {
				return body
			}
		}
		if len(part.Parts) > 0 {
			if body := findPart(part.Parts, mimeType); body != "" {
				return body
			}
		}
	}
	return ""
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(data)
	if err != nil {
		// Some senders pad; retry with standard URL encoding.
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

// cleanHTML strips tags and decodes entities, leaving plain text.
func cleanHTML(raw string) string {
	text := tagPattern.ReplaceAllString(raw, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}
