package gmail

import (
	"encoding/base64"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func TestExtractPrefersPlainText(t *testing.T) {
	msg := &gmail.Message{
		Id:      "m1",
		Snippet: "snippet",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Quarterly report"},
			},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>html body</p>")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("plain body")}},
			},
		},
	}

	rec := extractRecord(msg)
	if rec.Subject != "Quarterly report" {
		t.Errorf("subject: got %q", rec.Subject)
	}
	if rec.Body != "plain body" {
		t.Errorf("expected plain part to win, got %q", rec.Body)
	}
}

func TestExtractCleansHTMLFallback(t *testing.T) {
	msg := &gmail.Message{
		Id: "m2",
		Payload: &gmail.MessagePart{
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<b>Hi &amp; bye</b>")}},
			},
		},
	}

	rec := extractRecord(msg)
	if rec.Body != "Hi & bye" {
		t.Errorf("expected stripped and decoded html, got %q", rec.Body)
	}
}

func TestExtractNestedMultipart(t *testing.T) {
	msg := &gmail.Message{
		Id: "m3",
		Payload: &gmail.MessagePart{
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("nested plain")}},
					},
				},
			},
		},
	}

	rec := extractRecord(msg)
	if rec.Body != "nested plain" {
		t.Errorf("expected nested part content, got %q", rec.Body)
	}
}

func TestExtractSnippetFallback(t *testing.T) {
	msg := &gmail.Message{
		Id:      "m4",
		Snippet: "only a snippet",
		Payload: &gmail.MessagePart{},
	}

	rec := extractRecord(msg)
	if rec.Body != "only a snippet" {
		t.Errorf("expected snippet fallback, got %q", rec.Body)
	}
}

func TestExtractSinglePartHTMLPayload(t *testing.T) {
	msg := &gmail.Message{
		Id: "m5",
		Payload: &gmail.MessagePart{
			MimeType: "text/html",
			Body:     &gmail.MessagePartBody{Data: encode("<div>inline</div>")},
		},
	}

	rec := extractRecord(msg)
	if rec.Body != "inline" {
		t.Errorf("expected cleaned single-part payload, got %q", rec.Body)
	}
}

func TestExtractNoPayload(t *testing.T) {
	// Even with no payload at all the snippet still stands in for the body.
	rec := extractRecord(&gmail.Message{Id: "m6", Snippet: "bare"})
	if rec.MessageID != "m6" || rec.Snippet != "bare" || rec.Body != "bare" {
		t.Errorf("unexpected record: %+v", rec)
	}
}
