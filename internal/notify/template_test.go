// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package notify

import (
	"strings"
	"testing"
)

func TestSubject(t *testing.T) {
	t.Parallel()

	got := Subject("Java Programming")
	want := "Book Recommendations based on your interest in 'Java Programming'"
	if got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	msg, err := Render("ada", "Java Programming", []string{"Advanced Java", "Cooking Basics"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"<h2>Hello ada,</h2>",
		"We noticed you were interested in the book: <strong>Java Programming</strong>.",
		"Based on that, we thought you might like these recommendations:",
		"<ul><li>Advanced Java</li><li>Cooking Basics</li></ul>",
		"<p>Happy reading!</p>",
		"<p>Best regards,<br>Your Book Recommendation Team</p>",
	} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("HTML missing %q:\n%s", want, msg.HTML)
		}
	}

	for _, want := range []string{
		"Hello ada,",
		"interested in the book: Java Programming.",
		"  - Advanced Java\n  - Cooking Basics",
		"Best regards,\nYour Book Recommendation Team",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("Text missing %q:\n%s", want, msg.Text)
		}
	}

	if msg.Subject != Subject("Java Programming") {
		t.Errorf("Subject = %q", msg.Subject)
	}
}

func TestRender_EscapesHTML(t *testing.T) {
	t.Parallel()

	msg, err := Render("<b>eve</b>", "Dune & <Sons>", []string{`"Quoted" <script>alert(1)</script>`})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Contains(msg.HTML, "<script>") || strings.Contains(msg.HTML, "<b>eve</b>") {
		t.Errorf("HTML contains unescaped input:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "<strong>Dune &amp; &lt;Sons&gt;</strong>") {
		t.Errorf("HTML title not escaped:\n%s", msg.HTML)
	}
	// The plaintext part is not HTML and is left verbatim.
	if !strings.Contains(msg.Text, "Dune & <Sons>") {
		t.Errorf("Text should keep the raw title:\n%s", msg.Text)
	}
}
