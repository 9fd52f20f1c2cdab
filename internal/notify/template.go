// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
)

// DefaultTeamName signs recommendation emails.
const DefaultTeamName = "Your Book Recommendation Team"

// Message is a rendered recommendation email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// recommendationData feeds both body templates.
type recommendationData struct {
	Name   string
	Title  string
	Titles []string
	Team   string
}

var htmlBody = htmltemplate.Must(htmltemplate.New("recommendation.html").Parse(`<html>
    <body>
        <h2>Hello {{.Name}},</h2>
        <p>We noticed you were interested in the book: <strong>{{.Title}}</strong>.</p>
        <p>Based on that, we thought you might like these recommendations:</p>
        <ul>{{range .Titles}}<li>{{.}}</li>{{end}}</ul>
        <p>Happy reading!</p>
        <p>Best regards,<br>{{.Team}}</p>
    </body>
</html>
`))

var textBody = template.Must(template.New("recommendation.txt").Parse(`Hello {{.Name}},

We noticed you were interested in the book: {{.Title}}.
Based on that, we thought you might like these recommendations:
{{range .Titles}}
  - {{.}}{{end}}

Happy reading!

Best regards,
{{.Team}}
`))

// Subject returns the subject line for recommendations based on title.
func Subject(title string) string {
	return fmt.Sprintf("Book Recommendations based on your interest in '%s'", title)
}

// Render builds the recommendation email for a reader called name who showed
// interest in title. Values are HTML-escaped in the HTML part.
func Render(name, title string, titles []string) (Message, error) {
	data := recommendationData{
		Name:   name,
		Title:  title,
		Titles: titles,
		Team:   DefaultTeamName,
	}

	var html, text bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}
	if err := textBody.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}

	return Message{
		Subject: Subject(title),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
