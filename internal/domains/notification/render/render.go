// Package render turns a notification into an email for one recipient.
//
// Every kind has a markdown text/template under templates/ named <kind>.md that also defines
// a "<kind>.subject" template. The rendered markdown is the plain-text part and goldmark
// converts it into the HTML part.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"guestroom/config"
	"guestroom/internal/domains/notification/model"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.md
var templateFS embed.FS

const htmlLayout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, Helvetica, sans-serif; font-size: 14px; color: #222;">
%s
</body>
</html>
`

type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

type Renderer interface {
	Render(recipient model.Recipient, notification model.Notification) (Rendered, error)
}

type data struct {
	model.Notification
	Role    string
	Name    string
	AppName string
}

type rendererImpl struct {
	templates *template.Template
	markdown  goldmark.Markdown
	appName   string
}

// Must builds the renderer for APP_NAME. The templates are embedded, so a parse error is fatal.
func Must(cfg *config.Config) Renderer {
	renderer, err := New(cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load notification templates")
	}

	return renderer
}

func New(appName string) (Renderer, error) {
	templates, err := template.New("notification").ParseFS(templateFS, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification templates: %w", err)
	}

	return &rendererImpl{
		templates: templates,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Linkify),
			goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
		),
		appName: appName,
	}, nil
}

func (r *rendererImpl) Render(recipient model.Recipient, notification model.Notification) (res Rendered, err error) {
	if r.templates.Lookup(notification.Kind+".md") == nil {
		return res, fmt.Errorf("no template for notification kind %q", notification.Kind)
	}

	d := data{
		Notification: notification,
		Role:         recipient.Role,
		Name:         recipient.Name,
		AppName:      r.appName,
	}

	var subject, body bytes.Buffer

	if err = r.templates.ExecuteTemplate(&subject, notification.Kind+".subject", d); err != nil {
		return res, fmt.Errorf("failed to render subject of %s: %w", notification.Kind, err)
	}

	if err = r.templates.ExecuteTemplate(&body, notification.Kind+".md", d); err != nil {
		return res, fmt.Errorf("failed to render body of %s: %w", notification.Kind, err)
	}

	var html bytes.Buffer
	if err = r.markdown.Convert(body.Bytes(), &html); err != nil {
		return res, fmt.Errorf("failed to convert %s to html: %w", notification.Kind, err)
	}

	res.Subject = strings.Join(strings.Fields(subject.String()), " ")
	res.Text = strings.TrimSpace(body.String()) + "\n"
	res.HTML = fmt.Sprintf(htmlLayout, html.String())

	return res, nil
}
