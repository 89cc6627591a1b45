package core

import (
	"bytes"
	"fmt"
	"net/mail"
	"text/template"
)

type (
	// EmailMessage is a renderable email destined to one or more recipients.
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		BodyTemplate string
		TemplateData interface{}
		TextContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render resolves the message's final text content, executing BodyTemplate
// against TemplateData when one is set.
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.BodyTemplate == "" {
		return nil
	}

	tmpl, err := template.New("email").Parse(m.BodyTemplate)
	if err != nil {
		return fmt.Errorf("parsing email template: %w", err)
	}
	var buf bytes.Buffer
	data := ContextData{FrontendBaseURL: conf.FrontendBaseURL, Data: m.TemplateData}
	if err = tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing email template: %w", err)
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != ""
}
