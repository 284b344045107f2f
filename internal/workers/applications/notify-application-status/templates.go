// internal/workers/applications/notify-application-status/templates.go
package notifyapplicationstatus

import (
	"bytes"
	"text/template"

	"yogyatha-workers/internal/models"
)

type message struct {
	Subject string
	Body    string
}

var (
	subjectTemplate = template.Must(template.New("subject").Parse(
		`Your application for {{.SchemeName}} is now {{.Status}}`))

	emailTemplate = template.Must(template.New("email").Parse(
		`Hello {{.Username}},

The status of your application for {{.SchemeName}} changed to "{{.Status}}".
{{- if .ApplicationNumber}}
Application number: {{.ApplicationNumber}}
{{- end}}
Applied on: {{.ApplicationDate}}
{{if eq .Status "Documents Requested"}}
The department has asked for supporting documents. Please check the scheme portal and upload them soon.
{{else if eq .Status "Approved"}}
Congratulations! Benefits will be released as described on the scheme portal.
{{else if eq .Status "Rejected"}}
If you believe this is a mistake, contact the issuing department with your application number.
{{end}}
- Yogyatha`))

	smsTemplate = template.Must(template.New("sms").Parse(
		`Yogyatha: your {{.SchemeName}} application is {{.Status}}.{{if .ApplicationNumber}} Ref {{.ApplicationNumber}}.{{end}}`))
)

type templateData struct {
	Username          string
	SchemeName        string
	Status            models.ApplicationStatus
	ApplicationNumber string
	ApplicationDate   string
}

func newTemplateData(input *Input) templateData {
	app := input.Application
	name := app.SchemeName[models.LanguageEN]
	if name == "" {
		name = app.SchemeID
	}
	return templateData{
		Username:          input.Username,
		SchemeName:        name,
		Status:            app.Status,
		ApplicationNumber: app.ApplicationNumber,
		ApplicationDate:   app.ApplicationDate,
	}
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderEmail(data templateData) (message, error) {
	subject, err := render(subjectTemplate, data)
	if err != nil {
		return message{}, err
	}
	body, err := render(emailTemplate, data)
	if err != nil {
		return message{}, err
	}
	return message{Subject: subject, Body: body}, nil
}

// textWorthy reports whether a status change is important enough for an SMS.
func textWorthy(status models.ApplicationStatus) bool {
	switch status {
	case models.StatusApproved, models.StatusRejected, models.StatusDocumentsRequested:
		return true
	}
	return false
}
