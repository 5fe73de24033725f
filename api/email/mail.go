package mail

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

type Email struct {
	ToAddr   string `json:"to_addr"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Vars     any    `json:"vars"`
}

// ResumeLinkVars feeds the resume_link template: which survey, where the
// respondent stopped, and the link that brings them back.
type ResumeLinkVars struct {
	SurveyTitle    string `json:"survey_title"`
	ResumeLink     string `json:"resume_link"`
	CurrentSection int    `json:"current_section"`
	TotalSections  int    `json:"total_sections"`
}

var ErrNotConfigured = errors.New("email not configured: set SMTP_ADDR, SMTP_PORT, FROM_EMAIL and FROM_EMAIL_PASSWORD")

func SendHTMLEmail(to []string, subject, htmlBody string) error {
	from := os.Getenv("FROM_EMAIL")
	password := os.Getenv("FROM_EMAIL_PASSWORD")
	smtpAddr := os.Getenv("SMTP_ADDR")
	smtpPort := os.Getenv("SMTP_PORT")

	if from == "" || password == "" || smtpAddr == "" || smtpPort == "" {
		return ErrNotConfigured
	}

	auth := smtp.PlainAuth("", from, password, smtpAddr)

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ", ")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=\"UTF-8\""

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return smtp.SendMail(
		smtpAddr+":"+smtpPort,
		auth,
		from,
		to,
		[]byte(msg.String()),
	)
}

func parseTemplate(data Email) (bytes.Buffer, error) {

	tmplDir := os.Getenv("TEMPLATES_DIR")
	if tmplDir == "" {
		tmplDir = "./api/email/templates" // fallback
	}

	templatePath := filepath.Join(tmplDir, data.Template+".html")

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("error parsing template: %v", err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data.Vars); err != nil {
		return bytes.Buffer{}, fmt.Errorf("error executing template: %v", err)
	}

	return rendered, nil
}

func (e Email) SendTemplateEmail() error {

	to := strings.Split(e.ToAddr, ",")

	rendered, err := parseTemplate(e)
	if err != nil {
		return err
	}

	return SendHTMLEmail(to, e.Subject, rendered.String())
}
