package email

import (
	"authfront/internal/core/domain/user"
	"bytes"
	"html/template"
)

const passwordResetSubject = "Password Reset Request"

var passwordResetBody = template.Must(template.New("password_reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>You requested to reset your password. Click the link below to proceed:</p>
  <a href="{{.URL}}">Reset Password</a>
  <p>This link will expire in {{.ValidMinutes}} minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`))

type passwordResetTemplateParams struct {
	PasswordResetUrl string `json:"passwordResetUrl"`
	ValidMinutes     int    `json:"validMinutes"`
}

func renderPasswordResetBody(input user.SendPasswordResetLinkInput, validMinutes int) (string, error) {
	var buf bytes.Buffer
	err := passwordResetBody.Execute(&buf, struct {
		URL          string
		ValidMinutes int
	}{URL: input.URL, ValidMinutes: validMinutes})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
