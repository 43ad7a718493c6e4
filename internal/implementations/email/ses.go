package email

import (
	"authfront/internal/core/domain/user"
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendTemplatedEmail(ctx context.Context, params *ses.SendTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendTemplatedEmailOutput, error)
}

type SESSender struct {
	ses sesAPI
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
	validMinutes          int
}

func NewSESSender(awsConfig aws.Config, sender string, passwordResetTemplate string, validMinutes int) *SESSender {
	return &SESSender{
		ses:                   ses.NewFromConfig(awsConfig),
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
		validMinutes:          validMinutes,
	}
}

func (s *SESSender) SendPasswordResetLink(
	ctx context.Context,
	input user.SendPasswordResetLinkInput,
) (result user.SendResult, err error) {
	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			PasswordResetUrl: input.URL,
			ValidMinutes:     s.validMinutes,
		},
	)
	if err != nil {
		return result, err
	}
	templateParams := string(templateParamsBytes)

	email := string(input.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return result, err
}

const sesPasswordResetHtml = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>You requested to reset your password. Click the link below to proceed:</p>
  <a href="{{passwordResetUrl}}">Reset Password</a>
  <p>This link will expire in {{validMinutes}} minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`

const sesPasswordResetText = "Reset your password: {{passwordResetUrl}}\n" +
	"This link will expire in {{validMinutes}} minutes.\n" +
	"If you didn't request this, please ignore this email."

// SESPasswordResetTemplate is the stored SES template that SESSender renders.
// Its placeholders match the JSON keys of passwordResetTemplateParams.
func SESPasswordResetTemplate(name string) *types.Template {
	return &types.Template{
		TemplateName: aws.String(name),
		SubjectPart:  aws.String(passwordResetSubject),
		HtmlPart:     aws.String(sesPasswordResetHtml),
		TextPart:     aws.String(sesPasswordResetText),
	}
}
