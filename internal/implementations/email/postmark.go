package email

import (
	"authfront/internal/core/domain/user"
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

var ErrInvalidConfig = errors.New("invalid email config")

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

type PostmarkSender struct {
	client       postmarkAPI
	sender       string
	validMinutes int
}

func NewPostmarkSender(serverToken string, accountToken string, sender string, validMinutes int) (*PostmarkSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrInvalidConfig)
	}
	if sender == "" {
		return nil, fmt.Errorf("%w: EMAIL_SENDER is required", ErrInvalidConfig)
	}
	return &PostmarkSender{
		client:       postmark.NewClient(serverToken, accountToken),
		sender:       sender,
		validMinutes: validMinutes,
	}, nil
}

func (s *PostmarkSender) SendPasswordResetLink(
	ctx context.Context,
	input user.SendPasswordResetLinkInput,
) (result user.SendResult, err error) {
	body, err := renderPasswordResetBody(input, s.validMinutes)
	if err != nil {
		return result, err
	}
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.sender,
		To:         string(input.Email),
		Subject:    passwordResetSubject,
		Tag:        "password-reset",
		HTMLBody:   body,
		TrackOpens: false,
	})
	if err != nil {
		return result, err
	}
	if resp.ErrorCode > 0 {
		return result, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return result, nil
}
