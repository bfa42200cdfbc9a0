package auth

import "context"

// logMailer is the default Mailer; it only logs where the notification
// would go. Real deployments inject an SMTP or provider backed Mailer.
type logMailer struct {
	logger Logger
}

var _ Mailer = logMailer{}

func (m logMailer) SendPasswordReset(_ context.Context, user *User, token string) error {
	m.logger.Info("password reset notification",
		"to", user.Email,
		"link", "/password-reset/"+token,
	)
	return nil
}
