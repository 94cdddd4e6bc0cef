package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Mailer delivers outbound mail. The default implementation only logs; a
// real SMTP or provider-backed mailer can be swapped in without touching the
// queue.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes mail to the structured log instead of the network.
type LogMailer struct {
	Logger  *slog.Logger
	From    string
	BaseURL string
}

func (m *LogMailer) SendVerification(ctx context.Context, email, token string) error {
	m.Logger.Info("verification email",
		slog.String("from", m.From),
		slog.String("to", email),
		slog.String("link", fmt.Sprintf("%s/v1/auth/verify?token=%s", m.BaseURL, token)),
	)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.Logger.Info("password reset email",
		slog.String("from", m.From),
		slog.String("to", email),
		slog.String("token", token),
	)
	return nil
}

// EmailHandlers wires the mail job types to a Mailer.
func EmailHandlers(mailer Mailer) map[string]Handler {
	decode := func(j *Job) (*EmailPayload, error) {
		var p EmailPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode email payload: %w", err)
		}
		if p.Email == "" {
			return nil, fmt.Errorf("email payload missing address")
		}
		return &p, nil
	}

	return map[string]Handler{
		TypeVerifyEmail: func(ctx context.Context, j *Job) error {
			p, err := decode(j)
			if err != nil {
				return err
			}
			return mailer.SendVerification(ctx, p.Email, p.Token)
		},
		TypeResetEmail: func(ctx context.Context, j *Job) error {
			p, err := decode(j)
			if err != nil {
				return err
			}
			return mailer.SendPasswordReset(ctx, p.Email, p.Token)
		},
	}
}
