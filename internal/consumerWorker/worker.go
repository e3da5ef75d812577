package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/RamezHany/Edit/internal/dto"
	"github.com/RamezHany/Edit/internal/mailer"
	"github.com/RamezHany/Edit/internal/rabbit"
	"github.com/wb-go/wbf/zlog"
)

// Reader drains the confirmation queue and sends the corresponding emails,
// keeping SMTP latency and failures out of the registration request path.
type Reader struct {
	RMQ    *rabbit.Client
	smtp   mailer.SMTPConfig
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, smtp mailer.SMTPConfig) *Reader {
	return &Reader{
		RMQ:  rmq,
		smtp: smtp,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("confirmation reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationConfirmedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Str("company", msg.Company).
				Str("event", msg.Event).
				Str("email", msg.Email).
				Msg("received confirmation message")

			if err := mailer.SendConfirmationEmail(
				&zlog.Logger,
				r.smtp,
				msg.Event,
				msg.Name,
				msg.Email,
				msg.RegistrationDate,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("email", msg.Email).
					Msg("failed to send confirmation email")
			}

			// email failures are not requeued; the registration itself is stored
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("confirmation reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
