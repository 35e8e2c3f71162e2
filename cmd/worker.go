/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alternativa-centar/site/internal/mail"
	"github.com/alternativa-centar/site/internal/mq"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/types"
	"github.com/spf13/cobra"
)

// workerCmd consumes queued contact submissions and mails them.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued contact form submissions",
	Long: `Consumes contact form submissions from the configured broker
(BROKER_BACKEND=rabbitmq|pubsub) and sends each one by mail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.FromConfig(ctx, cfg.Broker)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("worker needs BROKER_BACKEND set to rabbitmq or pubsub")
		}
		defer queue.Close()

		mailer, err := mail.FromConfig(cfg.Mail)
		if err != nil {
			return err
		}
		dispatcher := services.NewMailDispatcher(mailer, cfg.Mail.From, cfg.Mail.Recipient())

		log.WithField("topic", cfg.Broker.ContactTopic).Info("worker started")
		err = mq.SubscribeJSON(ctx, queue, cfg.Broker.ContactTopic,
			func(ctx context.Context, submission types.ContactSubmission) error {
				entry := log.WithField("email", submission.Email)
				if err := dispatcher.Dispatch(ctx, submission); err != nil {
					entry.WithError(err).Warn("failed to deliver contact submission")
					return err
				}
				entry.Info("contact submission delivered")
				return nil
			},
			func(msg mq.Message, err error) {
				log.WithError(err).WithField("message_id", msg.ID).Error("dropping undecodable message")
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("worker stopped")
			return err
		}
		log.Info("worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
