package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run only the order event consumer",
	Long: `Consume order.placed events from RabbitMQ and hand each one to the
notifiers: the order log in ORDER_LOG_DIR and, when MAIL_SENDER is set, an SES
confirmation email. The command exits when the broker connection is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runConsumer(ctx, rt)
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
