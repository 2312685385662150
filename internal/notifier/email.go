package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/queue"
)

// sender is the part of the SES client used here.
type sender interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email sends order confirmations through Amazon SES.
type Email struct {
	client sender
	from   string
	log    *zap.Logger
}

// NewEmail builds an SES client for cfg.AWSRegion.  Static credentials are
// used when an access key is configured, otherwise the default AWS
// credential chain applies.
func NewEmail(ctx context.Context, cfg config.MailConfig, log *zap.Logger) (*Email, error) {
	if cfg.Sender == "" {
		return nil, errors.New("MAIL_SENDER is not configured")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}
	return newEmail(ses.NewFromConfig(awsCfg), cfg.Sender, log), nil
}

func newEmail(client sender, from string, log *zap.Logger) *Email {
	return &Email{client: client, from: from, log: log}
}

func (e *Email) HandleOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	if ev.CustomerEmail == "" {
		return errors.New("recipient email address is empty")
	}
	subject := fmt.Sprintf("Order #%d Confirmation - Thank You for Your Purchase!", ev.OrderID)
	bodyHTML := fmt.Sprintf(`<html>
<body>
    <p>Dear %s,</p>
    <p>Thank you for your order! Your order #%d has been successfully placed.</p>
    <ul>
        <li>Product: %s</li>
        <li>Quantity: %d</li>
        <li>Total: %s</li>
    </ul>
    <p>Best regards,<br>The Clothing Store</p>
</body>
</html>`, ev.CustomerName, ev.OrderID, ev.ProductName, ev.Quantity, ev.TotalPrice)
	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order #%d has been successfully placed.\n\n"+
			"Product: %s\nQuantity: %d\nTotal: %s\n\nBest regards,\nThe Clothing Store",
		ev.CustomerName, ev.OrderID, ev.ProductName, ev.Quantity, ev.TotalPrice)

	input := &ses.SendEmailInput{
		Source: aws.String(e.from),
		Destination: &types.Destination{
			ToAddresses: []string{ev.CustomerEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyHTML)},
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyText)},
			},
		},
	}
	if _, err := e.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email for order %d: %w", ev.OrderID, err)
	}
	e.log.Info("order confirmation sent", zap.Uint64("order_id", ev.OrderID), zap.String("to", ev.CustomerEmail))
	return nil
}
