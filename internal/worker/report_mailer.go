package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/adlens/internal/mailing"
	"github.com/ignite/adlens/internal/pkg/logger"
	"github.com/ignite/adlens/internal/service/schedule"
)

// SESAPI is the subset of the SES v2 client used for delivery.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig configures the report mailer.
type SESConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	FromEmail string
	FromName  string
	BaseURL   string
}

// ReportMailer renders a report email and sends it to every recipient of
// the schedule through AWS SES.
type ReportMailer struct {
	client    SESAPI
	templates *mailing.TemplateService
	cfg       SESConfig
}

// NewReportMailer creates an SES-backed mailer. Static credentials are used
// when both keys are set; otherwise the default AWS chain applies.
func NewReportMailer(ctx context.Context, cfg SESConfig, templates *mailing.TemplateService) (*ReportMailer, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewReportMailerWithClient(sesv2.NewFromConfig(awsCfg), cfg, templates), nil
}

// NewReportMailerWithClient wires an existing SES client.
func NewReportMailerWithClient(client SESAPI, cfg SESConfig, templates *mailing.TemplateService) *ReportMailer {
	if cfg.FromName == "" {
		cfg.FromName = "Ad Reports"
	}
	if templates == nil {
		templates = mailing.NewTemplateService()
	}
	return &ReportMailer{client: client, templates: templates, cfg: cfg}
}

// Deliver sends one message per recipient so addresses are not disclosed
// to each other. It fails if any recipient could not be sent to.
func (m *ReportMailer) Deliver(ctx context.Context, d schedule.Delivery) error {
	if d.Schedule == nil || d.Report == nil {
		return fmt.Errorf("delivery requires a schedule and a report")
	}
	if m.cfg.FromEmail == "" {
		return fmt.Errorf("SES from address is not configured")
	}

	accountName := d.Report.AdAccountID
	if d.Account != nil && d.Account.Name != "" {
		accountName = d.Account.Name
	}
	email, err := m.templates.RenderReportEmail(mailing.ReportEmailData{
		AccountName:   accountName,
		DateRangeType: d.Schedule.DateRangeType,
		Report:        d.Report,
		BaseURL:       m.cfg.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("render report email: %w", err)
	}

	var errs []error
	for _, to := range d.Schedule.Recipients {
		if err := m.send(ctx, to, email, d); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", logger.RedactEmail(to), err))
		}
	}
	return errors.Join(errs...)
}

func (m *ReportMailer) send(ctx context.Context, to string, email *mailing.ReportEmail, d schedule.Delivery) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(email.HTML), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(email.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("schedule_id"), Value: aws.String(d.Schedule.ID)},
			{Name: aws.String("report_id"), Value: aws.String(d.Report.ID)},
		},
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return err
	}
	messageID := ""
	if out != nil && out.MessageId != nil {
		messageID = *out.MessageId
	}
	log.Printf("[SES] Sent report %s to %s (id: %s)", d.Report.ID, logger.RedactEmail(to), messageID)
	return nil
}

// ErrDeliveryDisabled is returned when no mail transport is configured.
var ErrDeliveryDisabled = errors.New("email delivery is not configured")

// DisabledDeliverer records every scheduled delivery as failed. The report
// is still generated and stored.
type DisabledDeliverer struct{}

func (DisabledDeliverer) Deliver(ctx context.Context, d schedule.Delivery) error {
	return ErrDeliveryDisabled
}
