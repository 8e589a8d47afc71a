package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"medrep/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendBatchSummary(ctx context.Context, toEmail string, summary port.BatchSummaryEmail) error {
	subject := fmt.Sprintf("Batch analysis complete: %d of %d documents analyzed",
		summary.Documents-summary.Failures, summary.Documents)
	htmlBody := buildBatchSummaryHTML(summary)
	textBody := fmt.Sprintf(
		"Batch %s has finished.\n\nDocuments: %d\nFailed: %d\n\n%s\n\nMedRep",
		summary.BatchID, summary.Documents, summary.Failures, summary.Summary)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildBatchSummaryHTML(summary port.BatchSummaryEmail) string {
	var lines strings.Builder
	for _, line := range strings.Split(summary.Summary, "\n") {
		lines.WriteString("<p>")
		lines.WriteString(html.EscapeString(line))
		lines.WriteString("</p>\n")
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Batch analysis complete</h2>
  <p>Batch <code>%s</code> has finished.</p>
  <p><strong>Documents:</strong> %d<br><strong>Failed:</strong> %d</p>
  <div style="background: #f7f7f7; border-radius: 6px; padding: 12px; color: #444;">
%s  </div>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">MedRep - Medical Report Analysis</p>
</body>
</html>`, html.EscapeString(summary.BatchID), summary.Documents, summary.Failures, lines.String())
}
