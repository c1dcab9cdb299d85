package services

import (
	"fmt"
	"log"
	"os"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client *resend.Client
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService() {
	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Email service will not be available.")
		return
	}

	emailService = &EmailService{
		client: resend.NewClient(apiKey),
	}

	log.Println("Email service initialized successfully with Resend")
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

// SendEditRequestEmail notifies one admin that a user is asking to change a
// locked date.
func (s *EmailService) SendEditRequestEmail(toEmail string, adminName string, requesterName string, reqDate string, requestType string) error {
	if s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #4a7fb5;
        }
        .header h1 {
            color: #4a7fb5;
            margin: 0;
        }
        .content {
            padding: 30px 0;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>TeamTrack</h1>
    </div>

    <div class="content">
        <h2>New %s Request</h2>

        <p>Hi %s,</p>

        <p><strong>%s</strong> has requested permission to change their records for <strong>%s</strong>.</p>

        <p>Please review it in the admin approval queue.</p>

        <p>Thanks,<br>TeamTrack</p>
    </div>

    <div class="footer">
        <p>This is an automated message, please do not reply directly to this email.</p>
    </div>
</body>
</html>
`, requestType, adminName, requesterName, reqDate)

	textBody := fmt.Sprintf(`
New %s Request

Hi %s,

%s has requested permission to change their records for %s.

Please review it in the admin approval queue.

Thanks,
TeamTrack
`, requestType, adminName, requesterName, reqDate)

	params := &resend.SendEmailRequest{
		From:    os.Getenv("RESEND_FROM_EMAIL"),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s requested to change %s", requesterName, reqDate),
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send edit request email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Successfully sent edit request email to %s. Email ID: %s", toEmail, sent.Id)
	return nil
}

// SendDecisionEmail tells a user their request was approved or rejected.
func (s *EmailService) SendDecisionEmail(toEmail string, fullName string, decision string) error {
	if s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #4a7fb5;
        }
        .header h1 {
            color: #4a7fb5;
            margin: 0;
        }
        .content {
            padding: 30px 0;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>TeamTrack</h1>
    </div>

    <div class="content">
        <h2>Request %s</h2>

        <p>Hi %s,</p>

        <p>An admin has <strong>%s</strong> your change request. Open TeamTrack to see the details.</p>

        <p>Thanks,<br>TeamTrack</p>
    </div>

    <div class="footer">
        <p>This is an automated message, please do not reply directly to this email.</p>
    </div>
</body>
</html>
`, decision, fullName, decision)

	textBody := fmt.Sprintf(`
Request %s

Hi %s,

An admin has %s your change request. Open TeamTrack to see the details.

Thanks,
TeamTrack
`, decision, fullName, decision)

	params := &resend.SendEmailRequest{
		From:    os.Getenv("RESEND_FROM_EMAIL"),
		To:      []string{toEmail},
		Subject: "Your change request was " + decision,
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send decision email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Successfully sent decision email to %s. Email ID: %s", toEmail, sent.Id)
	return nil
}
