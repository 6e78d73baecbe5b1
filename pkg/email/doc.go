// Package email sends transactional emails through a provider-agnostic
// EmailSender, with a Postmark implementation for production and a DevSender
// that writes messages to disk.
//
// # Architecture
//
// Every sender validates SendEmailParams before doing any work, so callers get
// ErrInvalidParams for a malformed message regardless of the provider.
// Attachments are raw bytes; the Postmark client base64-encodes them, the
// DevSender writes them next to the HTML body.
//
// # Usage
//
//	sender, err := email.NewPostmarkClient(email.Config{
//	    PostmarkServerToken: token,
//	    SenderEmail:         "reports@example.com",
//	})
//	if err != nil {
//	    return err
//	}
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "doctor@example.com",
//	    Subject:  "Your Health Report (Mar 01, 2024 - Mar 30, 2024)",
//	    BodyHTML: html,
//	    Tag:      "health-report",
//	    Attachments: []email.Attachment{{
//	        Filename:    "health_report_jane_20240330.html",
//	        ContentType: "text/html; charset=utf-8",
//	        Content:     []byte(html),
//	    }},
//	})
//
// Local runs:
//
//	sender := email.NewDevSender("./outbox")
//
// HTML bodies are produced from templ components with templates.Render.
//
// # Error Handling
//
//   - ErrInvalidConfig: the sender could not be constructed.
//   - ErrInvalidParams: the message failed validation; nothing was sent.
//   - ErrFailedToSendEmail: the provider or the filesystem rejected the message.
package email
