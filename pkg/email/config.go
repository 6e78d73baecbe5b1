package email

// Config holds email service configuration.
// The Postmark token is optional so --dev runs can write to disk instead.
type Config struct {
	PostmarkServerToken string `env:"POSTMARK_SERVER_TOKEN"`
	SenderEmail         string `env:"SENDER_EMAIL" envDefault:"reports@localhost.localdomain"`
	// SupportEmail is used as Reply-To when set.
	SupportEmail string `env:"SUPPORT_EMAIL"`
}
