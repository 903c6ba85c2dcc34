package mail

// Config holds provider credentials and sender identity. Remote provider
// tokens are optional: a missing token simply leaves that provider out of
// the cascade, which is how development environments run without any
// third-party account.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	BrevoAPIKey          string `env:"BREVO_API_KEY"`

	FromEmail string `env:"MAIL_FROM_EMAIL,required"`
	FromName  string `env:"MAIL_FROM_NAME" envDefault:""`

	// Environment toggles the file provider: it is appended to the cascade
	// only outside production so a developer can inspect would-be emails.
	Environment string `env:"APP_ENV" envDefault:"development"`

	FileOutputDir string `env:"MAIL_FILE_OUTPUT_DIR" envDefault:"./tmp/emails"`
}

// IsProduction reports whether the config describes a production-like
// environment.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
