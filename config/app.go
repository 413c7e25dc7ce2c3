package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	RazorpayKeyID         string `env:"RAZORPAY_KEY_ID,required"`
	RazorpayKeySecret     string `env:"RAZORPAY_KEY_SECRET,required"`
	RazorpayWebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`

	UltraMsgInstanceID string `env:"ULTRAMSG_INSTANCE_ID"`
	UltraMsgToken      string `env:"ULTRAMSG_TOKEN"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT" default:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM"`

	AdminEmail string `env:"ADMIN_EMAIL"`
}
