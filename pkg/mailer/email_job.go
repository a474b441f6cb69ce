package mailer

// Template names understood by the email worker consuming the queue
const (
	TemplatePasswordResetOTP = "password_reset_otp"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Rendering and delivery belong to whoever consumes the queue.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
