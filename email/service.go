package email

import (
	"strconv"

	"github.com/go-mail/mail"

	"hermexpress-io/api/configs"
)

type HermesEmailService struct {
	mailer  *mail.Message
	content HermesEmailComposer
}

func NewHermesEmailService(content HermesEmailComposer) HermesEmailService {
	return HermesEmailService{
		mailer:  mail.NewMessage(),
		content: content,
	}
}

func (s *HermesEmailService) SendMail() error {
	m := s.mailer
	for _, content := range s.content.Header {
		m.SetHeader(content.field, content.value...)
	}

	for _, content := range s.content.AddressHeader {
		m.SetAddressHeader(content.field, content.address, content.name)
	}

	body := s.content.Body
	m.SetBody(body.contentType, body.body)

	smtpHost := configs.LoadEnvFor("SMTP_HOST")
	smtpUsername := configs.LoadEnvFor("SMTP_USERNAME")
	smtpPassword := configs.LoadEnvFor("SMTP_PASSWORD")
	smtpPort, err := strconv.Atoi(configs.LoadEnvOr("SMTP_PORT", "2525"))
	if err != nil {
		smtpPort = 2525
	}
	dialer := mail.NewDialer(smtpHost, smtpPort, smtpUsername, smtpPassword)
	if err := dialer.DialAndSend(m); err != nil {
		return err
	}

	return nil
}

type HermesEmailComposer struct {
	Header        []SetHeader
	AddressHeader []SetAddressHeader
	Body          SetBody
}

type SetHeader struct {
	field string
	value []string
}

type SetAddressHeader struct {
	field   string
	address string
	name    string
}

type SetBody struct {
	contentType string
	body        string
}
