package email

import (
	"fmt"
	"log"

	"hermexpress-io/api/configs"
)

// HermesEmailData carries everything any notification template needs;
// each sender picks the fields it cares about.
type HermesEmailData struct {
	TrackingNumber    string
	SenderName        string
	SenderEmail       string
	ReceiverName      string
	ReceiverEmail     string
	TotalPrice        float64
	Currency          string
	PaymentMethodName string
	Amount            float64
	Code              string
}

func compose(toEmail, toName, subject, body string) HermesEmailComposer {
	from := configs.LoadEnvOr("EMAIL_FROM", "no-reply@hermexpress.com")
	return HermesEmailComposer{
		Header: []SetHeader{
			{field: "Subject", value: []string{subject}},
		},
		AddressHeader: []SetAddressHeader{
			{field: "From", address: from, name: "Hermexpress"},
			{field: "To", address: toEmail, name: toName},
		},
		Body: SetBody{
			contentType: "text/html",
			body:        body,
		},
	}
}

func send(toEmail, toName, subject, body string) {
	if toEmail == "" {
		return
	}
	service := NewHermesEmailService(compose(toEmail, toName, subject, body))
	if err := service.SendMail(); err != nil {
		log.Printf("HermesEmail: failed to send %q to %s: %v", subject, toEmail, err)
	}
}

// SendShipmentNotifications mails the sender, the receiver and the
// operations alert address after a booking commits.
func SendShipmentNotifications(data HermesEmailData) {
	price := fmt.Sprintf("%s %.2f", data.Currency, data.TotalPrice)

	send(data.SenderEmail, data.SenderName,
		fmt.Sprintf("Shipment %s booked - Hermexpress", data.TrackingNumber),
		fmt.Sprintf("<p>Hello %s,</p><p>Your shipment <b>%s</b> has been booked. Total: <b>%s</b> via %s.</p><p>Track it any time with your tracking number.</p>",
			data.SenderName, data.TrackingNumber, price, data.PaymentMethodName))

	send(data.ReceiverEmail, data.ReceiverName,
		fmt.Sprintf("A shipment %s is on its way - Hermexpress", data.TrackingNumber),
		fmt.Sprintf("<p>Hello %s,</p><p>%s has booked shipment <b>%s</b> addressed to you.</p>",
			data.ReceiverName, data.SenderName, data.TrackingNumber))

	opsEmail := configs.LoadEnvOr("OPS_ALERT_EMAIL", "")
	send(opsEmail, "Operations",
		fmt.Sprintf("New booking %s", data.TrackingNumber),
		fmt.Sprintf("<p>Shipment <b>%s</b> booked for %s (%s).</p>", data.TrackingNumber, price, data.PaymentMethodName))
}

func SendPaymentConfirmedNotification(data HermesEmailData) {
	send(data.SenderEmail, data.SenderName,
		fmt.Sprintf("Payment confirmed for %s - Hermexpress", data.TrackingNumber),
		fmt.Sprintf("<p>Hello %s,</p><p>Payment of <b>%s %.2f</b> for shipment <b>%s</b> has been confirmed.</p>",
			data.SenderName, data.Currency, data.TotalPrice, data.TrackingNumber))
}

func SendPaymentFailedNotification(data HermesEmailData) {
	send(data.SenderEmail, data.SenderName,
		fmt.Sprintf("Payment failed for %s - Hermexpress", data.TrackingNumber),
		fmt.Sprintf("<p>Hello %s,</p><p>We could not confirm payment for shipment <b>%s</b>. The shipment is still awaiting payment; you can retry from your dashboard.</p>",
			data.SenderName, data.TrackingNumber))
}

func SendWalletFundedNotification(data HermesEmailData) {
	send(data.SenderEmail, data.SenderName,
		"Wallet funded - Hermexpress",
		fmt.Sprintf("<p>Hello %s,</p><p>Your wallet has been credited with <b>%s %.2f</b>.</p>",
			data.SenderName, data.Currency, data.Amount))
}

func SendVerificationCode(data HermesEmailData) {
	send(data.SenderEmail, data.SenderName,
		"Your Verification Code - Hermexpress",
		fmt.Sprintf("<p>Welcome to Hermexpress!</p><p>Please use the following code to verify your email address:</p><h2 style=\"text-align: center; letter-spacing: 5px;\">%s</h2><p>This code will expire in 15 minutes.</p>", data.Code))
}
