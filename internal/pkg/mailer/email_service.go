package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTriageCode(toEmail, patientName, triageCode, riskLevel, recommendation string) error
	SendReviewAlert(toEmail, triageCode, riskLevel string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendTriageCode(toEmail, patientName, triageCode, riskLevel, recommendation string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Sua Senha de Triagem")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Olá, %s</h2>
			<p>Sua triagem foi concluída. Apresente esta senha na recepção:</p>
			<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
			<p>Classificação de risco: <strong>%s</strong></p>
			<p>%s</p>
		</div>
	`, patientName, triageCode, riskLevel, recommendation)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send triage code to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Triage code sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendReviewAlert(toEmail, triageCode, riskLevel string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Triagem Aguardando Revisão")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Nova triagem para revisão</h2>
			<p>A triagem <strong>%s</strong> (risco <strong>%s</strong>) aguarda avaliação clínica.</p>
			<p>Acesse o painel de revisão para confirmar ou ajustar a classificação.</p>
		</div>
	`, triageCode, riskLevel)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send review alert to %s: %v\n", toEmail, err)
		return err
	}
	return nil
}
