package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dogacademy/academy_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendPackageAlert 发送套餐提醒邮件（课时不足 / 已用完 / 即将到期）
func (s *Service) SendPackageAlert(to, packageName, message string) error {
	subject := "套餐提醒 - 犬只训练学院"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #b45309;">套餐提醒</h2>
        <p>您好，</p>
        <p>您的训练套餐「%s」有新的状态提醒：</p>
        <div style="background-color: #fef3c7; padding: 15px; margin: 20px 0; border-radius: 5px;">
            %s
        </div>
        <p>如需续购课时，请联系前台或在门户中发起预约。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, packageName, message)

	return s.sendHTML(to, subject, body)
}

// SendPaymentVerified 发送支付核验通过通知
func (s *Service) SendPaymentVerified(to, concept string, amount float64) error {
	subject := "支付已确认 - 犬只训练学院"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #15803d;">支付已确认</h2>
        <p>您好，</p>
        <p>您针对「%s」的支付（金额 %.2f 元）已核验通过，对应账单已标记为已支付。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, concept, amount)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
