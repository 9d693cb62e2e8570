package mailer

import "errors"

var (
	// ErrTemplate возвращается при ошибке сборки письма из шаблона
	ErrTemplate = errors.New("mailer: failed to render template")

	// ErrSend возвращается, если SMTP сервер не принял письмо
	ErrSend = errors.New("mailer: failed to send message")
)
