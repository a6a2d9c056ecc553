// Package smtp отправляет письма через SMTP-сервер со STARTTLS.
package smtp

import "io"

// Client минимальный SMTP-клиент, который нужен для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает аутентифицированное SMTP-соединение.
type Dialer interface {
	Connect() (Client, error)
	Sender() string
}
