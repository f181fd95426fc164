package handlers

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

// Текст внутренних ошибок клиенту не отдаётся как есть: коды Postgres
// переводятся в понятные сообщения, всё похожее на учётные данные или
// внутренности системы заменяется общей фразой.

const (
	genericMessage   = "Внутренняя ошибка, попробуйте позже"
	maxMessageLength = 150
)

var pgCodeMessages = map[string]string{
	"23505": "Такая запись уже существует",
	"23503": "Запись связана с другими данными",
	"23502": "Не заполнено обязательное поле",
	"22001": "Значение слишком длинное",
	"42501": "Недостаточно прав для операции",
	"42P01": "Хранилище недоступно",
}

// внутренности, которые не должны утекать клиенту
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)api[_-]?key`),
	regexp.MustCompile(`(?i)postgres(ql)?://`),
	regexp.MustCompile(`(?i)connection refused`),
	regexp.MustCompile(`(?i)dial tcp`),
	regexp.MustCompile(`(?i)pq:|pgx`),
	regexp.MustCompile(`(?i)syntax error`),
	regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}(:\d+)?`),
}

// Sanitize переводит внутреннюю ошибку в безопасный для клиента текст
func Sanitize(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodeMessages[pgErr.Code]; ok {
			return msg
		}
		return genericMessage
	}

	msg := err.Error()
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(msg) {
			return genericMessage
		}
	}

	if runes := []rune(msg); len(runes) > maxMessageLength {
		return string(runes[:maxMessageLength]) + "..."
	}
	return msg
}
