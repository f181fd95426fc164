package handlers

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// TestSanitize тестирует перевод внутренних ошибок в безопасный текст
func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
			want: "Такая запись уже существует",
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"},
			want: "Запись связана с другими данными",
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502", Message: "null value in column"},
			want: "Не заполнено обязательное поле",
		},
		{
			name: "missing table",
			err:  &pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
			want: "Хранилище недоступно",
		},
		{
			name: "unknown pg code falls back to generic",
			err:  &pgconn.PgError{Code: "57014", Message: "canceling statement"},
			want: genericMessage,
		},
		{
			name: "wrapped pg error still mapped",
			err:  errors.Join(errors.New("создание задачи"), &pgconn.PgError{Code: "23505"}),
			want: "Такая запись уже существует",
		},
		{
			name: "connection string leaks nothing",
			err:  errors.New("postgres://admin:hunter2@db:5432/app unreachable"),
			want: genericMessage,
		},
		{
			name: "password mention",
			err:  errors.New("invalid PASSWORD for role"),
			want: genericMessage,
		},
		{
			name: "ip address",
			err:  errors.New("no route to 10.0.0.17:5432"),
			want: genericMessage,
		},
		{
			name: "dial error",
			err:  errors.New("dial tcp: lookup db failed"),
			want: genericMessage,
		},
		{
			name: "harmless message passes through",
			err:  errors.New("получение задачи: запись устарела"),
			want: "получение задачи: запись устарела",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.err))
		})
	}
}

// TestSanitize_Truncation тестирует обрезку по рунам: кириллица не
// режется посреди символа
func TestSanitize_Truncation(t *testing.T) {
	long := strings.Repeat("ы", maxMessageLength+30)
	got := Sanitize(errors.New(long))

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, maxMessageLength+3, len([]rune(got)))
	assert.NotContains(t, got, "�")
}
