package services

import (
	"crypto/rand"
	"math/big"
	"net/url"
	"strings"
)

const (
	// AliasMinLength и AliasMaxLength границы длины пользовательского алиаса.
	AliasMinLength = 3
	AliasMaxLength = 32

	// codeAlphabet без визуально неоднозначных символов (0/o, 1/l).
	codeAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"
)

// NormalizeURL приводит ссылку к каноничному виду: обрезает пробелы, подставляет
// https:// если схема не указана и принимает только абсолютные http/https адреса.
// Второе значение false если из строки не получается корректный URL.
func NormalizeURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.Contains(s, "://"):
		// чужая схема, подстановка https:// ее бы только замаскировала
		return "", false
	default:
		s = "https://" + s
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}

	return parsed.String(), true
}

// IsValidAlias проверяет форму алиаса: 3-32 символа из [A-Za-z0-9_-].
func IsValidAlias(alias string) bool {
	if len(alias) < AliasMinLength || len(alias) > AliasMaxLength {
		return false
	}
	for _, ch := range alias {
		ok := (ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '_'
		if !ok {
			return false
		}
	}
	return true
}

// GenerateCode генерирует случайный код заданной длины. Код сам по себе не уникален,
// уникальность обеспечивает аллокатор проверкой по хранилищу.
func GenerateCode(length int) (string, error) {
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err //nolint:wrapcheck
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
