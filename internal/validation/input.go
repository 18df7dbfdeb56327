package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength = 2
	MaxUsernameLength = 20
	MinMessageLength  = 1
	MaxMessageLength  = 5000
	VerifyCodeLength  = 6
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
var verifyCodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя: 2-20 символов, латиница, цифры и подчёркивание.
func ValidateUsername(username string) error {
	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username может содержать только латинские буквы, цифры и подчёркивание")
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	return nil
}

// ValidateMessageContent проверяет текст анонимного сообщения.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("текст сообщения обязателен")
	}
	return ValidateLength("текст сообщения", content, MinMessageLength, MaxMessageLength)
}

// ValidateVerifyCode проверяет, что код состоит ровно из шести цифр.
func ValidateVerifyCode(code string) error {
	if !verifyCodeRe.MatchString(code) {
		return fmt.Errorf("код подтверждения должен состоять из %d цифр", VerifyCodeLength)
	}
	return nil
}
