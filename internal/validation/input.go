package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength       = 1
	MaxNameLength       = 100
	MaxAddressLength    = 300
	MaxPhoneLength      = 30
	MaxNoteLength       = 2000
	MinMessageLength    = 1
	MaxMessageLength    = 5000
	MaxCleaningTypeLen  = 100
	MaxTimeWindowLength = 200
	MinRooms            = 1
	MaxRooms            = 500
	MinAmount           = 0.01
	MaxAmount           = 10000000.0 // 10 миллионов
)

// ValidateLength проверяет длину строки.
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

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

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

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidatePersonName проверяет имя или фамилию.
func ValidatePersonName(fieldName, name string) error {
	if err := ValidateNonEmpty(fieldName, name); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateNumRooms проверяет количество комнат в заявке.
func ValidateNumRooms(numRooms int) error {
	if numRooms < MinRooms {
		return fmt.Errorf("количество комнат должно быть не менее %d", MinRooms)
	}
	if numRooms > MaxRooms {
		return fmt.Errorf("количество комнат не может превышать %d", MaxRooms)
	}
	return nil
}

// ValidateAmount проверяет денежную сумму (цену предложения или счёта).
func ValidateAmount(fieldName string, amount float64) error {
	if amount < MinAmount {
		return fmt.Errorf("%s должна быть положительной", fieldName)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s не может превышать %.0f", fieldName, MaxAmount)
	}
	return nil
}

// ValidateMessageContent проверяет текст сообщения переписки или спора.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", strings.TrimSpace(content), MinMessageLength, MaxMessageLength)
}

// ValidateTimeWindow проверяет описание окна времени уборки.
func ValidateTimeWindow(window string) error {
	if err := ValidateNonEmpty("окно времени", window); err != nil {
		return err
	}
	return ValidateLength("окно времени", strings.TrimSpace(window), 1, MaxTimeWindowLength)
}
