package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// Мобильный номер: необязательный префикс страны (+972/972) или ноль,
// затем 5, цифра оператора и семь цифр абонента
var mobilePattern = regexp.MustCompile(`^(?:\+?972|0)?5\d{8}$`)

// NormalizePhone убирает пробелы, дефисы и скобки из номера
func NormalizePhone(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch r {
		case ' ', '-', '(', ')', '\u00a0':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidPhone проверяет номер мобильного телефона
func ValidPhone(text string) bool {
	return mobilePattern.MatchString(NormalizePhone(text))
}

func FormatPrice(price int) string {
	return strconv.Itoa(price) + " ₪"
}

// Chunk разбивает кнопки на ряды по size штук
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	var rows [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		rows = append(rows, items[i:end])
	}
	return rows
}
