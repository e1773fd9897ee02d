package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return CPF(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// NormalizeCPF strips everything but digits, so "123.456.789-09"
// and "12345678909" address the same reader.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	b.Grow(11)
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CPF reports whether cpf carries 11 digits with valid check digits.
// Repeated-digit sequences pass the checksum and are rejected explicitly.
func CPF(cpf string) bool {
	digits := NormalizeCPF(cpf)
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}
	d := make([]int, 11)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}
	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

func checkDigit(d []int) int {
	sum := 0
	weight := len(d) + 1
	for _, n := range d {
		sum += n * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
