package common

import (
	"fmt"
	"regexp"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

type Email string

func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}

type Phone string

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

var PhoneRegexp = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// NewPhone drops the separators people usually type between digit groups.
func NewPhone(rawPhone string) Phone {
	return Phone(phoneSeparators.Replace(strings.TrimSpace(rawPhone)))
}

func (p Phone) IsValid() bool {
	return PhoneRegexp.MatchString(string(p))
}
