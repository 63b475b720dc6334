package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidSymbol      = errors.New("invalid stock symbol")
	ErrInvalidAccountType = errors.New("invalid account type")
)

var (
	emailRegex  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	symbolRegex = regexp.MustCompile(`^[A-Za-z0-9.]{1,20}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateSymbol(symbol string) error {
	if !symbolRegex.MatchString(symbol) {
		return ErrInvalidSymbol
	}
	return nil
}

func ValidateAccountType(accountType string) error {
	switch accountType {
	case "checking", "savings", "investment":
		return nil
	}
	return ErrInvalidAccountType
}
