package service

import (
	"unicode/utf8"

	apperrors "mcrauth/internal/errors"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
	minPasswordLength = 8
	maxPasswordLength = 20
	minNicknameLength = 1
	maxNicknameLength = 10
)

func validateUsername(username string) error {
	return validateLength("username", username, minUsernameLength, maxUsernameLength)
}

func validatePassword(password string) error {
	return validateLength("password", password, minPasswordLength, maxPasswordLength)
}

func validateNickname(nickname string) error {
	return validateLength("nickname", nickname, minNicknameLength, maxNicknameLength)
}

func validateLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if length < min || length > max {
		return &apperrors.ValidationError{
			Field:  field,
			Length: length,
			Min:    min,
			Max:    max,
		}
	}
	return nil
}
