package validator

import (
	"fmt"
	"regexp"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

func Username(username string) error {
	length := len(username)
	if length < 3 {
		return fmt.Errorf("short_username")
	} else if length > 32 {
		return fmt.Errorf("long_username")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("bad_format")
	}
	return nil
}

func DisplayName(displayName string) error {
	length := len(displayName)
	if length == 0 {
		return fmt.Errorf("empty_display_name")
	} else if length > 64 {
		return fmt.Errorf("long_display_name")
	}
	return nil
}

func Password(password string) error {
	length := len(password)
	if length < 6 {
		return fmt.Errorf("short_password")
	} else if length > 32 {
		return fmt.Errorf("long_password")
	}

	lowercase := regexp.MustCompile(`[a-z]`)
	uppercase := regexp.MustCompile(`[A-Z]`)
	number := regexp.MustCompile(`\d`)

	if !lowercase.MatchString(password) {
		return fmt.Errorf("no_lowercase")
	}
	if !uppercase.MatchString(password) {
		return fmt.Errorf("no_uppercase")
	}
	if !number.MatchString(password) {
		return fmt.Errorf("no_number")
	}
	return nil
}
