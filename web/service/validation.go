package service

import (
	"regexp"
	"strings"
)

var (
	nameRegexp  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	upperRegexp   = regexp.MustCompile(`[A-Z]`)
	lowerRegexp   = regexp.MustCompile(`[a-z]`)
	digitRegexp   = regexp.MustCompile(`\d`)
	specialRegexp = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// commonPasswords are rejected outright by docking two strength points.
var commonPasswords = map[string]bool{
	"password": true, "123456": true, "123456789": true,
	"qwerty": true, "abc123": true, "password123": true,
	"admin": true, "letmein": true, "welcome": true, "monkey": true,
}

const (
	minNameLen = 2
	maxNameLen = 50

	// minPasswordScore is the weakest score Register and
	// ChangePassword accept.
	minPasswordScore = 2
)

// ValidName reports whether name is a plausible first or last name:
// 2-50 characters, letters, spaces, hyphens and apostrophes only.
func ValidName(name string) bool {
	return len(name) >= minNameLen && len(name) <= maxNameLen && nameRegexp.MatchString(name)
}

// ValidEmail reports whether email has valid address syntax.
func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// PasswordStrength scores a password 0-5: length, upper, lower, digit
// and special character each contribute a point; well-known passwords
// lose two.
func PasswordStrength(password string) int {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if upperRegexp.MatchString(password) {
		score++
	}
	if lowerRegexp.MatchString(password) {
		score++
	}
	if digitRegexp.MatchString(password) {
		score++
	}
	if specialRegexp.MatchString(password) {
		score++
	}
	if commonPasswords[strings.ToLower(password)] {
		score -= 2
		if score < 0 {
			score = 0
		}
	}
	return score
}

// validateRegistration checks every field and reports all violations
// at once.
func validateRegistration(firstname, lastname, email, password string) error {
	ve := newValidationErrors()
	if !ValidName(firstname) {
		ve.add("firstname", "first name must be 2-50 characters and contain only letters, spaces, hyphens, and apostrophes")
	}
	if !ValidName(lastname) {
		ve.add("lastname", "last name must be 2-50 characters and contain only letters, spaces, hyphens, and apostrophes")
	}
	if !ValidEmail(email) {
		ve.add("email", "please provide a valid email address")
	}
	if PasswordStrength(password) < minPasswordScore {
		ve.add("password", "password is too weak")
	}
	if ve.empty() {
		return nil
	}
	return ve
}

func validateProfile(firstname, lastname string) error {
	ve := newValidationErrors()
	if !ValidName(firstname) {
		ve.add("firstname", "first name must be 2-50 characters and contain only letters, spaces, hyphens, and apostrophes")
	}
	if !ValidName(lastname) {
		ve.add("lastname", "last name must be 2-50 characters and contain only letters, spaces, hyphens, and apostrophes")
	}
	if ve.empty() {
		return nil
	}
	return ve
}
