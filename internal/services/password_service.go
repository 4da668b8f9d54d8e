package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"finance-tracker/internal/config"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost = 12

	DefaultMinPasswordLength = 8
	MaxPasswordLength        = 72 // bcrypt limit

	generatedPasswordLength = 16
)

var (
	ErrPasswordEmpty       = errors.New("This password is empty.")
	ErrPasswordTooShort    = errors.New("This password is too short.")
	ErrPasswordTooLong     = fmt.Errorf("This password is longer than %d characters.", MaxPasswordLength)
	ErrPasswordNumeric     = errors.New("This password is entirely numeric.")
	ErrPasswordSimilar     = errors.New("The password is too similar to the username.")
	ErrPasswordNoUppercase = errors.New("The password must contain at least one uppercase letter.")
	ErrPasswordNoLowercase = errors.New("The password must contain at least one lowercase letter.")
	ErrPasswordNoNumber    = errors.New("The password must contain at least one digit.")
	ErrPasswordNoSpecial   = errors.New("The password must contain at least one special character.")

	passwordPolicyErrors = []error{
		ErrPasswordEmpty, ErrPasswordTooShort, ErrPasswordTooLong, ErrPasswordNumeric, ErrPasswordSimilar,
		ErrPasswordNoUppercase, ErrPasswordNoLowercase, ErrPasswordNoNumber, ErrPasswordNoSpecial,
	}

	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	numberRegex    = regexp.MustCompile(`[0-9]`)
	numericRegex   = regexp.MustCompile(`^[0-9]+$`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`)
)

// IsPasswordPolicyError reports whether err is a user-facing password rule
// violation.
func IsPasswordPolicyError(err error) bool {
	for _, policyErr := range passwordPolicyErrors {
		if errors.Is(err, policyErr) {
			return true
		}
	}
	return false
}

// PasswordService handles password hashing and validation
type PasswordService struct {
	cost   int
	policy config.SecurityConfig
}

// NewPasswordService creates a password service enforcing the configured policy
func NewPasswordService(policy config.SecurityConfig) PasswordServiceInterface {
	cost := policy.BCryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBCryptCost
	}
	if policy.PasswordMinLength <= 0 {
		policy.PasswordMinLength = DefaultMinPasswordLength
	}

	return &PasswordService{
		cost:   cost,
		policy: policy,
	}
}

// ValidatePassword checks the password against the policy. The username is
// used to reject passwords that merely repeat it.
func (ps *PasswordService) ValidatePassword(password, username string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	if len(password) < ps.policy.PasswordMinLength {
		return fmt.Errorf("%w It must contain at least %d characters.", ErrPasswordTooShort, ps.policy.PasswordMinLength)
	}

	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	if numericRegex.MatchString(password) {
		return ErrPasswordNumeric
	}

	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return ErrPasswordSimilar
	}

	if ps.policy.RequireUppercase && !uppercaseRegex.MatchString(password) {
		return ErrPasswordNoUppercase
	}

	if ps.policy.RequireLowercase && !lowercaseRegex.MatchString(password) {
		return ErrPasswordNoLowercase
	}

	if ps.policy.RequireNumbers && !numberRegex.MatchString(password) {
		return ErrPasswordNoNumber
	}

	if ps.policy.RequireSpecialChars && !specialRegex.MatchString(password) {
		return ErrPasswordNoSpecial
	}

	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password, username string) (string, error) {
	if err := ps.ValidatePassword(password, username); err != nil {
		return "", err
	}

	return ps.hash(password)
}

// ComparePassword compares a plain password with a hashed password
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPasswordWithoutValidation hashes operator-supplied or generated
// passwords that bypass the policy.
func (ps *PasswordService) HashPasswordWithoutValidation(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}

	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	return ps.hash(password)
}

// GenerateSecurePassword generates a random password that satisfies every
// optional rule.
func (ps *PasswordService) GenerateSecurePassword() (string, error) {
	const (
		uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		lowercase = "abcdefghijklmnopqrstuvwxyz"
		numbers   = "0123456789"
		special   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	)

	allChars := uppercase + lowercase + numbers + special
	result := make([]byte, generatedPasswordLength)

	for i, charSet := range []string{uppercase, lowercase, numbers, special} {
		index, err := secureRandomInt(len(charSet))
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		result[i] = charSet[index]
	}

	for i := 4; i < generatedPasswordLength; i++ {
		index, err := secureRandomInt(len(allChars))
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		result[i] = allChars[index]
	}

	for i := len(result) - 1; i > 0; i-- {
		j, err := secureRandomInt(i + 1)
		if err != nil {
			return "", fmt.Errorf("failed to shuffle password: %w", err)
		}
		result[i], result[j] = result[j], result[i]
	}

	return string(result), nil
}

func (ps *PasswordService) hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

func secureRandomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
