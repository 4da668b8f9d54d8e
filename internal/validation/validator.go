package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"finance-tracker/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once

	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("entry_type", validateEntryType)
	_ = v.RegisterValidation("username", validateUsername)

	// Report fields by their form name, falling back to the json name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// Struct validates s and returns the raw validator error.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateStruct validates s and returns per-field messages, or nil when s
// is valid.
func (v *Validator) ValidateStruct(s interface{}) map[string]string {
	return FieldErrors(v.validate.Struct(s))
}

// FieldErrors turns a validator error into one message per field. Errors
// that are not validation errors are reported under "__all__".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"__all__": err.Error()}
	}

	fieldErrors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		if _, exists := fieldErrors[fe.Field()]; exists {
			continue
		}
		fieldErrors[fe.Field()] = Message(fe)
	}
	return fieldErrors
}

// Message renders a single field error for display next to the input.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "money":
		return moneyMessage(fe.Value())
	case "entry_type":
		return "Select income or expense."
	case "username":
		return "Enter a valid username. Use letters, digits and @/./+/-/_ only."
	case "email":
		return "Enter a valid email address."
	case "uuid", "uuid4":
		return "Select a valid choice."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "eqfield":
		return "Passwords do not match!"
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}

func moneyMessage(value interface{}) string {
	raw, _ := value.(string)
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "Enter a number."
	}
	if amount.IsNegative() {
		return "Ensure this value is greater than or equal to 0."
	}

	digits, decimals := models.DecimalDigits(amount)
	switch {
	case decimals > models.MaxAmountDecimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", models.MaxAmountDecimalPlaces)
	case digits > models.MaxAmountDigits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", models.MaxAmountDigits)
	default:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.",
			models.MaxAmountDigits-models.MaxAmountDecimalPlaces)
	}
}

// validateMoney accepts non-negative decimals that fit decimal(10,2).
func validateMoney(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return models.ValidateAmount(amount) == nil
}

func validateEntryType(fl validator.FieldLevel) bool {
	return models.IsValidEntryType(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	return len(username) <= models.MaxUsernameLength && usernameRegex.MatchString(username)
}
