package signin

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationResult is the outcome of validating one field.
type ValidationResult struct {
	Field   Field
	Valid   bool
	Message string
}

// Schema is the declarative rule set for the credential form.
// Rules are taken from the validate tags on CredentialInput so the
// field-level and whole-input checks never drift apart.
type Schema struct {
	validate *validator.Validate
	rules    map[Field]string
	labels   map[Field]string
}

// NewSchema builds the default credential schema.
func NewSchema() *Schema {
	return &Schema{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		rules: map[Field]string{
			FieldEmail:    "required,email",
			FieldPassword: "required,min=8,max=72",
		},
		labels: map[Field]string{
			FieldEmail:    "Email",
			FieldPassword: "Password",
		},
	}
}

// ValidateField checks a single value against the rule for f.
func (s *Schema) ValidateField(f Field, value string) ValidationResult {
	rule, ok := s.rules[f]
	if !ok {
		return ValidationResult{Field: f, Message: fmt.Sprintf("unknown field %q", f)}
	}

	err := s.validate.Var(value, rule)
	if err == nil {
		return ValidationResult{Field: f, Valid: true}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return ValidationResult{Field: f, Message: s.message(f, verrs[0])}
	}
	return ValidationResult{Field: f, Message: s.labels[f] + " is invalid"}
}

// ValidateInput checks every field and returns the messages of the
// invalid ones. An empty map means the input may be submitted.
func (s *Schema) ValidateInput(in CredentialInput) map[Field]string {
	errs := make(map[Field]string)
	for _, f := range Fields {
		if res := s.ValidateField(f, in.value(f)); !res.Valid {
			errs[f] = res.Message
		}
	}
	return errs
}

func (s *Schema) message(f Field, fe validator.FieldError) string {
	label := s.labels[f]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
