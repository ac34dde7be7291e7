package signin

// Phase is the submission lifecycle of a credential form.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the submission state owned by a Controller.
// Message is only meaningful when Phase is Failed.
type State struct {
	Phase   Phase
	Message string
}

// Submitting reports whether a sign-in attempt is in flight.
func (s State) Submitting() bool {
	return s.Phase == Submitting
}

// Field names a credential form field.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Fields lists the credential form fields in render order.
var Fields = []Field{FieldEmail, FieldPassword}

// ParseField maps a raw field name (route param, form key) to a Field.
func ParseField(name string) (Field, bool) {
	switch Field(name) {
	case FieldEmail:
		return FieldEmail, true
	case FieldPassword:
		return FieldPassword, true
	}
	return "", false
}

// CredentialInput is the value collected by the sign-in form.
type CredentialInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (in CredentialInput) value(f Field) string {
	if f == FieldPassword {
		return in.Password
	}
	return in.Email
}

// Snapshot is a copy of the controller state safe to hand to renderers
// or persist between requests. It never carries the password.
type Snapshot struct {
	Email           string
	FieldErrors     map[Field]string
	PasswordVisible bool
	State           State
}

// FieldError returns the recorded error for f, or "".
func (s Snapshot) FieldError(f Field) string {
	return s.FieldErrors[f]
}
