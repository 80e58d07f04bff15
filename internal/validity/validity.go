package validity

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/growth-report/internal/models"
)

// DefaultSentinel marca las altas hechas con Google OAuth.
const DefaultSentinel = "UserCadastroGoogle"

type Class int

const (
	Google Class = iota
	FormValid
	FormInvalid
)

func (c Class) String() string {
	switch c {
	case Google:
		return "google"
	case FormValid:
		return "form_valid"
	default:
		return "form_invalid"
	}
}

// FormRule decide si un alta por formulario pasó la validación.
type FormRule interface {
	Valid(u models.UserRecord) bool
}

type FormRuleFunc func(u models.UserRecord) bool

func (f FormRuleFunc) Valid(u models.UserRecord) bool { return f(u) }

// Classifier separa leads en google / form-valid / form-invalid.
type Classifier struct {
	Sentinel string
	Form     FormRule
}

func NewClassifier(sentinel string, form FormRule) Classifier {
	if strings.TrimSpace(sentinel) == "" {
		sentinel = DefaultSentinel
	}
	if form == nil {
		form = NewFormRule()
	}
	return Classifier{Sentinel: sentinel, Form: form}
}

func (c Classifier) IsGoogle(u models.UserRecord) bool {
	return strings.TrimSpace(u.Value) == c.Sentinel
}

// Classify evalúa OAuth primero: un alta google nunca cuenta como form-invalid.
func (c Classifier) Classify(u models.UserRecord) Class {
	if c.IsGoogle(u) {
		return Google
	}
	if c.Form != nil && c.Form.Valid(u) {
		return FormValid
	}
	return FormInvalid
}

func (c Classifier) IsValid(u models.UserRecord) bool {
	return c.Classify(u) != FormInvalid
}

type formFields struct {
	Email      string `validate:"required,email"`
	Profession string `validate:"required,ne=-"`
}

type structRule struct{ v *validator.Validate }

// NewFormRule es la regla por defecto: email válido y profesión informada.
func NewFormRule() FormRule {
	return structRule{v: validator.New()}
}

func (r structRule) Valid(u models.UserRecord) bool {
	f := formFields{
		Email:      strings.TrimSpace(u.Username),
		Profession: strings.TrimSpace(u.Profession),
	}
	return r.v.Struct(f) == nil
}
