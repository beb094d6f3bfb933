package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ============================================================
// Form inputs (validated client-side before any network call)
// ============================================================

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupForm is the account-creation form.
type SignupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

// PasswordChange is the change-password form. Confirm must match New.
type PasswordChange struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=8"`
	Confirm string `json:"confirm" validate:"required,eqfield=New"`
}

// FeedbackForm is the post-consultation rating form.
type FeedbackForm struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ConsultationForm is the multi-step intake form. Optional numeric
// fields left at 0 mean "not provided" and are omitted from the
// create request by the transformer.
type ConsultationForm struct {
	// Step 1: business info
	BusinessName  string        `json:"business_name" validate:"omitempty,max=120"`
	BusinessType  BusinessType  `json:"business_type" validate:"required,oneof=saas ecommerce service marketplace other"`
	BusinessStage BusinessStage `json:"business_stage" validate:"required,oneof=idea startup growth established enterprise"`
	Location      string        `json:"location"`
	TeamSize      int           `json:"team_size" validate:"min=0"`
	Industry      string        `json:"industry"`

	// Step 2: financial snapshot
	MonthlyRevenue  float64  `json:"monthly_revenue" validate:"min=0"`
	MonthlyExpenses float64  `json:"monthly_expenses" validate:"min=0"`
	MainGoal        string   `json:"main_goal" validate:"required"`
	OtherGoals      []string `json:"other_goals"`
	TargetRevenue   float64  `json:"target_revenue" validate:"min=0"`

	// Derived from the subscription tier by the caller, never
	// user-selected; intake JSON cannot set it.
	Plan ConsultationPlan `json:"-" validate:"required,oneof=basic premium ultra"`
}

var formValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a form against its struct tags and converts the
// first failure into an ErrValidation with a display-ready message.
func Validate(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		}
	}
	return err
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "eqfield":
		return "does not match"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
