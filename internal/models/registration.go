package models

import "fmt"

// Registration field names as they appear on the wire, in canonical order.
const (
	FieldFullName        = "fullName"
	FieldGuardianName    = "guardianName"
	FieldClassGrade      = "classGrade"
	FieldLanguage        = "language"
	FieldLocation        = "location"
	FieldEmailAddress    = "emailAddress"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// PayloadFields lists the fields forwarded to the webhook, in canonical order.
var PayloadFields = []string{
	FieldFullName,
	FieldGuardianName,
	FieldClassGrade,
	FieldLanguage,
	FieldLocation,
	FieldEmailAddress,
	FieldPassword,
}

// FormFields lists every field the registration form renders.
var FormFields = append(append([]string(nil), PayloadFields...), FieldConfirmPassword)

// ClassGrades enumerates the selectable class/grade labels.
var ClassGrades = []string{
	"1st Grade", "2nd Grade", "3rd Grade", "4th Grade", "5th Grade", "6th Grade",
	"7th Grade", "8th Grade", "9th Grade", "10th Grade", "11th Grade", "12th Grade",
}

// Languages enumerates the selectable preferred languages.
var Languages = []string{
	"English", "Hindi", "Spanish", "French", "German", "Chinese", "Japanese", "Other",
}

// RegistrationPayload is what the form transmits and the relay forwards.
type RegistrationPayload struct {
	FullName     string `json:"fullName" validate:"required"`
	GuardianName string `json:"guardianName" validate:"required"`
	ClassGrade   string `json:"classGrade" validate:"required"`
	Language     string `json:"language" validate:"required"`
	Location     string `json:"location" validate:"required"`
	EmailAddress string `json:"emailAddress" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// Map flattens the payload keyed by wire field name.
func (p RegistrationPayload) Map() map[string]string {
	return map[string]string{
		FieldFullName:     p.FullName,
		FieldGuardianName: p.GuardianName,
		FieldClassGrade:   p.ClassGrade,
		FieldLanguage:     p.Language,
		FieldLocation:     p.Location,
		FieldEmailAddress: p.EmailAddress,
		FieldPassword:     p.Password,
	}
}

// SampleRegistration is the fixed payload used to probe the webhook.
func SampleRegistration() RegistrationPayload {
	return RegistrationPayload{
		FullName:     "Test User",
		GuardianName: "Test Guardian",
		ClassGrade:   "10th Grade",
		Language:     "English",
		Location:     "Test Location",
		EmailAddress: "test@example.com",
		Password:     "testpass123",
	}
}

// RegistrationInput is the in-memory state of the registration form.
// ConfirmPassword only exists client side and never leaves the form.
type RegistrationInput struct {
	FullName        string `json:"fullName" validate:"notblank,trimmin=2"`
	GuardianName    string `json:"guardianName" validate:"notblank,trimmin=2"`
	ClassGrade      string `json:"classGrade" validate:"notblank"`
	Language        string `json:"language" validate:"notblank"`
	Location        string `json:"location" validate:"notblank"`
	EmailAddress    string `json:"emailAddress" validate:"notblank,simpleemail"`
	Password        string `json:"password" validate:"notblank,minlen=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"notblank,eqfield=Password"`
}

// Payload strips the client-only fields.
func (in RegistrationInput) Payload() RegistrationPayload {
	return RegistrationPayload{
		FullName:     in.FullName,
		GuardianName: in.GuardianName,
		ClassGrade:   in.ClassGrade,
		Language:     in.Language,
		Location:     in.Location,
		EmailAddress: in.EmailAddress,
		Password:     in.Password,
	}
}

// Get returns the value of the named field.
func (in *RegistrationInput) Get(field string) (string, error) {
	ptr, err := in.field(field)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// Set assigns the named field.
func (in *RegistrationInput) Set(field, value string) error {
	ptr, err := in.field(field)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

func (in *RegistrationInput) field(name string) (*string, error) {
	switch name {
	case FieldFullName:
		return &in.FullName, nil
	case FieldGuardianName:
		return &in.GuardianName, nil
	case FieldClassGrade:
		return &in.ClassGrade, nil
	case FieldLanguage:
		return &in.Language, nil
	case FieldLocation:
		return &in.Location, nil
	case FieldEmailAddress:
		return &in.EmailAddress, nil
	case FieldPassword:
		return &in.Password, nil
	case FieldConfirmPassword:
		return &in.ConfirmPassword, nil
	default:
		return nil, fmt.Errorf("unknown registration field %q", name)
	}
}
