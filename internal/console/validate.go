package console

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/omnia-aid/omnia/internal/model"
)

// Error codes attached to form fields.
const (
	CodeRequired         = "required"
	CodeMinLength        = "minlength"
	CodeMaxLength        = "maxlength"
	CodeMin              = "min"
	CodeMax              = "max"
	CodeEmail            = "email"
	CodePattern          = "pattern"
	CodeInvalid          = "invalid"
	CodePasswordMismatch = "passwordMismatch"
)

type FieldError struct {
	Code  string
	Param string
}

// Message is the French text shown under the field.
func (e FieldError) Message() string {
	switch e.Code {
	case CodeRequired:
		return "Ce champ est obligatoire"
	case CodeMinLength:
		return "Au moins " + e.Param + " caractères"
	case CodeMaxLength:
		return "Au plus " + e.Param + " caractères"
	case CodeMin:
		return "La valeur minimale est " + e.Param
	case CodeMax:
		return "La valeur maximale est " + e.Param
	case CodeEmail:
		return "Adresse email invalide"
	case CodePattern:
		return "Format invalide"
	case CodePasswordMismatch:
		return "Les mots de passe ne correspondent pas"
	default:
		return "Valeur invalide"
	}
}

// FieldErrors maps a form field name to its first error.
type FieldErrors map[string]FieldError

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Message(field string) string {
	fe, ok := e[field]
	if !ok {
		return ""
	}
	return fe.Message()
}

func (e FieldErrors) add(field string, fe FieldError) {
	if _, ok := e[field]; !ok {
		e[field] = fe
	}
}

var (
	phoneExact = regexp.MustCompile(`^[0-9]{8}$`)
	phoneMin   = regexp.MustCompile(`^[0-9]{8,}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("phone8", func(fl validator.FieldLevel) bool {
		return phoneExact.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneMin.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePriorityLevel(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := model.ParseRole(fl.Field().String())
		return err == nil
	}))
	return v
}

// collect turns a validator result into field errors.
func collect(errs FieldErrors, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		errs.add(fe.Field(), FieldError{Code: codeFor(fe), Param: fe.Param()})
	}
}

func codeFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return CodeRequired
	case "min":
		if fe.Kind() == reflect.String {
			return CodeMinLength
		}
		return CodeMin
	case "max":
		if fe.Kind() == reflect.String {
			return CodeMaxLength
		}
		return CodeMax
	case "email":
		return CodeEmail
	case "phone", "phone8", "numeric":
		return CodePattern
	default:
		return CodeInvalid
	}
}

// PasswordMatch compares the password and confirmPassword values and flags
// the confirmation field when they differ.
func PasswordMatch(values map[string]string) FieldErrors {
	errs := FieldErrors{}
	if values["password"] != values["confirmPassword"] {
		errs["confirmPassword"] = FieldError{Code: CodePasswordMismatch}
	}
	return errs
}

// FamilyForm carries the raw values of the family form.
type FamilyForm struct {
	HeadOfFamily     string   `form:"headOfFamily" validate:"required,min=2"`
	Phone            string   `form:"phone" validate:"required,phone8"`
	Address          string   `form:"address" validate:"required"`
	Latitude         string   `form:"latitude" validate:"omitempty,latitude"`
	Longitude        string   `form:"longitude" validate:"omitempty,longitude"`
	FamilySize       string   `form:"familySize" validate:"required,numeric"`
	NeedsDescription string   `form:"needsDescription"`
	PriorityLevel    string   `form:"priorityLevel" validate:"required,priority"`
	Notes            string   `form:"notes"`
	AidTypeIDs       []string `form:"frequentAidTypes"`
}

func FamilyFormFromValues(v url.Values) FamilyForm {
	return FamilyForm{
		HeadOfFamily:     strings.TrimSpace(v.Get("headOfFamily")),
		Phone:            strings.TrimSpace(v.Get("phone")),
		Address:          strings.TrimSpace(v.Get("address")),
		Latitude:         strings.TrimSpace(v.Get("latitude")),
		Longitude:        strings.TrimSpace(v.Get("longitude")),
		FamilySize:       strings.TrimSpace(v.Get("familySize")),
		NeedsDescription: strings.TrimSpace(v.Get("needsDescription")),
		PriorityLevel:    strings.TrimSpace(v.Get("priorityLevel")),
		Notes:            strings.TrimSpace(v.Get("notes")),
		AidTypeIDs:       nonEmpty(v["frequentAidTypes"]),
	}
}

// NewFamilyForm is the blank form: one member, medium priority.
func NewFamilyForm() FamilyForm {
	return FamilyForm{FamilySize: "1", PriorityLevel: string(model.PriorityMedium)}
}

// FamilyFormFrom pre-fills the form for editing f.
func FamilyFormFrom(f *model.Family) FamilyForm {
	form := FamilyForm{
		HeadOfFamily:     f.HeadOfFamily,
		Phone:            f.Phone,
		Address:          f.Address,
		FamilySize:       strconv.Itoa(f.FamilySize),
		NeedsDescription: f.NeedsDescription,
		PriorityLevel:    string(f.PriorityLevel),
		Notes:            f.Notes,
	}
	if f.HasLocation() {
		form.Latitude = strconv.FormatFloat(*f.Latitude, 'f', -1, 64)
		form.Longitude = strconv.FormatFloat(*f.Longitude, 'f', -1, 64)
	}
	for _, a := range f.FrequentAidTypes {
		form.AidTypeIDs = append(form.AidTypeIDs, a.ID)
	}
	return form
}

// HasAidType reports whether id is among the selected aid types.
func (f FamilyForm) HasAidType(id string) bool {
	for _, s := range f.AidTypeIDs {
		if s == id {
			return true
		}
	}
	return false
}

// ValidateFamilyForm applies the family form rules. The size must be a
// whole number between 1 and 20, and coordinates come in pairs.
func ValidateFamilyForm(f FamilyForm) FieldErrors {
	errs := FieldErrors{}
	collect(errs, validate.Struct(f))
	switch {
	case f.Latitude != "" && f.Longitude == "":
		errs.add("longitude", FieldError{Code: CodeRequired})
	case f.Longitude != "" && f.Latitude == "":
		errs.add("latitude", FieldError{Code: CodeRequired})
	}
	if !errs.Has("familySize") {
		n, _ := strconv.Atoi(f.FamilySize)
		if err := validate.Var(n, "min=1,max=20"); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				errs.add("familySize", FieldError{Code: codeFor(verrs[0]), Param: verrs[0].Param()})
			}
		}
	}
	return errs
}

func (f FamilyForm) coordinates() (*float64, *float64) {
	lat, errLat := strconv.ParseFloat(f.Latitude, 64)
	long, errLong := strconv.ParseFloat(f.Longitude, 64)
	if f.Latitude == "" || f.Longitude == "" || errLat != nil || errLong != nil {
		return nil, nil
	}
	return &lat, &long
}

// CreateRequest converts a valid form. The console supplies the reference.
func (f FamilyForm) CreateRequest(reference string) model.FamilyCreateRequest {
	size, _ := strconv.Atoi(f.FamilySize)
	priority, _ := model.ParsePriorityLevel(f.PriorityLevel)
	lat, long := f.coordinates()
	return model.FamilyCreateRequest{
		Reference:          reference,
		HeadOfFamily:       f.HeadOfFamily,
		Phone:              f.Phone,
		Address:            f.Address,
		Latitude:           lat,
		Longitude:          long,
		FamilySize:         size,
		NeedsDescription:   f.NeedsDescription,
		PriorityLevel:      priority,
		Notes:              f.Notes,
		FrequentAidTypeIDs: f.AidTypeIDs,
	}
}

// UpdateRequest sends every field of the form. The aid type selection is
// always sent, so clearing it empties the family's list. Blank coordinates
// remove the location.
func (f FamilyForm) UpdateRequest() model.FamilyUpdateRequest {
	size, _ := strconv.Atoi(f.FamilySize)
	priority, _ := model.ParsePriorityLevel(f.PriorityLevel)
	lat, long := f.coordinates()
	ids := f.AidTypeIDs
	if ids == nil {
		ids = []string{}
	}
	return model.FamilyUpdateRequest{
		HeadOfFamily:       &f.HeadOfFamily,
		Phone:              &f.Phone,
		Address:            &f.Address,
		Latitude:           lat,
		Longitude:          long,
		FamilySize:         &size,
		NeedsDescription:   &f.NeedsDescription,
		PriorityLevel:      &priority,
		Notes:              &f.Notes,
		ClearLocation:      f.Latitude == "" && f.Longitude == "",
		FrequentAidTypeIDs: ids,
	}
}

// UserForm carries the raw values of the staff account form.
type UserForm struct {
	FirstName string `form:"firstName" validate:"required"`
	LastName  string `form:"lastName" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	Phone     string `form:"phone" validate:"omitempty,phone"`
	Password  string `form:"password" validate:"omitempty,min=6"`
	Role      string `form:"role" validate:"required,role"`
	Active    bool   `form:"active"`
}

func UserFormFromValues(v url.Values) UserForm {
	return UserForm{
		FirstName: strings.TrimSpace(v.Get("firstName")),
		LastName:  strings.TrimSpace(v.Get("lastName")),
		Email:     strings.TrimSpace(v.Get("email")),
		Phone:     strings.TrimSpace(v.Get("phone")),
		Password:  v.Get("password"),
		Role:      strings.TrimSpace(v.Get("role")),
		Active:    v.Get("active") != "",
	}
}

func NewUserForm() UserForm {
	return UserForm{Role: string(model.RoleVolunteer), Active: true}
}

func UserFormFrom(u *model.User) UserForm {
	return UserForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Active:    u.Active,
	}
}

// ValidateUserForm applies the account rules. A password is required only
// when creating.
func ValidateUserForm(f UserForm, creating bool) FieldErrors {
	errs := FieldErrors{}
	if creating && f.Password == "" {
		errs.add("password", FieldError{Code: CodeRequired})
	}
	collect(errs, validate.Struct(f))
	return errs
}

func (f UserForm) CreateRequest() model.CreateUserRequest {
	role, _ := model.ParseRole(f.Role)
	active := f.Active
	return model.CreateUserRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Password:  f.Password,
		Role:      role,
		Active:    &active,
	}
}

// UpdateRequest leaves the password untouched when the field is blank.
func (f UserForm) UpdateRequest() model.UpdateUserRequest {
	role, _ := model.ParseRole(f.Role)
	active := f.Active
	req := model.UpdateUserRequest{
		FirstName: &f.FirstName,
		LastName:  &f.LastName,
		Phone:     &f.Phone,
		Role:      &role,
		Active:    &active,
	}
	if f.Password != "" {
		req.Password = &f.Password
	}
	return req
}

// RegisterForm carries the self-registration values.
type RegisterForm struct {
	FirstName       string `form:"firstName" validate:"required"`
	LastName        string `form:"lastName" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone" validate:"omitempty,phone"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
	Role            string `form:"role" validate:"required,role"`
}

func RegisterFormFromValues(v url.Values) RegisterForm {
	return RegisterForm{
		FirstName:       strings.TrimSpace(v.Get("firstName")),
		LastName:        strings.TrimSpace(v.Get("lastName")),
		Email:           strings.TrimSpace(v.Get("email")),
		Phone:           strings.TrimSpace(v.Get("phone")),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirmPassword"),
		Role:            strings.TrimSpace(v.Get("role")),
	}
}

// ValidateRegisterForm applies the field rules, then the password match,
// which replaces any other error on the confirmation field.
func ValidateRegisterForm(f RegisterForm) FieldErrors {
	errs := FieldErrors{}
	collect(errs, validate.Struct(f))
	for field, fe := range PasswordMatch(map[string]string{
		"password":        f.Password,
		"confirmPassword": f.ConfirmPassword,
	}) {
		errs[field] = fe
	}
	return errs
}

func (f RegisterForm) Request() model.RegisterRequest {
	role, _ := model.ParseRole(f.Role)
	return model.RegisterRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Password:  f.Password,
		Role:      role,
	}
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
