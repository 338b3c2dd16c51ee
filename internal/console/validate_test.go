package console

import (
	"encoding/json"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnia-aid/omnia/internal/model"
)

func TestPasswordMatch(t *testing.T) {
	pairs := [][2]string{{"a", "b"}, {"secret1", "secret2"}, {"x", "X"}, {"mot de passe", "mot de passe "}}
	for _, p := range pairs {
		errs := PasswordMatch(map[string]string{"password": p[0], "confirmPassword": p[1]})
		assert.Equal(t, CodePasswordMismatch, errs["confirmPassword"].Code, "%q vs %q", p[0], p[1])
		assert.False(t, errs.Has("password"))
	}
	for _, s := range []string{"", "a", "secret1", "é"} {
		errs := PasswordMatch(map[string]string{"password": s, "confirmPassword": s})
		assert.Empty(t, errs, "%q", s)
	}
}

func validFamilyValues() url.Values {
	return url.Values{
		"headOfFamily":     {"Mohamed Ben Ali"},
		"phone":            {"12345678"},
		"address":          {"15 Rue de la République, Tunis"},
		"latitude":         {"36.8065"},
		"longitude":        {"10.1815"},
		"familySize":       {"6"},
		"priorityLevel":    {"Medium"},
		"frequentAidTypes": {"1", "", "4"},
	}
}

func TestValidateFamilyForm(t *testing.T) {
	form := FamilyFormFromValues(validFamilyValues())
	assert.Empty(t, ValidateFamilyForm(form))
	assert.Equal(t, []string{"1", "4"}, form.AidTypeIDs)
	assert.True(t, form.HasAidType("4"))

	tests := []struct {
		field, value, code string
	}{
		{"headOfFamily", "", CodeRequired},
		{"headOfFamily", "A", CodeMinLength},
		{"phone", "1234567", CodePattern},
		{"phone", "123456789", CodePattern},
		{"address", "", CodeRequired},
		{"familySize", "", CodeRequired},
		{"familySize", "abc", CodePattern},
		{"familySize", "0", CodeMin},
		{"familySize", "21", CodeMax},
		{"priorityLevel", "Urgent", CodeInvalid},
		{"latitude", "123", CodeInvalid},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%q", tt.field, tt.value), func(t *testing.T) {
			v := validFamilyValues()
			v.Set(tt.field, tt.value)
			errs := ValidateFamilyForm(FamilyFormFromValues(v))
			require.True(t, errs.Has(tt.field), "errors: %v", errs)
			assert.Equal(t, tt.code, errs[tt.field].Code)
			assert.NotEmpty(t, errs.Message(tt.field))
		})
	}
}

func TestFamilyFormRequests(t *testing.T) {
	form := FamilyFormFromValues(validFamilyValues())

	create := form.CreateRequest("FAM-202503-007")
	assert.Equal(t, "FAM-202503-007", create.Reference)
	assert.Equal(t, 6, create.FamilySize)
	assert.Equal(t, model.PriorityMedium, create.PriorityLevel)
	require.NotNil(t, create.Latitude)
	assert.InDelta(t, 36.8065, *create.Latitude, 1e-9)

	update := form.UpdateRequest()
	assert.False(t, update.ClearLocation)
	require.NotNil(t, update.Longitude)
	assert.InDelta(t, 10.1815, *update.Longitude, 1e-9)
	assert.Equal(t, "Mohamed Ben Ali", *update.HeadOfFamily)

	form.Latitude, form.Longitude = "", ""
	update = form.UpdateRequest()
	assert.True(t, update.ClearLocation)
	assert.Nil(t, update.Latitude)
	assert.Nil(t, update.Longitude)

	form.AidTypeIDs = nil
	body, err := json.Marshal(form.UpdateRequest())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"frequentAidTypeIds":[]`)
	assert.Contains(t, string(body), `"clearLocation":true`)
}

func TestValidateFamilyFormCoordinatePairs(t *testing.T) {
	v := validFamilyValues()
	v.Set("longitude", "")
	errs := ValidateFamilyForm(FamilyFormFromValues(v))
	assert.Equal(t, CodeRequired, errs["longitude"].Code)
	assert.False(t, errs.Has("latitude"))

	v = validFamilyValues()
	v.Set("latitude", "")
	errs = ValidateFamilyForm(FamilyFormFromValues(v))
	assert.Equal(t, CodeRequired, errs["latitude"].Code)

	v.Set("longitude", "")
	assert.Empty(t, ValidateFamilyForm(FamilyFormFromValues(v)))
}

func TestFamilyFormFrom(t *testing.T) {
	f := sampleFamilies()[0]
	f.FrequentAidTypes = []model.AidType{{ID: "1"}, {ID: "4"}}
	form := FamilyFormFrom(&f)
	assert.Equal(t, "6", form.FamilySize)
	assert.Equal(t, "36.8065", form.Latitude)
	assert.Equal(t, []string{"1", "4"}, form.AidTypeIDs)
	assert.Empty(t, ValidateFamilyForm(form))
}

func TestValidateUserForm(t *testing.T) {
	form := UserForm{FirstName: "Jane", LastName: "Smith", Email: "jane@omnia.org", Role: "Manager"}

	errs := ValidateUserForm(form, true)
	assert.Equal(t, CodeRequired, errs["password"].Code)
	assert.Empty(t, ValidateUserForm(form, false))

	form.Password = "abc"
	assert.Equal(t, CodeMinLength, ValidateUserForm(form, false)["password"].Code)

	form.Password = "secret1"
	form.Email = "not-an-email"
	form.Phone = "12ab"
	form.Role = "Boss"
	errs = ValidateUserForm(form, true)
	assert.Equal(t, CodeEmail, errs["email"].Code)
	assert.Equal(t, CodePattern, errs["phone"].Code)
	assert.Equal(t, CodeInvalid, errs["role"].Code)
	assert.False(t, errs.Has("password"))
}

func TestUserFormRequests(t *testing.T) {
	form := UserFormFromValues(url.Values{
		"firstName": {" Jane "}, "lastName": {"Smith"}, "email": {"jane@omnia.org"},
		"role": {"manager"}, "active": {"on"},
	})
	assert.Equal(t, "Jane", form.FirstName)
	assert.True(t, form.Active)

	create := form.CreateRequest()
	assert.Equal(t, model.RoleManager, create.Role)
	require.NotNil(t, create.Active)
	assert.True(t, *create.Active)

	update := form.UpdateRequest()
	assert.Nil(t, update.Password)
	form.Password = "newpass"
	assert.Equal(t, "newpass", *form.UpdateRequest().Password)
}

func TestValidateRegisterForm(t *testing.T) {
	v := url.Values{
		"firstName": {"Sami"}, "lastName": {"Haddad"}, "email": {"sami@omnia.org"},
		"phone": {"123456789"}, "password": {"secret1"}, "confirmPassword": {"secret1"}, "role": {"Volunteer"},
	}
	assert.Empty(t, ValidateRegisterForm(RegisterFormFromValues(v)))

	v.Set("confirmPassword", "secret2")
	errs := ValidateRegisterForm(RegisterFormFromValues(v))
	assert.Equal(t, CodePasswordMismatch, errs["confirmPassword"].Code)

	v.Set("confirmPassword", "")
	errs = ValidateRegisterForm(RegisterFormFromValues(v))
	assert.Equal(t, CodePasswordMismatch, errs["confirmPassword"].Code)

	v.Set("password", "")
	errs = ValidateRegisterForm(RegisterFormFromValues(v))
	assert.Equal(t, CodeRequired, errs["confirmPassword"].Code)
	assert.Equal(t, CodeRequired, errs["password"].Code)

	v.Set("phone", "1234567")
	assert.Equal(t, CodePattern, ValidateRegisterForm(RegisterFormFromValues(v))["phone"].Code)
}
