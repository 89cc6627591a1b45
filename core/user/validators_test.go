package user

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/phronisis/core"
)

func newTestValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func translatedFieldErrs(t *testing.T, err error, translator ut.Translator) map[string]string {
	t.Helper()

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	fldErrs := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		fldErrs[vErr.Field()] = vErr.Translate(translator)
	}
	return fldErrs
}

func Test_validatePassword(t *testing.T) {
	validate, translator := newTestValidator()

	newUser := func(pwd string) NewUser {
		return NewUser{
			Email:           "hero@test.cd",
			DisplayName:     "Hero",
			Password:        pwd,
			PasswordConfirm: pwd,
		}
	}

	tests := []struct {
		name    string
		nu      NewUser
		wantErr string // translated password error; empty means valid
	}{
		{name: "too short", nu: newUser("lol"), wantErr: "password must contain at least 8 characters"},
		{name: "all numeric", nu: newUser("12345678"), wantErr: "password cannot be entirely numeric"},
		{name: "similar to email", nu: newUser("herotest1"), wantErr: "password cannot be similar to user attributes"},
		{name: "valid", nu: newUser("LolC@t123")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.nu)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			fldErrs := translatedFieldErrs(t, err, translator)
			assert.Equal(t, tt.wantErr, fldErrs["password"])
		})
	}

	t.Run("update skips empty password", func(t *testing.T) {
		assert.NoError(t, validate.Struct(UpdateUser{Email: "hero@test.cd", DisplayName: "Hero"}))
	})

	t.Run("update validates new password", func(t *testing.T) {
		err := validate.Struct(UpdateUser{
			Email:           "hero@test.cd",
			DisplayName:     "Hero",
			Password:        "LolC@t1",
			PasswordConfirm: "LolC@t1",
		})
		fldErrs := translatedFieldErrs(t, err, translator)
		assert.Equal(t, "password must contain at least 8 characters", fldErrs["password"])
	})
}
