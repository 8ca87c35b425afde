package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "repair-tracker/pkg/errors"
)

type quoteForm struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=100,safe_text"`
	Email            string `json:"email" validate:"required,strict_email"`
	Phone            string `json:"phone" validate:"required,max=20,phone"`
	City             string `json:"city" validate:"required,min=2,max=50,safe_text"`
	DeviceType       string `json:"device_type" validate:"required,device_type"`
	Brand            string `json:"brand" validate:"required,min=2,max=50,safe_text"`
	Model            string `json:"model" validate:"required,min=1,max=100,safe_text"`
	IssueDescription string `json:"issue_description" validate:"required,min=10,max=2000,safe_description"`
}

func validForm() quoteForm {
	return quoteForm{
		FullName:         "John Doe",
		Email:            "john@example.com",
		Phone:            "+905551234567",
		City:             "Istanbul",
		DeviceType:       "Inverter",
		Brand:            "Huawei",
		Model:            "SUN2000-5KTL",
		IssueDescription: "Device is not powering on at all",
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr), "expected HttpError, got %v", err)
	assert.Equal(t, 400, httpErr.Code)
	var names []string
	for _, f := range httpErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestValidate_QuoteForm(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(validForm()))

	cases := []struct {
		name   string
		mutate func(f *quoteForm)
		field  string
	}{
		{"description 9 chars", func(f *quoteForm) { f.IssueDescription = "123456789" }, "issue_description"},
		{"device Router", func(f *quoteForm) { f.DeviceType = "Router" }, "device_type"},
		{"device lowercase", func(f *quoteForm) { f.DeviceType = "inverter" }, "device_type"},
		{"name with markup", func(f *quoteForm) { f.FullName = "<b>John</b>" }, "full_name"},
		{"name with handler", func(f *quoteForm) { f.FullName = "x onmouseover=alert(1)" }, "full_name"},
		{"city with sql", func(f *quoteForm) { f.City = "a'; DROP TABLE quotes" }, "city"},
		{"brand with comment", func(f *quoteForm) { f.Brand = "Huawei--" }, "brand"},
		{"short phone", func(f *quoteForm) { f.Phone = "12345" }, "phone"},
		{"phone with letters", func(f *quoteForm) { f.Phone = "+90555ABC4567" }, "phone"},
		{"bad email", func(f *quoteForm) { f.Email = "john@" }, "email"},
		{"description script", func(f *quoteForm) { f.IssueDescription = "hello <script>alert(1)</script>" }, "issue_description"},
		{"description symbols", func(f *quoteForm) { f.IssueDescription = "!!!!!!!!!!!!broken" }, "issue_description"},
		{"description too long", func(f *quoteForm) { f.IssueDescription = strings.Repeat("a", 2001) }, "issue_description"},
		{"empty model", func(f *quoteForm) { f.Model = "" }, "model"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)
			assert.Contains(t, fieldsOf(t, v.Validate(f)), tc.field)
		})
	}
}

func TestValidate_Boundaries(t *testing.T) {
	v := New()

	f := validForm()
	f.IssueDescription = "1234567890"
	assert.NoError(t, v.Validate(f), "10 characters is the minimum")

	f.Phone = "+90 (555) 123-45-67"
	assert.NoError(t, v.Validate(f), "separators are stripped")

	for _, dt := range []string{"Inverter", "HV Battery", "LV Battery", "Solar Panel", "Charge Controller"} {
		f.DeviceType = dt
		assert.NoError(t, v.Validate(f), dt)
	}
}

func TestSafeDescription(t *testing.T) {
	assert.True(t, SafeDescription("Battery drains fast -- maybe a faulty cell?"))
	assert.True(t, SafeDescription("Inverter shows error code E-031, fan is noisy."))
	assert.False(t, SafeDescription("ok'; delete from quotes"))
	assert.False(t, SafeDescription("click <img onerror=alert(1)>"))
	// ровно 30% спецсимволов еще допустимо
	assert.True(t, SafeDescription("abcdefg!!!"))
	assert.False(t, SafeDescription("abcdef!!!!"))
}

func TestStatusText(t *testing.T) {
	assert.True(t, StatusText("Repair completed"))
	assert.False(t, StatusText("<b>done</b>"))
	assert.False(t, StatusText("JavaScript alert"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+905551234567", NormalizePhone(" +90 (555) 123-45-67 "))
}

type filterForm struct {
	DeviceType null.String `json:"device_type" validate:"omitempty,device_type"`
	Limit      null.Int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

func TestValidate_NullTypes(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(filterForm{}))
	assert.NoError(t, v.Validate(filterForm{DeviceType: null.StringFrom("Solar Panel"), Limit: null.IntFrom(50)}))
	assert.Contains(t, fieldsOf(t, v.Validate(filterForm{DeviceType: null.StringFrom("Router")})), "device_type")
	assert.Contains(t, fieldsOf(t, v.Validate(filterForm{Limit: null.IntFrom(500)})), "limit")
}
