package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantech-digital/corsite_api/shared"
)

func validContactRequest() ContactRequest {
	return ContactRequest{
		Name:    "Nguyễn Văn A",
		Email:   "nguyen@example.com",
		Message: "I would like to discuss a project with your team.",
	}
}

func TestContactRequestValidate_OK(t *testing.T) {
	req := validContactRequest()
	assert.NoError(t, req.Validate())
}

func TestContactRequestValidate_NameBounds(t *testing.T) {
	req := validContactRequest()
	req.Name = "A"
	assert.Error(t, req.Validate())

	req.Name = strings.Repeat("a", 101)
	assert.Error(t, req.Validate())

	req.Name = strings.Repeat("a", 100)
	assert.NoError(t, req.Validate())
}

func TestContactRequestValidate_MessageBounds(t *testing.T) {
	req := validContactRequest()

	// Rune count, not byte count: nine multi-byte runes must still fail.
	req.Message = strings.Repeat("ố", 9)
	assert.Error(t, req.Validate())

	req.Message = strings.Repeat("ố", 10)
	assert.NoError(t, req.Validate())

	req.Message = strings.Repeat("a", 5001)
	assert.Error(t, req.Validate())
}

func TestContactRequestValidate_EmailFormat(t *testing.T) {
	valid := []string{
		"user@example.com",
		"user+tag@sub.example.co",
		"ủy.ban@điện.vn",
	}
	invalid := []string{
		"plainaddress",
		"no@dot",
		"two@@example.com",
		"spaces in@example.com",
		"@example.com",
		"user@.com ",
	}

	for _, email := range valid {
		req := validContactRequest()
		req.Email = email
		assert.NoError(t, req.Validate(), "expected %q to be accepted", email)
	}
	for _, email := range invalid {
		req := validContactRequest()
		req.Email = email
		assert.Error(t, req.Validate(), "expected %q to be rejected", email)
	}
}

func TestContactRequestValidate_FieldErrorsAttached(t *testing.T) {
	req := ContactRequest{Email: "not-an-email"}

	err := req.Validate()
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	fieldErrors, ok := appErr.Data.([]ValidationError)
	require.True(t, ok)
	assert.NotEmpty(t, fieldErrors)
}

func TestContactRequestIsBot(t *testing.T) {
	req := validContactRequest()
	assert.False(t, req.IsBot())

	req.Honeypot = "http://spam.example"
	assert.True(t, req.IsBot())
}

func TestContactRequestIsSpam(t *testing.T) {
	cases := []struct {
		name    string
		message string
		spam    bool
	}{
		{"short with http link", "Check https://spam.example now", true},
		{"short with www link", "visit www.spam.example today", true},
		{"short without link", "Hello, I have a quick question.", false},
		{"long with link", "We reviewed your portfolio at https://example.com and would like to discuss a long-term engagement with your studio.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := ContactRequest{Message: tc.message}
			assert.Equal(t, tc.spam, req.IsSpam())
		})
	}
}

func TestContactRequestValidate_RejectsSpam(t *testing.T) {
	req := validContactRequest()
	req.Message = "Buy cheap here https://spam.example"

	err := req.Validate()
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestCVRequestValidate(t *testing.T) {
	req := CVRequest{Name: "Tran B", Email: "tran@example.com"}
	assert.NoError(t, req.Validate())

	req.Email = "bad email"
	assert.Error(t, req.Validate())

	req = CVRequest{Email: "tran@example.com"}
	assert.Error(t, req.Validate())
}
