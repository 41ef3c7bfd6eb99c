package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() ContactRequestDTO {
	return ContactRequestDTO{
		FirstName: "דנה",
		LastName:  "לוי",
		Email:     "dana@example.com",
		Subject:   "product-inquiry",
		Message:   "האם יש משלוח לחיפה?",
	}
}

func TestContactSubmit_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, validContact())))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.ContactSubmission
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.Phone)
	assert.Equal(t, "dana@example.com", created.Email)
}

func TestContactSubmit_PhoneSerializesAsNull(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, validContact())))
	require.Equal(t, http.StatusCreated, rec.Code)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	phone, present := raw["phone"]
	assert.True(t, present)
	assert.Nil(t, phone)
}

func TestContactSubmit_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		mutate  func(*ContactRequestDTO)
		details string
	}{
		{"first name", func(c *ContactRequestDTO) { c.FirstName = " " }, "first_name"},
		{"last name", func(c *ContactRequestDTO) { c.LastName = "" }, "last_name"},
		{"email", func(c *ContactRequestDTO) { c.Email = "not-an-email" }, "email"},
		{"email with display name", func(c *ContactRequestDTO) { c.Email = "Dana <dana@example.com>" }, "email"},
		{"subject", func(c *ContactRequestDTO) { c.Subject = "" }, "subject"},
		{"short message", func(c *ContactRequestDTO) { c.Message = "שלום" }, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validContact()
			tt.mutate(&body)

			rec := env.do(httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, "invalid_contact", resp.Code)
			assert.Contains(t, resp.Details, tt.details)
		})
	}
}

func TestContactSubmit_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t)
	body := validContact()
	body.Message = strings.Repeat("a", 2<<10)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
