package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morsig01/treningsglede/internal/domain"
)

func TestTemplateRenderer_BookingConfirmed(t *testing.T) {
	r := NewTemplateRenderer()
	data := domain.BookingConfirmationEmailData{
		Email:        "ola@example.no",
		Name:         "Ola",
		SessionTitle: "Spinning",
		Instructor:   "Kari",
		SessionDate:  "2024-06-01",
		StartTime:    "18:00",
		LocationName: "Sal 2",
	}

	subject, html, text, err := r.Render("booking_confirmed", data)
	require.NoError(t, err)
	assert.Equal(t, "Du er påmeldt Spinning", subject)
	assert.Contains(t, html, "Ola")
	assert.Contains(t, html, "Spinning")
	assert.Contains(t, text, "Kari")
	assert.Contains(t, text, "2024-06-01")
	assert.Contains(t, text, "Sal 2")
}

func TestTemplateRenderer_OptionalLocation(t *testing.T) {
	r := NewTemplateRenderer()
	data := domain.BookingConfirmationEmailData{
		Name:         "Ola",
		SessionTitle: "Yoga",
		Instructor:   "Per",
		SessionDate:  "2024-06-02",
		StartTime:    "09:00",
	}

	_, _, text, err := r.Render("booking_confirmed", data)
	require.NoError(t, err)
	assert.NotContains(t, text, "Sted:")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("nonexistent", nil)
	assert.Error(t, err)
}
