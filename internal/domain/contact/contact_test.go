package contact

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() Details {
	return Details{City: " Kazan ", Street: "Baumana", House: "5", Apartment: "12", Phone: "+79990000000"}
}

func TestNewContact(t *testing.T) {
	owner := uuid.New()
	c, err := NewContact(owner, validDetails())
	require.NoError(t, err)
	assert.Equal(t, "Kazan", c.City)
	assert.True(t, c.IsOwnedBy(owner))

	tests := []struct {
		name   string
		mutate func(*Details)
	}{
		{"missing city", func(d *Details) { d.City = "" }},
		{"missing street", func(d *Details) { d.Street = "  " }},
		{"missing phone", func(d *Details) { d.Phone = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			_, err := NewContact(owner, d)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}

	_, err = NewContact(uuid.Nil, validDetails())
	assert.Error(t, err)
}

func TestContact_Update(t *testing.T) {
	c, err := NewContact(uuid.New(), validDetails())
	require.NoError(t, err)

	d := c.Details()
	d.Street = "Kremlevskaya"
	require.NoError(t, c.Update(d))
	assert.Equal(t, "Kremlevskaya", c.Street)
	assert.Equal(t, 2, c.GetVersion())

	d.Phone = ""
	assert.Error(t, c.Update(d))
	assert.Equal(t, "+79990000000", c.Phone)
}
