package contact

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Contact is a delivery address with a phone number, owned by one user.
// Contacts live independently of orders.
type Contact struct {
	shared.OwnedAggregateRoot
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// Details holds the editable fields of a contact
type Details struct {
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// NewContact creates a contact for ownerID
func NewContact(ownerID uuid.UUID, d Details) (*Contact, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("contact owner is required")
	}
	c := &Contact{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the contact details
func (c *Contact) Update(d Details) error {
	if err := c.apply(d); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

func (c *Contact) apply(d Details) error {
	d.City = strings.TrimSpace(d.City)
	d.Street = strings.TrimSpace(d.Street)
	d.Phone = strings.TrimSpace(d.Phone)
	if d.City == "" {
		return shared.NewValidationError("city is required")
	}
	if d.Street == "" {
		return shared.NewValidationError("street is required")
	}
	if d.Phone == "" {
		return shared.NewValidationError("phone is required")
	}
	if len(d.City) > 50 || len(d.Street) > 100 {
		return shared.NewValidationError("city or street is too long")
	}
	c.City = d.City
	c.Street = d.Street
	c.House = strings.TrimSpace(d.House)
	c.Structure = strings.TrimSpace(d.Structure)
	c.Building = strings.TrimSpace(d.Building)
	c.Apartment = strings.TrimSpace(d.Apartment)
	c.Phone = d.Phone
	return nil
}

// Details returns the editable fields
func (c *Contact) Details() Details {
	return Details{
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}
