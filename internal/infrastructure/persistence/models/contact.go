package models

import (
	"github.com/shopfront/backend/internal/domain/contact"
)

// ContactModel is the persistence model for the Contact aggregate root.
type ContactModel struct {
	OwnedAggregateModel
	City      string `gorm:"type:varchar(50);not null"`
	Street    string `gorm:"type:varchar(100);not null"`
	House     string `gorm:"type:varchar(15)"`
	Structure string `gorm:"type:varchar(15)"`
	Building  string `gorm:"type:varchar(15)"`
	Apartment string `gorm:"type:varchar(15)"`
	Phone     string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *contact.Contact {
	return &contact.Contact{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		City:               m.City,
		Street:             m.Street,
		House:              m.House,
		Structure:          m.Structure,
		Building:           m.Building,
		Apartment:          m.Apartment,
		Phone:              m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Contact
func (m *ContactModel) FromDomain(c *contact.Contact) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.City = c.City
	m.Street = c.Street
	m.House = c.House
	m.Structure = c.Structure
	m.Building = c.Building
	m.Apartment = c.Apartment
	m.Phone = c.Phone
}

// ContactModelFromDomain creates a new persistence model from a domain Contact
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
