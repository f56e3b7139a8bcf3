package partner

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
)

// Client represents a billable customer of an organization.
// It is the aggregate root for client operations.
type Client struct {
	shared.OrgAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	CompanyName string `gorm:"type:varchar(200)"`
	Email       string `gorm:"type:varchar(200);not null;uniqueIndex:idx_client_org_email,priority:2"`
	Phone       string `gorm:"type:varchar(50)"`
	TaxID       string `gorm:"type:varchar(50)"`
	Currency    valueobject.Currency
	AddressLine1 string `gorm:"type:varchar(200)"`
	AddressLine2 string `gorm:"type:varchar(200)"`
	City         string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:varchar(100)"`
	PostalCode   string `gorm:"type:varchar(20)"`
	Country      string `gorm:"type:varchar(100);default:'US'"`
	Notes        string `gorm:"type:text"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new active client
func NewClient(orgID uuid.UUID, name, email string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	client := &Client{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Email:            email,
		Country:          "US",
		IsActive:         true,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's basic information
func (c *Client) Update(name, companyName, email, phone, taxID string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(companyName) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}

	c.Name = name
	c.CompanyName = companyName
	c.Email = email
	c.Phone = phone
	c.TaxID = taxID
	c.UpdatedAt = time.Now()
	return nil
}

// SetAddress updates the billing address
func (c *Client) SetAddress(line1, line2, city, state, postalCode, country string) {
	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	if country != "" {
		c.Country = country
	}
	c.UpdatedAt = time.Now()
}

// SetCurrency sets the client's preferred billing currency
func (c *Client) SetCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
	}
	c.Currency = currency
	c.UpdatedAt = time.Now()
	return nil
}

// SetNotes updates the free-text notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
}

// Activate marks the client as active
func (c *Client) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

// Deactivate marks the client as inactive. Inactive clients keep their
// invoices but cannot be billed on new ones.
func (c *Client) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// DisplayName returns the company name when set, otherwise the contact name
func (c *Client) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.Name
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
