package domain

import (
	"strings"
	"time"
)

// Client is a renting customer, identified by a CPF (11 digits) or CNPJ
// (14 digits) document.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func NewClient(name, document, email, phone string) (*Client, error) {
	name = strings.TrimSpace(name)
	document = strings.TrimSpace(document)
	if name == "" || document == "" {
		return nil, InvalidInput("client name and document are required")
	}
	return &Client{
		Name:     name,
		Document: document,
		Email:    strings.TrimSpace(email),
		Phone:    strings.TrimSpace(phone),
	}, nil
}

// DocumentDigits strips everything but digits from a CPF/CNPJ.
func DocumentDigits(document string) string {
	var b strings.Builder
	for _, r := range document {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsCNPJ reports whether document looks like a company tax id.
func IsCNPJ(document string) bool {
	return len(DocumentDigits(document)) == 14
}

// CompanyInfo is what the company registry knows about a CNPJ.
type CompanyInfo struct {
	CNPJ      string `json:"cnpj"`
	LegalName string `json:"legal_name"`
	TradeName string `json:"trade_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// Fill copies registry data into the client's empty fields.
func (c *Client) Fill(info *CompanyInfo) {
	if info == nil {
		return
	}
	if c.Name == "" {
		c.Name = info.LegalName
		if c.Name == "" {
			c.Name = info.TradeName
		}
	}
	if c.Email == "" {
		c.Email = info.Email
	}
	if c.Phone == "" {
		c.Phone = info.Phone
	}
}
