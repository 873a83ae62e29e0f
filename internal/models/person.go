package models

// PersonType distinguishes individuals (PF) from companies (PJ).
type PersonType string

const (
	PersonIndividual PersonType = "PF"
	PersonCompany    PersonType = "PJ"
)

type AddressType string

const (
	AddressResidential AddressType = "residencial"
	AddressCommercial  AddressType = "comercial"
	AddressMailing     AddressType = "correspondencia"
	AddressBilling     AddressType = "cobranca"
	AddressDelivery    AddressType = "entrega"
)

type ContactType string

const (
	ContactPhone    ContactType = "telefone"
	ContactMobile   ContactType = "celular"
	ContactEmail    ContactType = "email"
	ContactWhatsApp ContactType = "whatsapp"
	ContactFax      ContactType = "fax"
	ContactSite     ContactType = "site"
	ContactLinkedIn ContactType = "linkedin"
	ContactOther    ContactType = "outro"
)

// Person is the demographic record attached to a user. Addresses and
// contacts keep their order; more than one may be flagged as primary.
type Person struct {
	ID          int64      `json:"id,omitempty"`
	Type        PersonType `json:"tipo"`
	Name        string     `json:"nome"`
	Email       string     `json:"email,omitempty"`
	Document    string     `json:"documento"`
	BirthDate   string     `json:"dataNascimento,omitempty"`
	CompanyName string     `json:"razaoSocial,omitempty"`
	TradeName   string     `json:"nomeFantasia,omitempty"`
	Active      bool       `json:"ativo"`
	Addresses   []Address  `json:"enderecos,omitempty"`
	Contacts    []Contact  `json:"contatos,omitempty"`
}

type Address struct {
	ID         int64       `json:"id,omitempty"`
	Type       AddressType `json:"tipo"`
	Primary    bool        `json:"principal"`
	Active     bool        `json:"ativo"`
	PostalCode string      `json:"cep,omitempty"`
	Street     string      `json:"logradouro"`
	Number     string      `json:"numero,omitempty"`
	Complement string      `json:"complemento,omitempty"`
	District   string      `json:"bairro"`
	City       string      `json:"cidade"`
	State      string      `json:"estado"`
	Country    string      `json:"pais"`
	Notes      string      `json:"observacoes,omitempty"`
}

type Contact struct {
	ID          int64       `json:"id,omitempty"`
	Type        ContactType `json:"tipo"`
	Value       string      `json:"valor"`
	Description string      `json:"descricao,omitempty"`
	Primary     bool        `json:"principal"`
	Active      bool        `json:"ativo"`
	Notes       string      `json:"observacoes,omitempty"`
}

// PrimaryAddress returns the first address flagged as primary, if any.
func (p *Person) PrimaryAddress() (Address, bool) {
	for _, a := range p.Addresses {
		if a.Primary {
			return a, true
		}
	}
	return Address{}, false
}

// PrimaryContact returns the first contact of the given type flagged as primary.
func (p *Person) PrimaryContact(t ContactType) (Contact, bool) {
	for _, c := range p.Contacts {
		if c.Primary && c.Type == t {
			return c, true
		}
	}
	return Contact{}, false
}
