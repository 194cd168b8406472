package directory

import (
	"strings"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
)

// LeadNotFoundMessage is the detail returned for unknown lead ids.
const LeadNotFoundMessage = "Lead not found"

// Directory resolves lead ids to their static records.
type Directory struct {
	leads []model.Lead
	byID  map[string]model.Lead
}

// New indexes leads by id. Later duplicates are ignored so listing order stays stable.
func New(leads []model.Lead) *Directory {
	d := &Directory{
		leads: make([]model.Lead, 0, len(leads)),
		byID:  make(map[string]model.Lead, len(leads)),
	}
	for _, lead := range leads {
		if _, dup := d.byID[lead.ID]; dup {
			continue
		}
		d.leads = append(d.leads, lead)
		d.byID[lead.ID] = lead
	}
	return d
}

// Default returns the directory seeded with MockLeads.
func Default() *Directory {
	return New(MockLeads)
}

// Resolve looks up a lead; unknown ids report errx.ErrNotFound.
func (d *Directory) Resolve(id string) (model.Lead, error) {
	lead, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return model.Lead{}, errx.NotFound(LeadNotFoundMessage)
	}
	return lead, nil
}

// List returns every lead in seed order.
func (d *Directory) List() []model.Lead {
	out := make([]model.Lead, len(d.leads))
	copy(out, d.leads)
	return out
}

var MockLeads = []model.Lead{
	{
		ID:      "lead_001",
		Name:    "John Smith",
		Email:   "john.smith@techcompany.com",
		Phone:   "+1-555-0123",
		Company: "TechCorp Industries",
		Inquiry: "Interested in industrial 3D printers for prototyping. Need high precision and large build volume.",
	},
	{
		ID:      "lead_002",
		Name:    "Sarah Johnson",
		Email:   "sarah.j@startup.com",
		Phone:   "+1-555-0456",
		Company: "Innovation Startup",
		Inquiry: "Looking for affordable desktop 3D printers for educational purposes. Need 5-10 units.",
	},
}
