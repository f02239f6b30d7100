package product

import (
	"encoding/json"

	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
)

type (
	// Fields are the text inputs of the product form. Cost stays a string end to end.
	Fields struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Cost        string `json:"cost"`
	}

	// Draft is the form state: either a CreateDraft or an EditDraft, never both.
	Draft interface {
		fields() Fields
		isDraft()
	}

	CreateDraft struct {
		Fields
	}

	// EditDraft is bound to an existing product and always submits an update.
	EditDraft struct {
		ID int
		Fields
	}

	// FormView is what the product_form template renders.
	FormView struct {
		Edit        bool
		ID          int
		Title       string
		Description string
		Cost        string
		FormToken   string
	}

	// RowView is one table row. EditVals carries the row's fields for the Edit button.
	RowView struct {
		ID          int
		Title       string
		BannerImage string
		Cost        apiclient.Amount
		EditVals    string
	}

	DashboardView struct {
		Form FormView
	}
)

func (d CreateDraft) fields() Fields { return d.Fields }
func (CreateDraft) isDraft()         {}

func (d EditDraft) fields() Fields { return d.Fields }
func (EditDraft) isDraft()         {}

// NewFormView renders d with a fresh form token.
func NewFormView(d Draft, formToken string) FormView {
	f := d.fields()
	v := FormView{
		Title:       f.Title,
		Description: f.Description,
		Cost:        f.Cost,
		FormToken:   formToken,
	}
	if e, ok := d.(EditDraft); ok {
		v.Edit = true
		v.ID = e.ID
	}
	return v
}

func newRowView(p apiclient.Product) RowView {
	vals, _ := json.Marshal(Fields{
		Title:       p.Title,
		Description: p.Description,
		Cost:        p.Cost.String(),
	})
	return RowView{
		ID:          p.ID,
		Title:       p.Title,
		BannerImage: p.BannerImage,
		Cost:        p.Cost,
		EditVals:    string(vals),
	}
}

func toInput(f Fields, banner *apiclient.Upload) apiclient.ProductInput {
	return apiclient.ProductInput{
		Title:       f.Title,
		Description: f.Description,
		Cost:        f.Cost,
		Banner:      banner,
	}
}
