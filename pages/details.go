package pages

import "strings"

const (
	detailsName        = ".inventory_details_name"
	detailsDescription = ".inventory_details_desc"
	detailsPrice       = ".inventory_details_price"
	detailsImage       = ".inventory_details_img"
	backButton         = "#back-to-products"
)

type ProductDetailsPage struct {
	d Driver
}

func NewProductDetailsPage(d Driver) *ProductDetailsPage {
	return &ProductDetailsPage{d: d}
}

func (p *ProductDetailsPage) IsOnProductDetailsPage() bool {
	if err := p.d.WaitVisible(detailsName, pageLoadWait); err != nil {
		return false
	}
	u, err := p.d.CurrentURL()
	if err != nil {
		return false
	}
	return strings.Contains(u, "inventory-item")
}

func (p *ProductDetailsPage) ProductName() (string, error) {
	return p.d.Text(detailsName)
}

func (p *ProductDetailsPage) ProductPrice() (string, error) {
	return p.d.Text(detailsPrice)
}

func (p *ProductDetailsPage) ProductDescription() (string, error) {
	return p.d.Text(detailsDescription)
}

func (p *ProductDetailsPage) IsProductImageDisplayed() bool {
	return p.d.IsDisplayed(detailsImage)
}

func (p *ProductDetailsPage) ClickBack() error {
	return p.d.Click(backButton)
}

func (p *ProductDetailsPage) AddToCart() error {
	return p.d.Click(addToCartButton)
}
