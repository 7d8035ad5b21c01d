package pages

import "strings"

const (
	productsTitle     = ".title"
	productItem       = ".inventory_item"
	firstProductName  = ".inventory_item:first-child .inventory_item_name"
	sortDropdown      = ".product_sort_container"
	addToCartButton   = `button[id^="add-to-cart"]`
	shoppingCartBadge = ".shopping_cart_badge"
)

type ProductsPage struct {
	d Driver
}

func NewProductsPage(d Driver) *ProductsPage {
	return &ProductsPage{d: d}
}

// IsOnProductsPage waits for the page title and checks the inventory URL.
func (p *ProductsPage) IsOnProductsPage() bool {
	if err := p.d.WaitVisible(productsTitle, pageLoadWait); err != nil {
		return false
	}
	u, err := p.d.CurrentURL()
	if err != nil {
		return false
	}
	return strings.Contains(u, "inventory")
}

func (p *ProductsPage) Title() (string, error) {
	return p.d.Text(productsTitle)
}

func (p *ProductsPage) ClickFirstProduct() error {
	return p.d.Click(firstProductName)
}

func (p *ProductsPage) ProductsCount() (int, error) {
	return p.d.Count(productItem)
}

func (p *ProductsPage) SelectFilter(option string) error {
	return p.d.SelectByText(sortDropdown, option)
}

// AddFirstProductToCart does nothing when no product can be added.
func (p *ProductsPage) AddFirstProductToCart() error {
	n, err := p.d.Count(addToCartButton)
	if err != nil || n == 0 {
		return err
	}
	return p.d.Click(addToCartButton)
}

// CartCount returns the badge number, "0" when the badge is absent.
func (p *ProductsPage) CartCount() string {
	if !p.d.IsDisplayed(shoppingCartBadge) {
		return "0"
	}
	text, err := p.d.Text(shoppingCartBadge)
	if err != nil {
		return "0"
	}
	return text
}
