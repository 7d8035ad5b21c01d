package pages

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	visible  map[string]bool
	texts    map[string]string
	counts   map[string]int
	options  map[string][]string
	url      string
	calls    []string
	values   map[string]string
	selected map[string]string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		visible:  map[string]bool{},
		texts:    map[string]string{},
		counts:   map[string]int{},
		options:  map[string][]string{},
		values:   map[string]string{},
		selected: map[string]string{},
	}
}

func (f *fakeDriver) Open(path string) error {
	f.calls = append(f.calls, "open "+path)
	f.url = "https://www.saucedemo.com" + path
	return nil
}

func (f *fakeDriver) WaitVisible(sel string, _ time.Duration) error {
	if !f.visible[sel] {
		return errors.Newf("%s not visible", sel)
	}
	return nil
}

func (f *fakeDriver) Click(sel string) error {
	if err := f.WaitVisible(sel, 0); err != nil {
		return err
	}
	f.calls = append(f.calls, "click "+sel)
	return nil
}

func (f *fakeDriver) SetValue(sel, value string) error {
	f.calls = append(f.calls, "set "+sel)
	f.values[sel] = value
	return nil
}

func (f *fakeDriver) Text(sel string) (string, error) {
	if err := f.WaitVisible(sel, 0); err != nil {
		return "", err
	}
	return f.texts[sel], nil
}

func (f *fakeDriver) IsDisplayed(sel string) bool {
	return f.visible[sel]
}

func (f *fakeDriver) CurrentURL() (string, error) {
	return f.url, nil
}

func (f *fakeDriver) SelectByText(sel, text string) error {
	for _, o := range f.options[sel] {
		if o == text {
			f.selected[sel] = text
			return nil
		}
	}
	return errors.Newf("option %q not found", text)
}

func (f *fakeDriver) Count(sel string) (int, error) {
	return f.counts[sel], nil
}

func TestLoginPage_Login(t *testing.T) {
	d := newFakeDriver()
	d.visible[loginButton] = true
	p := NewLoginPage(d)

	require.NoError(t, p.Open())
	require.NoError(t, p.Login("standard_user", "secret_sauce"))

	assert.Equal(t, "standard_user", d.values[usernameInput])
	assert.Equal(t, "secret_sauce", d.values[passwordInput])
	assert.Equal(t, []string{"open /", "set #user-name", "set #password", "click #login-button"}, d.calls)
	assert.True(t, p.IsOnLoginPage())
}

func TestLoginPage_ErrorMessage(t *testing.T) {
	d := newFakeDriver()
	p := NewLoginPage(d)
	assert.False(t, p.IsErrorMessageDisplayed())

	d.visible[loginError] = true
	d.texts[loginError] = "Epic sadface: Username and password do not match"
	assert.True(t, p.IsErrorMessageDisplayed())
	msg, err := p.ErrorMessage()
	require.NoError(t, err)
	assert.Contains(t, msg, "Epic sadface")
}

func TestProductsPage_IsOnProductsPage(t *testing.T) {
	d := newFakeDriver()
	p := NewProductsPage(d)
	assert.False(t, p.IsOnProductsPage())

	d.visible[productsTitle] = true
	d.url = "https://www.saucedemo.com/"
	assert.False(t, p.IsOnProductsPage())

	d.url = "https://www.saucedemo.com/inventory.html"
	assert.True(t, p.IsOnProductsPage())
}

func TestProductsPage_Actions(t *testing.T) {
	d := newFakeDriver()
	d.visible[productsTitle] = true
	d.texts[productsTitle] = "Products"
	d.visible[firstProductName] = true
	d.counts[productItem] = 6
	d.options[sortDropdown] = []string{"Name (A to Z)", "Price (low to high)"}
	p := NewProductsPage(d)

	title, err := p.Title()
	require.NoError(t, err)
	assert.Equal(t, "Products", title)

	n, err := p.ProductsCount()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	require.NoError(t, p.ClickFirstProduct())
	require.NoError(t, p.SelectFilter("Price (low to high)"))
	assert.Equal(t, "Price (low to high)", d.selected[sortDropdown])
	assert.Error(t, p.SelectFilter("Popularity"))
}

func TestProductsPage_Cart(t *testing.T) {
	d := newFakeDriver()
	p := NewProductsPage(d)

	require.NoError(t, p.AddFirstProductToCart())
	assert.Empty(t, d.calls)
	assert.Equal(t, "0", p.CartCount())

	d.counts[addToCartButton] = 6
	d.visible[addToCartButton] = true
	require.NoError(t, p.AddFirstProductToCart())
	assert.Equal(t, []string{"click " + addToCartButton}, d.calls)

	d.visible[shoppingCartBadge] = true
	d.texts[shoppingCartBadge] = "1"
	assert.Equal(t, "1", p.CartCount())
}

func TestProductDetailsPage(t *testing.T) {
	d := newFakeDriver()
	d.visible[detailsName] = true
	d.visible[detailsPrice] = true
	d.visible[detailsImage] = true
	d.visible[backButton] = true
	d.texts[detailsName] = "Sauce Labs Backpack"
	d.texts[detailsPrice] = "$29.99"
	d.url = "https://www.saucedemo.com/inventory-item.html?id=4"
	p := NewProductDetailsPage(d)

	assert.True(t, p.IsOnProductDetailsPage())
	name, err := p.ProductName()
	require.NoError(t, err)
	assert.Equal(t, "Sauce Labs Backpack", name)
	price, err := p.ProductPrice()
	require.NoError(t, err)
	assert.Contains(t, price, "$")
	assert.True(t, p.IsProductImageDisplayed())
	require.NoError(t, p.ClickBack())

	d.url = "https://www.saucedemo.com/inventory.html"
	assert.False(t, p.IsOnProductDetailsPage())
}
