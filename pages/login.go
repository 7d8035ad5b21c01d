package pages

const (
	usernameInput = "#user-name"
	passwordInput = "#password"
	loginButton   = "#login-button"
	loginError    = `[data-test="error"]`
)

type LoginPage struct {
	d Driver
}

func NewLoginPage(d Driver) *LoginPage {
	return &LoginPage{d: d}
}

func (p *LoginPage) Open() error {
	return p.d.Open("/")
}

func (p *LoginPage) EnterUsername(username string) error {
	return p.d.SetValue(usernameInput, username)
}

func (p *LoginPage) EnterPassword(password string) error {
	return p.d.SetValue(passwordInput, password)
}

func (p *LoginPage) ClickLogin() error {
	return p.d.Click(loginButton)
}

func (p *LoginPage) Login(username, password string) error {
	if err := p.EnterUsername(username); err != nil {
		return err
	}
	if err := p.EnterPassword(password); err != nil {
		return err
	}
	return p.ClickLogin()
}

func (p *LoginPage) IsErrorMessageDisplayed() bool {
	return p.d.IsDisplayed(loginError)
}

func (p *LoginPage) ErrorMessage() (string, error) {
	return p.d.Text(loginError)
}

// IsOnLoginPage is true while the login button is shown.
func (p *LoginPage) IsOnLoginPage() bool {
	return p.d.IsDisplayed(loginButton)
}
