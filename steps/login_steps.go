package steps

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cucumber/godog"
)

// standardPassword is shared by all demo accounts.
const standardPassword = "secret_sauce"

func (s *Suite) registerLoginSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I am on the login page$`, s.iAmOnTheLoginPage)
	sc.Step(`^I am logged in as "([^"]*)"$`, s.iAmLoggedInAs)
	sc.Step(`^I enter username "([^"]*)"$`, s.iEnterUsername)
	sc.Step(`^I enter password "([^"]*)"$`, s.iEnterPassword)
	sc.Step(`^I click on the login button$`, s.iClickOnTheLoginButton)
	sc.Step(`^I should be redirected to the products page$`, s.iShouldBeOnTheProductsPage)
	sc.Step(`^I should see the products title "([^"]*)"$`, s.iShouldSeeTheProductsTitle)
	sc.Step(`^I should see an error message$`, s.iShouldSeeAnErrorMessage)
	sc.Step(`^I should remain on the login page$`, s.iShouldRemainOnTheLoginPage)
}

func (s *Suite) iAmOnTheLoginPage() error {
	if err := s.login.Open(); err != nil {
		return err
	}
	if !s.login.IsOnLoginPage() {
		return errors.New("login page is not displayed")
	}
	return nil
}

func (s *Suite) iAmLoggedInAs(username string) error {
	if err := s.login.Open(); err != nil {
		return err
	}
	if err := s.login.Login(username, standardPassword); err != nil {
		return err
	}
	return s.iShouldBeOnTheProductsPage()
}

func (s *Suite) iEnterUsername(username string) error {
	return s.login.EnterUsername(username)
}

func (s *Suite) iEnterPassword(password string) error {
	return s.login.EnterPassword(password)
}

func (s *Suite) iClickOnTheLoginButton() error {
	return s.login.ClickLogin()
}

func (s *Suite) iShouldBeOnTheProductsPage() error {
	if !s.products.IsOnProductsPage() {
		return errors.New("products page is not displayed")
	}
	return nil
}

func (s *Suite) iShouldSeeTheProductsTitle(expected string) error {
	actual, err := s.products.Title()
	if err != nil {
		return err
	}
	if actual != expected {
		return errors.Newf("expected products title %q, got %q", expected, actual)
	}
	return nil
}

// iShouldSeeAnErrorMessage asserts on the message text only; ErrorMessage
// already waits for the element.
func (s *Suite) iShouldSeeAnErrorMessage() error {
	text, err := s.login.ErrorMessage()
	if err != nil {
		return err
	}
	if !strings.Contains(text, "Epic sadface") {
		return errors.Newf("unexpected login error message %q", text)
	}
	return nil
}

func (s *Suite) iShouldRemainOnTheLoginPage() error {
	if !s.login.IsOnLoginPage() {
		return errors.New("expected to stay on the login page")
	}
	return nil
}
