package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Auth0Config stores the Auth0 tenant details used to validate admin tokens.
type Auth0Config struct {
	Domain   string
	Audience string
}

func loadAuth0Config(getenv func(string) string) Auth0Config {
	return Auth0Config{
		Domain:   strings.TrimSpace(getenv("AUTH0_DOMAIN")),
		Audience: strings.TrimSpace(getenv("AUTH0_AUDIENCE")),
	}
}

// Enabled reports whether admin routes can be protected.
func (a Auth0Config) Enabled() bool {
	return a.Domain != "" && a.Audience != ""
}

// IssuerURL is the tenant URL tokens must be issued by.
func (a Auth0Config) IssuerURL() (*url.URL, error) {
	domain := strings.TrimSuffix(strings.TrimPrefix(a.Domain, "https://"), "/")
	u, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, fmt.Errorf("parse issuer url: %w", err)
	}
	return u, nil
}
