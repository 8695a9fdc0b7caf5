package auth

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ActionURLs struct {
	Login         string `json:"login"`
	Register      string `json:"register"`
	ResetPassword string `json:"resetPassword"`
}

// Captcha is disabled when no site key is configured.
type Captcha struct {
	Enabled bool   `json:"enabled"`
	SiteKey string `json:"siteKey,omitempty"`
}

type SocialProvider struct {
	Alias       string `json:"alias"`
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
	LoginURL    string `json:"loginUrl"`
}

type LoginContext struct {
	Realm           string           `json:"realm"`
	ActionURLs      ActionURLs       `json:"actionUrls"`
	Captcha         Captcha          `json:"captcha"`
	SocialProviders []SocialProvider `json:"socialProviders"`
}

type branding struct {
	name string
	icon string
}

var known = map[string]branding{
	"google":   {name: "Google", icon: "google"},
	"facebook": {name: "Facebook", icon: "facebook"},
}

const genericIcon = "key"

// Provider describes the login button for alias. Unknown aliases get a title-cased name and a generic icon.
func Provider(alias, loginURL string) SocialProvider {
	alias = strings.ToLower(strings.TrimSpace(alias))
	p := SocialProvider{Alias: alias, LoginURL: loginURL}
	if b, ok := known[alias]; ok {
		p.DisplayName, p.Icon = b.name, b.icon
		return p
	}
	p.DisplayName = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(alias))
	p.Icon = genericIcon
	return p
}

type Config struct {
	Realm          string
	Actions        ActionURLs
	CaptchaSiteKey string
	// Providers are the registered provider aliases.
	Providers []string
	// LoginPath builds the redirect URL of a provider.
	LoginPath func(alias string) string
}

func NewLoginContext(cfg Config) LoginContext {
	lc := LoginContext{
		Realm:           cfg.Realm,
		ActionURLs:      cfg.Actions,
		SocialProviders: []SocialProvider{},
	}
	if key := strings.TrimSpace(cfg.CaptchaSiteKey); key != "" {
		lc.Captcha = Captcha{Enabled: true, SiteKey: key}
	}

	aliases := append([]string(nil), cfg.Providers...)
	sort.Strings(aliases)
	for _, alias := range aliases {
		url := "/auth/" + alias
		if cfg.LoginPath != nil {
			url = cfg.LoginPath(alias)
		}
		lc.SocialProviders = append(lc.SocialProviders, Provider(alias, url))
	}
	return lc
}
