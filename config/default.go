package config

import (
	"time"

	"github.com/anvena/launchpad/crypto"
)

// NewDefaultConfig creates a new Config with sensible defaults. The JWT
// secret is randomly generated, so sessions do not survive a restart unless
// the secret is pinned via config file or environment.
func NewDefaultConfig() *Config {
	return &Config{
		Dev:    false,
		DBPath: "launchpad.db",
		Jwt: Jwt{
			AuthSecret:           crypto.RandomString(32, crypto.AlphanumericAlphabet),
			SessionTokenDuration: Duration{Duration: 7 * 24 * time.Hour},
		},
		Server: Server{
			Addr:                    ":8080",
			BaseURL:                 "http://localhost:8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		Scheduler: Scheduler{
			Interval:              Duration{Duration: 15 * time.Second},
			MaxJobsPerTick:        10,
			ConcurrencyMultiplier: 2,
		},
		Codes: Codes{
			Length:   6,
			Duration: Duration{Duration: 10 * time.Minute},
		},
		RateLimits: RateLimits{
			VerificationCooldown:  Duration{Duration: 1 * time.Minute},
			PasswordResetCooldown: Duration{Duration: 1 * time.Minute},
		},
		Smtp: Smtp{
			Enabled:     false,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "Launchpad",
			FromAddress: "",
			UseTLS:      false,
			Username:    "",
			Password:    "",
			SendTimeout: Duration{Duration: 10 * time.Second},
		},
		OAuth2Providers: map[string]OAuth2Provider{
			OAuth2ProviderGitHub: {
				Name:            OAuth2ProviderGitHub,
				DisplayName:     "GitHub",
				RedirectURLPath: "/api/auth/callback/github",
				AuthURL:         "https://github.com/login/oauth/authorize",
				TokenURL:        "https://github.com/login/oauth/access_token",
				UserInfoURL:     "https://api.github.com/user",
				UserEmailsURL:   "https://api.github.com/user/emails",
				Scopes:          []string{"user:email"},
				ClientID:        "",
				ClientSecret:    "",
			},
		},
		Endpoints: Endpoints{
			Register:             "POST /api/auth/register",
			VerifyCode:           "POST /api/auth/verify",
			AuthWithPassword:     "POST /api/auth/login",
			RequestPasswordReset: "POST /api/auth/reset-password",
			ConfirmPasswordReset: "POST /api/auth/set-password",
			UpdatePassword:       "POST /api/auth/update-password",
			RequestEmailBind:     "POST /api/auth/bind-email",
			ConfirmEmailBind:     "POST /api/auth/confirm-bind-email",
			AuthCheck:            "GET /api/auth/check",
			AuthWithOAuth2:       "GET /api/auth/github",
			OAuth2Callback:       "GET /api/auth/callback/github",
			HotSites:             "GET /api/hot-sites",
			HotSiteClick:         "POST /api/hot-sites/click",
			SearchEngines:        "GET /api/search-engines",
			Tabs:                 "GET /api/tabs",
			GetPreferences:       "GET /api/user-preferences",
			UpdatePreferences:    "PUT /api/user-preferences",
		},
		Content: Content{
			Path: "content.toml",
			Cache: ContentCache{
				MaxCost:     1 << 20,
				NumCounters: 10_000,
			},
			TopK: TopK{
				K:          16,
				Width:      1024,
				Depth:      3,
				WindowSize: 24,
				TickSize:   Duration{Duration: 1 * time.Hour},
			},
		},
		Backup: Backup{
			Enabled:         false,
			Dir:             "backups",
			Interval:        Duration{Duration: 24 * time.Hour},
			PagesPerStep:    100,
			SleepBetween:    Duration{Duration: 10 * time.Millisecond},
			VacuumThreshold: 100 * 1024 * 1024,
		},
	}
}
