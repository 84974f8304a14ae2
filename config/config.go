package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	EnvJwtAuthSecret      = "LAUNCHPAD_JWT_SECRET"
	EnvGithubClientID     = "OAUTH2_GITHUB_CLIENT_ID"
	EnvGithubClientSecret = "OAUTH2_GITHUB_CLIENT_SECRET"
	EnvSmtpUsername       = "LAUNCHPAD_SMTP_USERNAME"
	EnvSmtpPassword       = "LAUNCHPAD_SMTP_PASSWORD"
)

const (
	OAuth2ProviderGitHub = "github"
)

type Config struct {
	// Dev leaks issued verification codes in API responses so the flows can
	// be exercised without a mail server. Never enable in production.
	Dev bool `toml:"dev"`

	DBPath string `toml:"db_path"`

	Jwt             Jwt                       `toml:"jwt"`
	Server          Server                    `toml:"server"`
	Scheduler       Scheduler                 `toml:"scheduler"`
	Codes           Codes                     `toml:"codes"`
	RateLimits      RateLimits                `toml:"rate_limits"`
	Smtp            Smtp                      `toml:"smtp"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
	Endpoints       Endpoints                 `toml:"endpoints"`
	Content         Content                   `toml:"content"`
	Backup          Backup                    `toml:"backup"`
}

type Jwt struct {
	AuthSecret           string   `toml:"auth_secret"`
	SessionTokenDuration Duration `toml:"session_token_duration"`
}

type Server struct {
	Addr                    string   `toml:"addr"`
	BaseURL                 string   `toml:"base_url"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
}

type Scheduler struct {
	Interval              Duration `toml:"interval"`
	MaxJobsPerTick        int      `toml:"max_jobs_per_tick"`
	ConcurrencyMultiplier int      `toml:"concurrency_multiplier"`
}

type Codes struct {
	Length   int      `toml:"length"`
	Duration Duration `toml:"duration"`
}

type RateLimits struct {
	VerificationCooldown  Duration `toml:"verification_cooldown"`
	PasswordResetCooldown Duration `toml:"password_reset_cooldown"`
}

type Smtp struct {
	Enabled     bool   `toml:"enabled"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	FromName    string `toml:"from_name"`
	FromAddress string `toml:"from_address"`
	UseTLS      bool   `toml:"use_tls"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	SendTimeout Duration `toml:"send_timeout"`
}

type OAuth2Provider struct {
	Name            string   `toml:"name"`
	DisplayName     string   `toml:"display_name"`
	RedirectURLPath string   `toml:"redirect_url_path"`
	AuthURL         string   `toml:"auth_url"`
	TokenURL        string   `toml:"token_url"`
	UserInfoURL     string   `toml:"user_info_url"`
	UserEmailsURL   string   `toml:"user_emails_url"`
	Scopes          []string `toml:"scopes"`
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
}

// Endpoints holds the routable surface as "METHOD /path" strings so the
// whole route table is visible and overridable in one config section.
type Endpoints struct {
	Register              string `toml:"register"`
	VerifyCode            string `toml:"verify_code"`
	AuthWithPassword      string `toml:"auth_with_password"`
	RequestPasswordReset  string `toml:"request_password_reset"`
	ConfirmPasswordReset  string `toml:"confirm_password_reset"`
	UpdatePassword        string `toml:"update_password"`
	RequestEmailBind      string `toml:"request_email_bind"`
	ConfirmEmailBind      string `toml:"confirm_email_bind"`
	AuthCheck             string `toml:"auth_check"`
	AuthWithOAuth2        string `toml:"auth_with_oauth2"`
	OAuth2Callback        string `toml:"oauth2_callback"`
	HotSites              string `toml:"hot_sites"`
	HotSiteClick          string `toml:"hot_site_click"`
	SearchEngines         string `toml:"search_engines"`
	Tabs                  string `toml:"tabs"`
	GetPreferences        string `toml:"get_preferences"`
	UpdatePreferences     string `toml:"update_preferences"`
}

type Content struct {
	Path string `toml:"path"`

	Cache ContentCache `toml:"cache"`
	TopK  TopK         `toml:"topk"`
}

type ContentCache struct {
	MaxCost     int64 `toml:"max_cost"`
	NumCounters int64 `toml:"num_counters"`
}

type TopK struct {
	K          int      `toml:"k"`
	Width      int      `toml:"width"`
	Depth      int      `toml:"depth"`
	WindowSize int      `toml:"window_size"`
	TickSize   Duration `toml:"tick_size"`
}

type Backup struct {
	Enabled  bool     `toml:"enabled"`
	Dir      string   `toml:"dir"`
	Interval Duration `toml:"interval"`
	// Online backup copies this many pages per step, sleeping in between,
	// so writers keep making progress during the copy.
	PagesPerStep    int      `toml:"pages_per_step"`
	SleepBetween    Duration `toml:"sleep_between"`
	VacuumThreshold int64    `toml:"vacuum_threshold_bytes"`
}

// Duration wraps time.Duration for TOML round-tripping in "10s" notation.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

// Provider hands out the current *Config and accepts replacements, so a
// reload can swap configuration under a running server.
type Provider struct {
	mu  sync.RWMutex
	cfg *Config
}

func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		panic("config: NewProvider called with nil config")
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Get() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

func (p *Provider) Update(cfg *Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
}
