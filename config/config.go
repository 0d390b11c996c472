package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/masa23/crmmail/model"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListen        = ":8080"
	DefaultCacheDuration = 30 * time.Second
	DefaultFetchTimeout  = 30 * time.Second
	DefaultFetchLimit    = 50
)

var (
	ErrMissingPassword = errors.New("account password is not set")
	ErrNoAccount       = errors.New("no active email account configured")
)

type ObjectStorage struct {
	Endpoint  string `yaml:"Endpoint"`
	AccessKey string `yaml:"AccessKey"`
	SecretKey string `yaml:"SecretKey"`
	Bucket    string `yaml:"Bucket"`
	Region    string `yaml:"Region"`
}

// Enabled reports whether sent messages should be archived.
func (o ObjectStorage) Enabled() bool {
	return o.Bucket != ""
}

type Config struct {
	Listen        string               `yaml:"Listen"`
	Database      string               `yaml:"Database"`
	LogFile       string               `yaml:"LogFile"`
	CacheDuration time.Duration        `yaml:"CacheDuration"`
	FetchTimeout  time.Duration        `yaml:"FetchTimeout"`
	FetchLimit    int                  `yaml:"FetchLimit"`
	ObjectStorage ObjectStorage        `yaml:"ObjectStorage"`
	Accounts      []model.EmailAccount `yaml:"Accounts"`
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf, os.Getenv)
}

// Parse decodes a YAML config and resolves account passwords through getenv.
func Parse(buf []byte, getenv func(string) string) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}

	conf.setDefaults()
	for i := range conf.Accounts {
		acc := &conf.Accounts[i]
		if acc.PasswordEnv != "" {
			acc.SMTP.Password = getenv(acc.PasswordEnv)
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) setDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.CacheDuration <= 0 {
		c.CacheDuration = DefaultCacheDuration
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = DefaultFetchLimit
	}
	for i := range c.Accounts {
		acc := &c.Accounts[i]
		if acc.SMTP.User == "" {
			acc.SMTP.User = acc.Email
		}
		if acc.SMTP.FromEmail == "" {
			acc.SMTP.FromEmail = acc.Email
		}
		if acc.SMTP.FromName == "" {
			acc.SMTP.FromName = acc.Name
		}
		if acc.SMTP.Port == 0 {
			acc.SMTP.Port = 465
		}
		if acc.IMAP.Port == 0 {
			acc.IMAP.Port = 993
		}
	}
}

// Validate fails when an active account has no password or when more than
// one active account is marked as default.
func (c *Config) Validate() error {
	var errs []error
	var defaults []string
	active := 0
	seen := map[string]bool{}

	for _, acc := range c.Accounts {
		if acc.ID == "" {
			errs = append(errs, fmt.Errorf("account %q has no ID", acc.Email))
			continue
		}
		if seen[acc.ID] {
			errs = append(errs, fmt.Errorf("duplicate account ID %q", acc.ID))
		}
		seen[acc.ID] = true
		if !acc.IsActive {
			continue
		}
		active++
		if acc.Email == "" {
			errs = append(errs, fmt.Errorf("account %q has no Email", acc.ID))
		}
		if acc.PasswordEnv == "" {
			errs = append(errs, fmt.Errorf("account %q: PasswordEnv is not set: %w", acc.ID, ErrMissingPassword))
		} else if acc.SMTP.Password == "" {
			errs = append(errs, fmt.Errorf("%s environment variable is not set: %w", acc.PasswordEnv, ErrMissingPassword))
		}
		if acc.IsDefault {
			defaults = append(defaults, acc.ID)
		}
	}

	if active == 0 {
		errs = append(errs, ErrNoAccount)
	}
	if len(defaults) > 1 {
		errs = append(errs, fmt.Errorf("more than one default account: %s", strings.Join(defaults, ", ")))
	}
	return errors.Join(errs...)
}

// DefaultAccount returns the active default account, or the first active
// account when none is flagged.
func (c *Config) DefaultAccount() (model.EmailAccount, bool) {
	var first *model.EmailAccount
	for i := range c.Accounts {
		acc := &c.Accounts[i]
		if !acc.IsActive {
			continue
		}
		if acc.IsDefault {
			return *acc, true
		}
		if first == nil {
			first = acc
		}
	}
	if first == nil {
		return model.EmailAccount{}, false
	}
	return *first, true
}

// Account looks up an active account by ID.
func (c *Config) Account(id string) (model.EmailAccount, bool) {
	for _, acc := range c.Accounts {
		if acc.ID == id && acc.IsActive {
			return acc, true
		}
	}
	return model.EmailAccount{}, false
}

// ActiveAccounts returns active accounts in configuration order.
func (c *Config) ActiveAccounts() []model.EmailAccount {
	var accounts []model.EmailAccount
	for _, acc := range c.Accounts {
		if acc.IsActive {
			accounts = append(accounts, acc)
		}
	}
	return accounts
}
