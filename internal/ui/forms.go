// Package ui holds the interactive terminal forms behind `selva setup`.
package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/simplyzetax/selva/internal/config"
	"github.com/simplyzetax/selva/internal/ssl"
)

const createNewCert = "CREATE_NEW_CERT"

// answers mirrors the editable settings as the strings huh inputs bind to
type answers struct {
	BaseURL      string
	Port         string
	Timezone     string
	LogLevel     string
	ReadTimeout  string
	WriteTimeout string
	TLS          bool
}

func answersFrom(cfg *config.AppConfig) answers {
	return answers{
		BaseURL:      cfg.Upstream.BaseURL,
		Port:         cfg.Server.Port,
		Timezone:     cfg.Timezone,
		LogLevel:     cfg.LogLevel,
		ReadTimeout:  cfg.Upstream.ReadTimeout.String(),
		WriteTimeout: cfg.Upstream.WriteTimeout.String(),
		TLS:          cfg.Server.TLS.Enabled,
	}
}

// apply copies validated answers into cfg
func (a answers) apply(cfg *config.AppConfig) error {
	for _, check := range []error{
		validateURL(a.BaseURL),
		validatePort(a.Port),
		validateTimezone(a.Timezone),
		validateDuration(a.ReadTimeout),
		validateDuration(a.WriteTimeout),
	} {
		if check != nil {
			return check
		}
	}

	read, _ := time.ParseDuration(strings.TrimSpace(a.ReadTimeout))
	write, _ := time.ParseDuration(strings.TrimSpace(a.WriteTimeout))

	cfg.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	cfg.Upstream.ReadTimeout = read
	cfg.Upstream.WriteTimeout = write
	cfg.Server.Port = strings.TrimSpace(a.Port)
	cfg.Timezone = strings.TrimSpace(a.Timezone)
	cfg.LogLevel = a.LogLevel
	cfg.Server.TLS.Enabled = a.TLS
	return nil
}

// SetupForm walks through the main settings, editing cfg in place
func SetupForm(cfg *config.AppConfig) error {
	a := answersFrom(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Upstream API base URL").
				Description("e.g., https://api.example.com").
				Validate(validateURL).
				Value(&a.BaseURL),
			huh.NewInput().
				Title("Listen port").
				Validate(validatePort).
				Value(&a.Port),
			huh.NewInput().
				Title("Display timezone").
				Description("IANA name, e.g., America/Asuncion").
				Validate(validateTimezone).
				Value(&a.Timezone),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Read timeout").
				Description("Applied to GET calls, e.g., 30s").
				Validate(validateDuration).
				Value(&a.ReadTimeout),
			huh.NewInput().
				Title("Write timeout").
				Description("Applied to every other method, e.g., 60s").
				Validate(validateDuration).
				Value(&a.WriteTimeout),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.LogLevel),
			huh.NewConfirm().
				Title("Serve over HTTPS?").
				Description("Uses a self-signed certificate").
				Value(&a.TLS),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	return a.apply(cfg)
}

// CertSelectorForm lets the user pick a stored certificate or create a new one.
// It returns the chosen certificate name.
func CertSelectorForm(store *ssl.Store) (string, error) {
	certNames, err := store.List()
	if err != nil {
		return "", fmt.Errorf("failed to list certs: %w", err)
	}

	var options []huh.Option[string]
	for _, cert := range certNames {
		options = append(options, huh.NewOption(cert, cert))
	}
	options = append(options, huh.NewOption("✨ Create new certificate...", createNewCert))

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pick a certificate.").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}

	if selected == createNewCert {
		return createNewCertificate(store)
	}
	return selected, nil
}

func createNewCertificate(store *ssl.Store) (string, error) {
	var host string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter domain for new certificate").
				Description("e.g., localhost, *.example.com, 127.0.0.1").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("domain is required")
					}
					return nil
				}).
				Value(&host),
		),
	)
	if err := inputForm.Run(); err != nil {
		return "", err
	}

	name, err := store.Generate(host)
	if err != nil {
		return "", fmt.Errorf("failed to generate new cert: %w", err)
	}
	log.Infof("Certificate %s created", name)
	return name, nil
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("enter an http(s) URL")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return errors.New("enter a port between 1 and 65535")
	}
	return nil
}

func validateTimezone(s string) error {
	if _, err := time.LoadLocation(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("unknown timezone %q", s)
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return errors.New("enter a positive duration such as 30s")
	}
	return nil
}
