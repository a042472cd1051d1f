package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Email      EmailConfig
	WhatsApp   WhatsAppConfig
	Billing    BillingConfig
	Scheduler  SchedulerConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EmailConfig configures the email transport. Enabled is the per-channel
// kill switch; Mock short-circuits sends for local runs and tests.
type EmailConfig struct {
	Enabled     bool
	Mock        bool
	APIKey      string
	FromAddress string
	ReplyTo     string
}

// WhatsAppConfig configures the WhatsApp Business transport.
type WhatsAppConfig struct {
	Enabled        bool
	Mock           bool
	BaseURL        string
	PhoneID        string
	Token          string
	TimeoutSeconds int
}

// Timeout returns the per-send timeout for the WhatsApp transport.
func (c WhatsAppConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 12 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BillingConfig holds the injectable billing policy values: the overdue
// penalty curve, the dunning cadence offsets and the customer block
// threshold. These are business configuration, not domain constants.
type BillingConfig struct {
	FinePercent            float64
	DailyInterestPercent   float64
	ReminderLeadDays       int
	EscalationIntervalDays int
	BlockThresholdDays     int
}

type SchedulerConfig struct {
	Enabled   bool
	DailyCron string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/faturado")

	v.SetEnvPrefix("FATURADO")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("whatsapp.timeoutseconds", 12)
	v.SetDefault("billing.finepercent", 2.0)
	v.SetDefault("billing.dailyinterestpercent", 0.033)
	v.SetDefault("billing.reminderleaddays", 3)
	v.SetDefault("billing.escalationintervaldays", 10)
	v.SetDefault("billing.blockthresholddays", 10)
	v.SetDefault("scheduler.dailycron", "0 8 * * *")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	// Channel credentials are fatal at startup, not recoverable mid-batch.
	if c.Email.Enabled && !c.Email.Mock {
		if c.Email.APIKey == "" || c.Email.FromAddress == "" {
			return ierr.NewError("email channel enabled without credentials").
				WithHint("Set email.apikey and email.fromaddress or enable email.mock").
				Mark(ierr.ErrConfiguration)
		}
	}
	if c.WhatsApp.Enabled && !c.WhatsApp.Mock {
		if c.WhatsApp.BaseURL == "" || c.WhatsApp.PhoneID == "" || c.WhatsApp.Token == "" {
			return ierr.NewError("whatsapp channel enabled without credentials").
				WithHint("Set whatsapp.baseurl, whatsapp.phoneid and whatsapp.token or enable whatsapp.mock").
				Mark(ierr.ErrConfiguration)
		}
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development.
// This is useful for running scripts or other non-web applications.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Email:      EmailConfig{Enabled: true, Mock: true},
		WhatsApp:   WhatsAppConfig{Enabled: true, Mock: true, TimeoutSeconds: 12},
		Billing: BillingConfig{
			FinePercent:            2.0,
			DailyInterestPercent:   0.033,
			ReminderLeadDays:       3,
			EscalationIntervalDays: 10,
			BlockThresholdDays:     10,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
