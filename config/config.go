package config

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyAuthClientID      = "auth.client_id"
	KeyAuthAuthority     = "auth.authority"
	KeyOutputFormat      = "output.format"
	KeyHTTPTimeout       = "http.timeout_seconds"
	KeyHTTPRequestsPerSd = "http.requests_per_second"
)

type Config struct {
	Auth   AuthConfig   `mapstructure:"auth" validate:"required"`
	Output OutputConfig `mapstructure:"output"`
	HTTP   HTTPConfig   `mapstructure:"http"`
}

type AuthConfig struct {
	ClientID  string `mapstructure:"client_id" validate:"required,uuid4"`
	Authority string `mapstructure:"authority" validate:"required,url"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type HTTPConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# office365-cli configuration
auth:
  # Azure AD application the CLI signs in as.
  client_id: "9bc3ab49-b65d-410a-85ad-de819febfddc"
  # Use https://login.microsoftonline.com/<tenant-id> to pin a tenant.
  authority: "https://login.microsoftonline.com/common"

output:
  # json or text
  format: "json"

http:
  timeout_seconds: 30
  # 0 disables client-side request pacing.
  requests_per_second: 0
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAuthClientID, "9bc3ab49-b65d-410a-85ad-de819febfddc")
	v.SetDefault(KeyAuthAuthority, "https://login.microsoftonline.com/common")
	v.SetDefault(KeyOutputFormat, "json")
	v.SetDefault(KeyHTTPTimeout, 30)
	v.SetDefault(KeyHTTPRequestsPerSd, 0)
}
