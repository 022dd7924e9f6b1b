package managed

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

// defaultSettingsYAML carries the service's published endpoints, the request
// namespaces, and the field sets the create and update operations accept.
const defaultSettingsYAML = `
endpoints:
  live: https://www.eway.com.au/gateway/ManagedPaymentService/managedCreditCardPayment.asmx
  test: https://www.eway.com.au/gateway/ManagedPaymentService/test/managedCreditCardPayment.asmx
namespaces:
  envelope: http://schemas.xmlsoap.org/soap/envelope/
  service: https://www.eway.com.au/gateway/managedpayment
field_lists:
  create_customer: &customer_fields
    - {key: title, element: Title}
    - {key: first_name, element: FirstName}
    - {key: last_name, element: LastName}
    - {key: address, element: Address}
    - {key: suburb, element: Suburb}
    - {key: state, element: State}
    - {key: company, element: Company}
    - {key: post_code, element: PostCode}
    - {key: country, element: Country}
    - {key: email, element: Email}
    - {key: fax, element: Fax}
    - {key: phone, element: Phone}
    - {key: mobile, element: Mobile}
    - {key: customer_ref, element: CustomerRef}
    - {key: job_desc, element: JobDesc}
    - {key: comments, element: Comments}
    - {key: url, element: URL}
    - {key: cc_number, element: CCNumber}
    - {key: cc_name_on_card, element: CCNameOnCard}
    - {key: cc_expiry_month, element: CCExpiryMonth}
    - {key: cc_expiry_year, element: CCExpiryYear}
  update_customer: *customer_fields
`

// envPrefix scopes the environment variables the settings loader reads.
const envPrefix = "EWAY_"

// FieldSpec binds a logical field key to the XML element it serializes to.
type FieldSpec struct {
	Key     string `koanf:"key" validate:"required"`
	Element string `koanf:"element" validate:"required"`
}

type Endpoints struct {
	Live string `koanf:"live" validate:"required,url"`
	Test string `koanf:"test" validate:"required,url"`
}

type Namespaces struct {
	Envelope string `koanf:"envelope" validate:"required,url"`
	Service  string `koanf:"service" validate:"required,url"`
}

type FieldLists struct {
	CreateCustomer []FieldSpec `koanf:"create_customer" validate:"required,min=1,dive"`
	UpdateCustomer []FieldSpec `koanf:"update_customer" validate:"required,min=1,dive"`
}

// Settings selects the endpoints, the request namespaces, and the permitted
// request fields per operation. A client reads its Settings at construction
// and never mutates them.
type Settings struct {
	Endpoints  Endpoints  `koanf:"endpoints"`
	Namespaces Namespaces `koanf:"namespaces"`
	FieldLists FieldLists `koanf:"field_lists"`
}

// DefaultSettings returns the compiled-in defaults, still subject to
// environment overrides.
func DefaultSettings() (*Settings, error) {
	return LoadSettings("")
}

// LoadSettings layers the compiled-in defaults, an optional YAML file, and
// EWAY_-prefixed environment variables, later sources winning. Environment
// keys use "__" as the path separator, e.g. EWAY_ENDPOINTS__TEST overrides
// endpoints.test. The merged settings are validated before being returned.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaultSettingsYAML)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load default settings: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load settings file %s: %w", path, err)
		}
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load settings from environment: %w", err)
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings are complete enough to drive a client.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}
	return nil
}

// Endpoint returns the URL for the chosen mode.
func (s *Settings) Endpoint(testMode bool) string {
	if testMode {
		return s.Endpoints.Test
	}
	return s.Endpoints.Live
}
