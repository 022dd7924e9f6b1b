// Package managed is a client for the eWAY Token Payments service, which
// stores ("manages") customer card profiles and processes payments against
// them over a SOAP 1.1 API. A Client exposes one method per remote operation;
// envelope construction, transport, and fault handling live in the soap
// package underneath.
package managed

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cheyinl/eway-managed/soap"
)

// Environment variables read by NewClientFromEnv.
const (
	EnvCustomerID = "EWAY_CUSTOMER_ID"
	EnvUsername   = "EWAY_USERNAME"
	EnvPassword   = "EWAY_PASSWORD"
	EnvTestMode   = "EWAY_TEST_MODE"
)

// Credentials identify the merchant on every request. All three fields are
// required.
type Credentials struct {
	CustomerID string `validate:"required"`
	Username   string `validate:"required"`
	Password   string `validate:"required"`
}

type options struct {
	settings *Settings
	soapOpts []soap.Option
}

// A Option adjusts client construction.
type Option func(*options)

// WithSettings is an Option to replace the default settings, e.g. with ones
// loaded from a file via LoadSettings.
func WithSettings(s *Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithLogger is an Option to log every request and response through the
// given logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.soapOpts = append(o.soapOpts, soap.WithLogger(l))
	}
}

// WithHTTPClient is an Option to set the HTTP client requests go through.
func WithHTTPClient(c soap.HTTPClient) Option {
	return func(o *options) {
		o.soapOpts = append(o.soapOpts, soap.WithHTTPClient(c))
	}
}

// WithTimeout is an Option to set the HTTP dial timeout.
func WithTimeout(t time.Duration) Option {
	return func(o *options) {
		o.soapOpts = append(o.soapOpts, soap.WithTimeout(t))
	}
}

// WithUserAgent is an Option to set the User-Agent header value.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.soapOpts = append(o.soapOpts, soap.WithUserAgent(userAgent))
	}
}

// Client talks to the managed payment service on behalf of one merchant.
// It keeps no per-call state and is safe for concurrent use.
type Client struct {
	creds     Credentials
	settings  *Settings
	transport *soap.Client
	testMode  bool
}

// NewClient builds a client for the given merchant credentials. With testMode
// set, requests go to the sandbox endpoint instead of the live one.
func NewClient(customerID, username, password string, testMode bool, opts ...Option) (*Client, error) {
	creds := Credentials{
		CustomerID: customerID,
		Username:   username,
		Password:   password,
	}
	if err := validator.New().Struct(creds); err != nil {
		return nil, fmt.Errorf("validate credentials: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	settings := o.settings
	if settings == nil {
		loaded, err := DefaultSettings()
		if err != nil {
			return nil, err
		}
		settings = loaded
	} else if err := settings.Validate(); err != nil {
		return nil, err
	}

	transport := soap.NewClient(settings.Endpoint(testMode), soap.Namespaces{
		Envelope: settings.Namespaces.Envelope,
		Service:  settings.Namespaces.Service,
	}, o.soapOpts...)
	transport.SetHeaders(&credentialsHeader{
		CustomerID: creds.CustomerID,
		Username:   creds.Username,
		Password:   creds.Password,
	})

	return &Client{
		creds:     creds,
		settings:  settings,
		transport: transport,
		testMode:  testMode,
	}, nil
}

// NewClientFromEnv builds a client from the EWAY_* environment variables,
// loading a .env file first when one is present in the working directory.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	_ = godotenv.Load()

	testMode := false
	if v := os.Getenv(EnvTestMode); v != "" {
		mode, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvTestMode, err)
		}
		testMode = mode
	}
	return NewClient(
		os.Getenv(EnvCustomerID),
		os.Getenv(EnvUsername),
		os.Getenv(EnvPassword),
		testMode,
		opts...,
	)
}

// TestMode reports whether the client posts to the sandbox endpoint.
func (c *Client) TestMode() bool {
	return c.testMode
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.transport.URL()
}

// Transport exposes the underlying SOAP client for callers that need the
// per-call trace or raw documents.
func (c *Client) Transport() *soap.Client {
	return c.transport
}

// PaymentOptions carries the optional invoice fields of the payment
// operations. Zero values are omitted from the request.
type PaymentOptions struct {
	InvoiceReference   string
	InvoiceDescription string
}

// CreateCustomer stores a new managed customer and returns its ID. Permitted
// fields and their order come from the settings; unknown keys and empty
// values are skipped. An empty ID with a nil error means the service sent no
// result back.
func (c *Client) CreateCustomer(ctx context.Context, fields Fields) (string, error) {
	doc, err := c.call(ctx, "CreateCustomer", &operationPayload{
		op:     "CreateCustomer",
		specs:  c.settings.FieldLists.CreateCustomer,
		values: fields,
	})
	if err != nil {
		return "", err
	}
	if el := doc.FindElement("//CreateCustomerResult"); el != nil {
		return el.Text(), nil
	}
	return "", nil
}

// ProcessPayment charges a managed customer. The amount is in cents.
func (c *Client) ProcessPayment(ctx context.Context, managedCustomerID string, amountCents int, opts PaymentOptions) (Record, error) {
	return c.processPayment(ctx, "ProcessPayment", managedCustomerID, amountCents, "", opts)
}

// ProcessPaymentWithCVN charges a managed customer, passing the card
// verification number along for the stricter fraud check.
func (c *Client) ProcessPaymentWithCVN(ctx context.Context, managedCustomerID string, amountCents int, cvn string, opts PaymentOptions) (Record, error) {
	return c.processPayment(ctx, "ProcessPaymentWithCVN", managedCustomerID, amountCents, cvn, opts)
}

func (c *Client) processPayment(ctx context.Context, op, managedCustomerID string, amountCents int, cvn string, opts PaymentOptions) (Record, error) {
	doc, err := c.call(ctx, op, newPaymentRequest(op, managedCustomerID, amountCents, cvn, opts))
	if err != nil {
		return nil, err
	}
	if el := doc.FindElement("//ewayResponse"); el != nil {
		return recordFromElement(el), nil
	}
	return nil, nil
}

// QueryCustomer fetches the stored profile of a managed customer. A nil
// record with a nil error means the customer was not found.
func (c *Client) QueryCustomer(ctx context.Context, managedCustomerID string) (Record, error) {
	doc, err := c.call(ctx, "QueryCustomer", &queryCustomerRequest{ManagedCustomerID: managedCustomerID})
	if err != nil {
		return nil, err
	}
	if el := doc.FindElement("//QueryCustomerResult"); el != nil {
		return recordFromElement(el), nil
	}
	return nil, nil
}

// QueryCustomerByReference fetches a managed customer by the merchant-side
// reference it was created with.
func (c *Client) QueryCustomerByReference(ctx context.Context, reference string) (Record, error) {
	doc, err := c.call(ctx, "QueryCustomerByReference", &queryCustomerByReferenceRequest{CustomerReference: reference})
	if err != nil {
		return nil, err
	}
	if el := doc.FindElement("//QueryCustomerByReferenceResult"); el != nil {
		return recordFromElement(el), nil
	}
	return nil, nil
}

// QueryPayment lists the payments made against a managed customer. A nil
// slice means the service sent no result node; a customer with no payments
// yields an empty slice.
func (c *Client) QueryPayment(ctx context.Context, managedCustomerID string) ([]Record, error) {
	doc, err := c.call(ctx, "QueryPayment", &queryPaymentRequest{ManagedCustomerID: managedCustomerID})
	if err != nil {
		return nil, err
	}
	if el := doc.FindElement("//QueryPaymentResult"); el != nil {
		return collectRecords(el), nil
	}
	return nil, nil
}

// UpdateCustomer rewrites stored fields of a managed customer. The service
// reports success as the literal text "true"; anything else comes back false.
func (c *Client) UpdateCustomer(ctx context.Context, managedCustomerID string, fields Fields) (bool, error) {
	doc, err := c.call(ctx, "UpdateCustomer", &operationPayload{
		op:         "UpdateCustomer",
		customerID: managedCustomerID,
		specs:      c.settings.FieldLists.UpdateCustomer,
		values:     fields,
	})
	if err != nil {
		return false, err
	}
	if el := doc.FindElement("//UpdateCustomerResult"); el != nil {
		return el.Text() == "true", nil
	}
	return false, nil
}

func (c *Client) call(ctx context.Context, operation string, payload interface{}) (*etree.Document, error) {
	doc, _, err := c.transport.Call(ctx, operation, payload)
	return doc, err
}
