package managed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheyinl/eway-managed/managed"
)

const (
	liveEndpoint = "https://www.eway.com.au/gateway/ManagedPaymentService/managedCreditCardPayment.asmx"
	testEndpoint = "https://www.eway.com.au/gateway/ManagedPaymentService/test/managedCreditCardPayment.asmx"
)

func TestDefaultSettings(t *testing.T) {
	s, err := managed.DefaultSettings()
	require.NoError(t, err)

	assert.Equal(t, liveEndpoint, s.Endpoints.Live)
	assert.Equal(t, testEndpoint, s.Endpoints.Test)
	assert.Equal(t, "http://schemas.xmlsoap.org/soap/envelope/", s.Namespaces.Envelope)
	assert.Equal(t, "https://www.eway.com.au/gateway/managedpayment", s.Namespaces.Service)

	require.Len(t, s.FieldLists.CreateCustomer, 21)
	assert.Equal(t, managed.FieldSpec{Key: "title", Element: "Title"}, s.FieldLists.CreateCustomer[0])
	assert.Equal(t, managed.FieldSpec{Key: "cc_expiry_year", Element: "CCExpiryYear"}, s.FieldLists.CreateCustomer[20])
	assert.Equal(t, s.FieldLists.CreateCustomer, s.FieldLists.UpdateCustomer)

	assert.Equal(t, liveEndpoint, s.Endpoint(false))
	assert.Equal(t, testEndpoint, s.Endpoint(true))
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eway.yml")
	override := "endpoints:\n  test: https://sandbox.example.com/gateway.asmx\n"
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	s, err := managed.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example.com/gateway.asmx", s.Endpoints.Test)
	assert.Equal(t, liveEndpoint, s.Endpoints.Live)
	require.Len(t, s.FieldLists.CreateCustomer, 21)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := managed.LoadSettings(filepath.Join(t.TempDir(), "absent.yml"))

	require.Error(t, err)
	assert.ErrorContains(t, err, "load settings file")
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("EWAY_ENDPOINTS__TEST", "https://sandbox.example.com/env.asmx")

	s, err := managed.LoadSettings("")

	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example.com/env.asmx", s.Endpoints.Test)
	assert.Equal(t, liveEndpoint, s.Endpoints.Live)
}

func TestSettings_Validate(t *testing.T) {
	empty := &managed.Settings{}
	err := empty.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "validate settings")

	s, err := managed.DefaultSettings()
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	s.Namespaces.Service = "not a url"
	assert.Error(t, s.Validate())
}
