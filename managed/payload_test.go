package managed

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpecs = []FieldSpec{
	{Key: "title", Element: "Title"},
	{Key: "first_name", Element: "FirstName"},
	{Key: "last_name", Element: "LastName"},
}

func TestOperationPayload_MarshalXML(t *testing.T) {
	payload := &operationPayload{
		op:    "CreateCustomer",
		specs: testSpecs,
		values: Fields{
			"last_name":  "Smith",
			"title":      "Mr.",
			"unknown":    "nope",
			"first_name": "",
		},
	}

	out, err := xml.Marshal(payload)

	require.NoError(t, err)
	// Configured order wins over map order; empty and unknown keys vanish.
	assert.Equal(t, `<man:CreateCustomer><man:Title>Mr.</man:Title><man:LastName>Smith</man:LastName></man:CreateCustomer>`, string(out))
}

func TestOperationPayload_MarshalXML_WithCustomerID(t *testing.T) {
	payload := &operationPayload{
		op:         "UpdateCustomer",
		customerID: "9876543211000",
		specs:      testSpecs,
		values:     Fields{"first_name": "Jane"},
	}

	out, err := xml.Marshal(payload)

	require.NoError(t, err)
	assert.Equal(t, `<man:UpdateCustomer><man:managedCustomerID>9876543211000</man:managedCustomerID><man:FirstName>Jane</man:FirstName></man:UpdateCustomer>`, string(out))
}

func TestOperationPayload_MarshalXML_NoValues(t *testing.T) {
	payload := &operationPayload{op: "CreateCustomer", specs: testSpecs}

	out, err := xml.Marshal(payload)

	require.NoError(t, err)
	assert.Equal(t, `<man:CreateCustomer></man:CreateCustomer>`, string(out))
}

func TestOperationPayload_MarshalXML_EscapesValues(t *testing.T) {
	payload := &operationPayload{
		op:     "CreateCustomer",
		specs:  testSpecs,
		values: Fields{"title": "Mr. <&>"},
	}

	out, err := xml.Marshal(payload)

	require.NoError(t, err)
	assert.Equal(t, `<man:CreateCustomer><man:Title>Mr. &lt;&amp;&gt;</man:Title></man:CreateCustomer>`, string(out))
}

func TestPaymentRequest_Marshal(t *testing.T) {
	req := newPaymentRequest("ProcessPayment", "123", 1000, "", PaymentOptions{})

	out, err := xml.Marshal(req)

	require.NoError(t, err)
	assert.Equal(t, `<man:ProcessPayment><man:managedCustomerID>123</man:managedCustomerID><man:amount>1000</man:amount></man:ProcessPayment>`, string(out))
}

func TestPaymentRequest_Marshal_AllFields(t *testing.T) {
	req := newPaymentRequest("ProcessPaymentWithCVN", "123", 1250, "987", PaymentOptions{
		InvoiceReference:   "INV-1",
		InvoiceDescription: "Latte",
	})

	out, err := xml.Marshal(req)

	require.NoError(t, err)
	assert.Equal(t, `<man:ProcessPaymentWithCVN><man:managedCustomerID>123</man:managedCustomerID><man:amount>1250</man:amount><man:invoiceReference>INV-1</man:invoiceReference><man:invoiceDescription>Latte</man:invoiceDescription><man:cvn>987</man:cvn></man:ProcessPaymentWithCVN>`, string(out))
}
