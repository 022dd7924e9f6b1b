package managed

import (
	"encoding/xml"
	"strconv"
)

// Fields carries caller-supplied values for the field-list operations, keyed
// by the logical names configured in Settings (with the default settings,
// snake_case keys such as "first_name" or "cc_number").
type Fields map[string]string

// operationPayload is the body of a field-list operation. The element set is
// data driven, so it implements xml.Marshaler: the configured specs are
// walked in order and only keys with non-empty values are emitted. Keys
// outside the configured list are ignored.
type operationPayload struct {
	op         string
	customerID string
	specs      []FieldSpec
	values     Fields
}

func (p *operationPayload) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "man:" + p.op}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.customerID != "" {
		if err := encodeField(e, "man:managedCustomerID", p.customerID); err != nil {
			return err
		}
	}
	for _, spec := range p.specs {
		value, ok := p.values[spec.Key]
		if !ok || value == "" {
			continue
		}
		if err := encodeField(e, "man:"+spec.Element, value); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func encodeField(e *xml.Encoder, name, value string) error {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	if err := e.EncodeToken(el); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.CharData(value)); err != nil {
		return err
	}
	return e.EncodeToken(el.End())
}

// paymentRequest is the body of the two payment operations; they share a
// shape and differ only in the element name and the presence of the CVN.
type paymentRequest struct {
	XMLName            xml.Name
	ManagedCustomerID  string `xml:"man:managedCustomerID"`
	Amount             string `xml:"man:amount"`
	InvoiceReference   string `xml:"man:invoiceReference,omitempty"`
	InvoiceDescription string `xml:"man:invoiceDescription,omitempty"`
	CVN                string `xml:"man:cvn,omitempty"`
}

func newPaymentRequest(op, managedCustomerID string, amountCents int, cvn string, opts PaymentOptions) *paymentRequest {
	return &paymentRequest{
		XMLName:            xml.Name{Local: "man:" + op},
		ManagedCustomerID:  managedCustomerID,
		Amount:             strconv.Itoa(amountCents),
		InvoiceReference:   opts.InvoiceReference,
		InvoiceDescription: opts.InvoiceDescription,
		CVN:                cvn,
	}
}

type queryCustomerRequest struct {
	XMLName           xml.Name `xml:"man:QueryCustomer"`
	ManagedCustomerID string   `xml:"man:managedCustomerID"`
}

type queryCustomerByReferenceRequest struct {
	XMLName           xml.Name `xml:"man:QueryCustomerByReference"`
	CustomerReference string   `xml:"man:CustomerReference"`
}

type queryPaymentRequest struct {
	XMLName           xml.Name `xml:"man:QueryPayment"`
	ManagedCustomerID string   `xml:"man:managedCustomerID"`
}
