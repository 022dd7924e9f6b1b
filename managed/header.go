package managed

import (
	"encoding/xml"
)

// credentialsHeader is the eWAYHeader block carried in the envelope header of
// every request. The service expects the three fields in exactly this order.
type credentialsHeader struct {
	XMLName    xml.Name `xml:"man:eWAYHeader"`
	CustomerID string   `xml:"man:eWAYCustomerID"`
	Username   string   `xml:"man:Username"`
	Password   string   `xml:"man:Password"`
}
