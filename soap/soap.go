// Package soap implements the wire layer of the managed payment client: it
// wraps operation payloads in a SOAP 1.1 envelope, posts them, and turns
// faults and bad statuses into errors before handing the parsed response
// document back to the caller.
package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SOAPMIMEType is the content type the service expects on requests.
const SOAPMIMEType = "text/xml"

// Namespaces carries the two namespace URIs declared on every request
// envelope: the SOAP envelope namespace (prefix soap) and the service
// namespace (prefix man).
type Namespaces struct {
	Envelope string
	Service  string
}

// Envelope is the outgoing request structure. encoding/xml cannot bind
// prefixes on its own, so the prefixes are spelled out in the tags and the
// namespace declarations ride along as attributes.
type Envelope struct {
	XMLName   xml.Name `xml:"soap:Envelope"`
	XmlNSSoap string   `xml:"xmlns:soap,attr"`
	XmlNSMan  string   `xml:"xmlns:man,attr"`

	Header Header
	Body   Body
}

type Header struct {
	XMLName xml.Name `xml:"soap:Header"`

	Content interface{} `xml:",omitempty"`
}

type Body struct {
	XMLName xml.Name `xml:"soap:Body"`

	Content interface{} `xml:",omitempty"`
}

// HTTPClient is a client which can make HTTP requests
// An example implementation is net/http.Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type options struct {
	timeout          time.Duration
	contimeout       time.Duration
	tlshshaketimeout time.Duration
	client           HTTPClient
	userAgent        string
	httpHeaders      map[string]string
	logger           logrus.FieldLogger
}

var defaultOptions = options{
	timeout:          time.Duration(30 * time.Second),
	contimeout:       time.Duration(90 * time.Second),
	tlshshaketimeout: time.Duration(15 * time.Second),
	userAgent:        "eway-managed/0.1",
}

// A Option sets options such as timeouts, logging, etc.
type Option func(*options)

// WithHTTPClient is an Option to set the HTTP client to use
// This cannot be used with WithTLSHandshakeTimeout, WithRequestTimeout,
// WithTimeout options
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithTLSHandshakeTimeout is an Option to set default tls handshake timeout
// This option cannot be used with WithHTTPClient
func WithTLSHandshakeTimeout(t time.Duration) Option {
	return func(o *options) {
		o.tlshshaketimeout = t
	}
}

// WithRequestTimeout is an Option to set default end-end connection timeout
// This option cannot be used with WithHTTPClient
func WithRequestTimeout(t time.Duration) Option {
	return func(o *options) {
		o.contimeout = t
	}
}

// WithTimeout is an Option to set default HTTP dial timeout
func WithTimeout(t time.Duration) Option {
	return func(o *options) {
		o.timeout = t
	}
}

// WithUserAgent is an Option to set User-Agent header value
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithHTTPHeaders is an Option to set global HTTP headers for all requests
func WithHTTPHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.httpHeaders = headers
	}
}

// WithLogger is an Option to attach a logger. Request and response of every
// call are written to it at debug level; without a logger the client stays
// silent.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func makeDefaultClient(opts *options) HTTPClient {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: opts.timeout}
			return d.DialContext(ctx, network, addr)
		},
		TLSHandshakeTimeout:   opts.tlshshaketimeout,
		ExpectContinueTimeout: time.Second * 2,
	}
	return &http.Client{
		Timeout:   opts.contimeout,
		Transport: tr,
	}
}

// Client is a SOAP client bound to one endpoint URL and namespace pair.
// It keeps no per-call state and is safe for concurrent use once headers
// are set.
type Client struct {
	url     string
	ns      Namespaces
	opts    *options
	headers []interface{}
}

// NewClient creates new SOAP client instance
func NewClient(url string, ns Namespaces, opt ...Option) *Client {
	opts := defaultOptions
	for _, o := range opt {
		o(&opts)
	}
	if opts.client == nil {
		opts.client = makeDefaultClient(&opts)
	}
	return &Client{
		url:  url,
		ns:   ns,
		opts: &opts,
	}
}

// URL returns the endpoint the client posts to.
func (s *Client) URL() string {
	return s.url
}

// SetHeaders sets envelope headers, overwriting any existing headers.
// For correct behavior, every header must contain a `XMLName` field.
func (s *Client) SetHeaders(headers ...interface{}) {
	s.headers = headers
}

// Call posts one operation and returns the parsed response document together
// with a trace of the exchange. The SOAPAction header is derived from the
// service namespace and the operation name. The trace is returned whenever a
// request went out, error or not.
//
// A response is accepted only when its body carries no Fault element and its
// HTTP status is 200 or 100; anything else becomes an *Error.
func (s *Client) Call(ctx context.Context, operation string, payload interface{}) (*etree.Document, *CallResult, error) {
	envelope := Envelope{
		XmlNSSoap: s.ns.Envelope,
		XmlNSMan:  s.ns.Service,
		Header:    Header{Content: s.headers},
		Body:      Body{Content: payload},
	}
	buf, err := xml.Marshal(envelope)
	if nil != err {
		return nil, nil, fmt.Errorf("marshal envelope failed: %w", err)
	}
	reqBody := append([]byte(xml.Header), buf...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", SOAPMIMEType)
	req.Header.Set("SOAPAction", s.ns.Service+"/"+operation)
	req.Header.Set("User-Agent", s.opts.userAgent)
	for k, v := range s.opts.httpHeaders {
		req.Header.Set(k, v)
	}

	result := &CallResult{
		CallID:     uuid.NewString(),
		Operation:  operation,
		RequestURL: s.url,
		RequestContent: CallContent{
			Header: req.Header.Clone(),
			Body:   string(reqBody),
		},
		InvokeAt: time.Now(),
	}

	res, err := s.opts.client.Do(req)
	if err != nil {
		result.ReturnAt = time.Now()
		return nil, result, fmt.Errorf("post %s: %w", operation, err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	result.ReturnAt = time.Now()
	if nil != err {
		return nil, result, fmt.Errorf("cannot read all content from http body: %w", err)
	}
	result.StatusCode = res.StatusCode
	result.ResponseContent = CallContent{
		Header: res.Header.Clone(),
		Body:   string(respBody),
	}

	doc := etree.NewDocument()
	parseErr := doc.ReadFromBytes(respBody)
	if parseErr == nil {
		result.DecodedAt = time.Now()
		s.logCall(result, doc)
	} else {
		s.logCall(result, nil)
	}

	// Faults outrank the status check: the service wraps faults in non-200
	// responses and the fault carries the better diagnostics.
	if parseErr == nil {
		if fault := doc.FindElement("//Fault"); fault != nil {
			return nil, result, faultError(fault)
		}
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusContinue {
		return nil, result, statusError(res)
	}
	if parseErr != nil {
		return nil, result, fmt.Errorf("cannot decode: %w", parseErr)
	}
	return doc, result, nil
}

func faultError(fault *etree.Element) *Error {
	var code, reason string
	if el := fault.SelectElement("faultcode"); el != nil {
		code = el.Text()
	}
	if el := fault.SelectElement("faultstring"); el != nil {
		reason = el.Text()
	}
	return &Error{Kind: KindSOAPFault, Code: code, Reason: reason}
}

func statusError(res *http.Response) *Error {
	code := strconv.Itoa(res.StatusCode)
	reason := strings.TrimSpace(strings.TrimPrefix(res.Status, code))
	if reason == "" {
		reason = http.StatusText(res.StatusCode)
	}
	return &Error{Kind: KindHTTPStatus, Code: code, Reason: reason}
}

func (s *Client) logCall(result *CallResult, doc *etree.Document) {
	if s.opts.logger == nil {
		return
	}
	log := s.opts.logger.WithFields(logrus.Fields{
		"call_id":   result.CallID,
		"operation": result.Operation,
	})
	log.Debugf("request %s\n%v\n%s", result.RequestURL, result.RequestContent.Header, result.RequestContent.Body)
	body := result.ResponseContent.Body
	if doc != nil {
		if pretty := indentDocument(doc); pretty != "" {
			body = pretty
		}
	}
	log.Debugf("response %d\n%v\n%s", result.StatusCode, result.ResponseContent.Header, body)
}

// indentDocument pretty-prints a copy; the parsed document itself must keep
// its original whitespace for the caller.
func indentDocument(doc *etree.Document) string {
	pretty := doc.Copy()
	pretty.Indent(2)
	out, err := pretty.WriteToString()
	if err != nil {
		return ""
	}
	return out
}
