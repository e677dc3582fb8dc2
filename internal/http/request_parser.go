// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON objects or form-encoded; both are read through the same
// string accessors and turned into core inputs here.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"urmoney/internal/core"
)

// maxBodyBytes caps request bodies read by RequestBodyParser.
const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errInvalidBody
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || trimmed[0] == '[' || strings.HasPrefix(p.contentType, "application/json") {
		// UseNumber keeps amounts as written instead of rounding them through float64.
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		err := dec.Decode(&p.jsonData)
		if err == nil {
			if _, tokErr := dec.Token(); tokErr != io.EOF {
				err = errInvalidBody
			}
		}
		if err != nil {
			p.jsonData = nil
			p.err = errInvalidBody
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	if p.err != nil {
		p.err = errInvalidBody
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
// JSON null and missing keys both read as "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// Has reports whether key was supplied with a non-empty value.
func (p *RequestBodyParser) Has(key string) bool {
	return p.Get(key) != ""
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// transactionInput builds a transaction from description, amount, type, date
// and the optional category_id.
func transactionInput(p *RequestBodyParser) (core.TransactionInput, error) {
	for _, field := range []string{"description", "amount", "type", "date"} {
		if !p.Has(field) {
			return core.TransactionInput{}, core.ErrMissingFields
		}
	}

	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return core.TransactionInput{}, &core.ValidationError{Field: "amount", Err: err}
	}
	txType, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		return core.TransactionInput{}, err
	}
	date, err := core.ParseDate(p.Get("date"))
	if err != nil {
		return core.TransactionInput{}, err
	}
	categoryID, err := optionalID(p.Get("category_id"))
	if err != nil {
		return core.TransactionInput{}, err
	}

	return core.TransactionInput{
		Description: p.Get("description"),
		Amount:      core.Money{Cents: cents},
		Type:        txType,
		CategoryID:  categoryID,
		Date:        date,
	}, nil
}

// categoryInput reads name and the optional color.
func categoryInput(p *RequestBodyParser) (core.CategoryInput, error) {
	if !p.Has("name") {
		return core.CategoryInput{}, core.ErrMissingFields
	}
	return core.CategoryInput{
		Name:  p.Get("name"),
		Color: p.Get("color"),
	}, nil
}

// optionalID parses a category reference; "" means no category.
func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, &core.ValidationError{Field: "category_id", Err: core.ErrInvalidCategoryID}
	}
	return &id, nil
}

// pathID reads the {id} wildcard. ok is false for anything but a positive integer.
func pathID(r *http.Request) (id int64, ok bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
