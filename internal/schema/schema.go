// Package schema checks request bodies against JSON schemas before they are
// decoded, so unknown fields and wrongly typed values are rejected with the
// name of the offending field.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.json
var files embed.FS

var (
	createTransaction = mustCompile("create_transaction.json")
	bulkDelete        = mustCompile("bulk_delete.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}

// ValidateCreateTransaction checks a POST /transactions/ body.
func ValidateCreateTransaction(body []byte) error {
	return validate(createTransaction, body)
}

// ValidateBulkDelete checks a POST /transactions/bulk-delete body.
func ValidateBulkDelete(body []byte) error {
	return validate(bulkDelete, body)
}

func validate(s *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return model.NewValidationError("body", "malformed JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.NewValidationError("body", "unexpected data after JSON value")
	}

	err := s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return model.NewValidationError("body", err.Error())
	}
	leaf := deepest(ve)
	return model.NewValidationError(fieldOf(leaf), leaf.Message)
}

// deepest follows the first cause down to the most specific failure.
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// fieldOf names the top level property a failure refers to. Failures on the
// document itself (missing or unknown properties) carry the property name
// quoted in the message.
func fieldOf(ve *jsonschema.ValidationError) string {
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc != "" {
		if i := strings.IndexByte(loc, '/'); i >= 0 {
			loc = loc[:i]
		}
		return loc
	}
	msg := ve.Message
	if i := strings.IndexByte(msg, '\''); i >= 0 {
		if j := strings.IndexByte(msg[i+1:], '\''); j >= 0 {
			return msg[i+1 : i+1+j]
		}
	}
	return "body"
}
