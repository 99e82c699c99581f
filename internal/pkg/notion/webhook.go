package notion

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const PropertyTypeRichText = "rich_text"

// RecordWebhookBody is the payload Notion automations post when a page changes.
type RecordWebhookBody struct {
	Data *RecordData `json:"data" validate:"required"`
}

type RecordData struct {
	ID         string                     `json:"id" validate:"required"`
	Properties map[string]json.RawMessage `json:"properties" validate:"required"`
}

// RichTextProperty is a page property of type rich_text.
type RichTextProperty struct {
	Type     string            `json:"type" validate:"required,eq=rich_text"`
	RichText []RichTextSegment `json:"rich_text" validate:"required,dive"`
}

// RichTextSegment is one styled run of text. Only PlainText is read; the
// formatting fields are kept opaque.
type RichTextSegment struct {
	PlainText   *string         `json:"plain_text" validate:"required"`
	Type        string          `json:"type,omitempty"`
	Text        json.RawMessage `json:"text,omitempty"`
	Equation    json.RawMessage `json:"equation,omitempty"`
	Annotations json.RawMessage `json:"annotations,omitempty"`
	Href        *string         `json:"href,omitempty"`
}

// PlainText joins the plain text of all segments in order. Notion splits a
// value into several segments when parts of it are styled differently.
func (p RichTextProperty) PlainText() string {
	var b strings.Builder
	for _, seg := range p.RichText {
		if seg.PlainText != nil {
			b.WriteString(*seg.PlainText)
		}
	}
	return b.String()
}

// ChangedRecordEvent is a validated record webhook.
type ChangedRecordEvent struct {
	RecordID   string
	CustomerID string
	Properties map[string]json.RawMessage
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseChangedRecordEvent decodes and validates a record webhook body. The
// property named customerProperty must exist and be rich text. Every failure
// is returned as *ValidationError.
func ParseChangedRecordEvent(body []byte, customerProperty string) (*ChangedRecordEvent, error) {
	var raw RecordWebhookBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ValidationError{Fields: []string{"body: " + err.Error()}}
	}
	if err := validate.Struct(&raw); err != nil {
		return nil, toValidationError("", err)
	}

	path := "data.properties." + customerProperty
	propRaw, ok := raw.Data.Properties[customerProperty]
	if !ok || len(bytes.TrimSpace(propRaw)) == 0 || bytes.Equal(bytes.TrimSpace(propRaw), []byte("null")) {
		return nil, &ValidationError{Fields: []string{path + ": required"}}
	}

	var prop RichTextProperty
	if err := json.Unmarshal(propRaw, &prop); err != nil {
		return nil, &ValidationError{Fields: []string{path + ": " + err.Error()}}
	}
	if err := validate.Struct(&prop); err != nil {
		return nil, toValidationError(path, err)
	}

	return &ChangedRecordEvent{
		RecordID:   raw.Data.ID,
		CustomerID: prop.PlainText(),
		Properties: raw.Data.Properties,
	}, nil
}

// toValidationError turns validator output into "path: tag" messages using
// json field names.
func toValidationError(prefix string, err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: []string{err.Error()}}
	}

	out := &ValidationError{Fields: make([]string, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ns := fe.Namespace()
		// drop the root struct name
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		if prefix != "" {
			ns = prefix + "." + ns
		}
		msg := ns + ": " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, msg)
	}
	return out
}
