package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their payload names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("booktag", func(fl validator.FieldLevel) bool {
		return Tag(fl.Field().String()).Valid()
	})

	return v
}

// Decode parses a payload into book records and rejects anything that is not
// a well-formed list of records.
func Decode(p Payload) ([]Book, error) {
	var (
		books []Book
		err   error
	)
	switch p.Format {
	case FormatYAML:
		books, err = decodeYAML(p.Data)
	default:
		books, err = decodeJSON(p.Data)
	}
	if err != nil {
		return nil, malformedError(err)
	}

	if err := check(books); err != nil {
		return nil, malformedError(err)
	}
	return books, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

func decodeJSON(data []byte) ([]Book, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array of records")
	}
	var books []Book
	if err := json.Unmarshal(trimmed, &books); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return books, nil
}

func decodeYAML(data []byte) ([]Book, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, errors.New("expected a YAML sequence of records")
	}
	var books []Book
	if err := doc.Content[0].Decode(&books); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return books, nil
}

// check validates every record and id uniqueness.
func check(books []Book) error {
	seen := make(map[string]int, len(books))
	for i := range books {
		if err := validate.Struct(books[i]); err != nil {
			return fmt.Errorf("record %d: %s", i, describe(err))
		}
		if j, dup := seen[books[i].ID]; dup {
			return fmt.Errorf("record %d: id %q already used by record %d", i, books[i].ID, j)
		}
		seen[books[i].ID] = i
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Field(), friendlyMessage(e)))
	}
	return strings.Join(msgs, "; ")
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "booktag":
		return fmt.Sprintf("has unknown tag %q", e.Value())
	default:
		return "is invalid"
	}
}
