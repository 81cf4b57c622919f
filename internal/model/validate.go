package model

import (
	"encoding/json"
	"fmt"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed cv.schema.json
var schemaJSON string

// ValidateMap validates a generic map against the embedded CV schema.
func ValidateMap(m map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}

// ToMap round-trips a typed Document into the generic map form stored in
// the database and fed to the renderer.
func ToMap(d *Document) (map[string]interface{}, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
