package question

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// bankSchemaURL is the resource name the bank schema is compiled under.
const bankSchemaURL = "schema://question-bank.json"

// bankSchema is the minimal shape every bank document must have. It is
// deliberately loose per record: record-level problems belong to the
// normalizer and the audit, not to this gate.
var bankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"exam": map[string]any{
			"type":    "string",
			"pattern": "(?i)^(cpa|cia|cma|cfp|ea|cisa)$",
		},
		"questions": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		},
	},
	"required": []any{"exam", "questions"},
}

var (
	compileOnce    sync.Once
	compiledBank   *jsonschema.Schema
	compileBankErr error
)

// compiledBankSchema compiles the bank schema once and caches it.
func compiledBankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value, so round-trip the
		// Go literal through encoding/json.
		raw, err := json.Marshal(bankSchema)
		if err != nil {
			compileBankErr = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileBankErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, doc); err != nil {
			compileBankErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledBank, compileBankErr = c.Compile(bankSchemaURL)
	})
	return compiledBank, compileBankErr
}

// validateBankDocument checks a decoded document against the bank schema.
func validateBankDocument(doc any) error {
	schema, err := compiledBankSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
