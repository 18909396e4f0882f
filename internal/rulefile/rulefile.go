// Package rulefile reads rule sets and client profiles from YAML files.
//
// Documents are checked against an embedded JSON schema before decoding, so
// a misspelled key fails with its path instead of being silently dropped.
// Rule fields use the same names as the gRPC API.
package rulefile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/coachkit/rulekeeper/internal/rules"
	"github.com/coachkit/rulekeeper/internal/types"
)

//go:embed rules.schema.json
var rulesSchemaJSON string

//go:embed profile.schema.json
var profileSchemaJSON string

// ErrInvalidDocument indicates a file that does not match its schema.
var ErrInvalidDocument = errors.New("invalid document")

// RuleSet is one coach's rules as written in a rule file.
type RuleSet struct {
	CoachID types.CoachID `json:"coach_id,omitempty"`
	Rules   []types.Rule  `json:"rules"`
}

// LoadRuleSet reads and validates a rule file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet decodes a YAML rule set.
//
// Rules default to active. Rules without an id get "rule-<n>" from their
// 1-based position so reports can name them; ids must be unique.
// Every rule must pass ValidateForSave.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}

	if list, ok := doc["rules"].([]interface{}); ok {
		for _, item := range list {
			if rule, ok := item.(map[string]interface{}); ok {
				if _, set := rule["is_active"]; !set {
					rule["is_active"] = true
				}
			}
		}
	}

	if err := validateDocument(rulesSchemaJSON, doc); err != nil {
		return nil, err
	}

	var set RuleSet
	if err := remarshal(doc, &set); err != nil {
		return nil, err
	}

	seen := make(map[types.RuleID]int, len(set.Rules))
	for i := range set.Rules {
		r := &set.Rules[i]
		if r.ID == "" {
			r.ID = types.RuleID(fmt.Sprintf("rule-%d", i+1))
		}
		if prev, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: rule %d reuses id %q of rule %d", ErrInvalidDocument, i+1, r.ID, prev+1)
		}
		seen[r.ID] = i

		if err := types.ValidateForSave(*r); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, r.ID, err)
		}
		*r = r.Normalize()
	}

	return &set, nil
}

// LoadProfile reads a client profile file.
func LoadProfile(path string) (types.ClientProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ClientProfile{}, fmt.Errorf("read profile file: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML client profile. Values are coerced the same
// way the gRPC API coerces them.
func ParseProfile(data []byte) (types.ClientProfile, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return types.ClientProfile{}, err
	}
	if err := validateDocument(profileSchemaJSON, doc); err != nil {
		return types.ClientProfile{}, err
	}
	return rules.ProfileFromMap(doc)
}

func decodeYAML(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	return doc, nil
}

// validateDocument checks doc against schema, reporting every violation.
func validateDocument(schema string, doc map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
}

// remarshal moves a schema-checked document into dst through its JSON tags.
func remarshal(doc map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}
