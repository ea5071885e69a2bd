package ner

import (
	"encoding/json"
	"fmt"
)

// MockToken is the token of the placeholder entity returned when no Hugging
// Face token is configured.
const MockToken = "Error transcribing image"

// Entity is one span of transcribed text. ClassOrConfidence holds the entity
// label, a confidence score, or nil for untagged text.
type Entity struct {
	Token             string `json:"token" yaml:"token"`
	ClassOrConfidence any    `json:"class_or_confidence" yaml:"class_or_confidence"`
}

// Label returns the entity label, or "" for untagged or scored spans.
func (e Entity) Label() string {
	s, _ := e.ClassOrConfidence.(string)
	return s
}

// UnmarshalJSON accepts both the object form and the [token, label] pair
// form of highlighted text.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("ner: entity pair has %d elements", len(pair))
		}
		if err := json.Unmarshal(pair[0], &e.Token); err != nil {
			return fmt.Errorf("ner: entity token: %w", err)
		}
		return json.Unmarshal(pair[1], &e.ClassOrConfidence)
	}

	type plain Entity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entity(p)
	return nil
}

// MockEntities is the result used when transcription cannot be attempted.
func MockEntities() []Entity {
	return []Entity{{Token: MockToken, ClassOrConfidence: nil}}
}

// parseOutputs returns the first output of a prediction that is a list of
// entities.
func parseOutputs(raw json.RawMessage) ([]Entity, error) {
	var outputs []json.RawMessage
	if err := json.Unmarshal(raw, &outputs); err != nil {
		return nil, fmt.Errorf("ner: decode prediction: %w", err)
	}
	for _, out := range outputs {
		var entities []Entity
		if err := json.Unmarshal(out, &entities); err == nil && entities != nil {
			return entities, nil
		}
	}
	return nil, fmt.Errorf("ner: prediction has no entity output")
}
