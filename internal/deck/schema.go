package deck

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const deckSchemaJSON = `{
  "type": "object",
  "required": ["id", "slides"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "topic": {"type": ["string", "null"]},
    "createdAt": {"type": ["string", "null"]},
    "slides": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"type": "string"},
          "title": {"type": ["string", "null"]},
          "text": {"type": ["string", "null"]},
          "imageUrl": {"type": ["string", "null"]},
          "attribution": {"type": ["string", "null"]}
        }
      }
    },
    "enrichment": {
      "type": ["object", "null"],
      "properties": {
        "vocabulary": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "properties": {
              "term": {"type": ["string", "null"]},
              "definition": {"type": ["string", "null"]}
            }
          }
        }
      }
    }
  }
}`

const dailyImageSchemaJSON = `{
  "type": "object",
  "properties": {
    "date": {"type": ["string", "null"]},
    "title": {"type": ["string", "null"]},
    "explanation": {"type": ["string", "null"]},
    "media_type": {"type": ["string", "null"]},
    "url": {"type": ["string", "null"]},
    "hdurl": {"type": ["string", "null"]},
    "thumbnail_url": {"type": ["string", "null"]},
    "copyright": {"type": ["string", "null"]},
    "service_version": {"type": ["string", "null"]}
  }
}`

var (
	deckSchema       = mustSchema(deckSchemaJSON)
	dailyImageSchema = mustSchema(dailyImageSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return s
}

// ValidateDeckJSON checks a generate response body against the deck shape.
func ValidateDeckJSON(body []byte) error {
	return validate(deckSchema, body)
}

// ValidateDailyImageJSON checks a daily image response body.
func ValidateDailyImageJSON(body []byte) error {
	return validate(dailyImageSchema, body)
}

func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("payload does not match schema: %s", strings.Join(msgs, "; "))
}
