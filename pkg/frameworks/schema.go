package frameworks

// frameworkSchema validates framework definition files: a JSON array of
// frameworks, each with an id, a name and at least one component.
const frameworkSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "components"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "title_prefix": {"type": "string"},
      "description_template": {"type": "string"},
      "components": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["name", "label"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "label": {"type": "string", "minLength": 1},
            "description": {"type": "string"},
            "prompt": {"type": "string"}
          }
        }
      }
    }
  }
}`
