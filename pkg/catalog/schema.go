package catalog

// datasetSchema is the JSON Schema every dataset document must satisfy
// before decoding. Structural defects (missing tapes, empty option lists,
// wrong value types) are caught here; referential defects (ids that point
// nowhere) are the validator's job.
const datasetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["meta", "effects", "decisions", "consumers"],
  "properties": {
    "meta": {
      "type": "object",
      "required": ["tapes"],
      "properties": {
        "tapes": {
          "type": "array",
          "items": { "type": "string", "minLength": 1 },
          "minItems": 1
        }
      }
    },
    "effects": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": { "enum": ["stat", "flag", "memory", "arc"] },
          "stat": { "type": "string" },
          "delta": { "type": "integer" },
          "description": { "type": "string" },
          "consumed_by": {
            "type": "array",
            "items": { "type": "string" }
          }
        }
      }
    },
    "decisions": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["tape", "options"],
        "properties": {
          "tape": { "type": "string", "minLength": 1 },
          "options": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["id", "effects"],
              "properties": {
                "id": { "type": "string", "minLength": 1 },
                "effects": {
                  "type": "array",
                  "items": { "type": "string", "minLength": 1 }
                }
              }
            }
          }
        }
      }
    },
    "consumers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["tape", "checks"],
        "properties": {
          "tape": { "type": "string", "minLength": 1 },
          "checks": {
            "type": "array",
            "items": { "type": "string", "minLength": 1 }
          }
        }
      }
    }
  }
}`
