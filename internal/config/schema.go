package config

// ProjectSchemaJSON documents the shape of tsuba.json. It is not run through
// a validation library (the teacher's own manifest schema ships the same
// way, as a documentation artifact cross-checked by hand against the
// decoder below) — additionalProperties: false is instead enforced by
// decoding with json.Decoder.DisallowUnknownFields (see LoadProject and
// LoadWorkspace).
const ProjectSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "tsuba.project/v1",
  "title": "tsuba project configuration",
  "type": "object",
  "required": ["schema", "name", "kind", "entry"],
  "additionalProperties": false,
  "properties": {
    "schema": {"type": "integer", "const": 1},
    "name": {"type": "string"},
    "kind": {"type": "string", "enum": ["bin", "lib"]},
    "entry": {"type": "string", "description": "Entry source file, relative to this file"},
    "gpu": {
      "type": "object",
      "additionalProperties": false,
      "properties": {"enabled": {"type": "boolean"}}
    },
    "crate": {
      "type": "object",
      "additionalProperties": false,
      "properties": {"name": {"type": "string"}}
    },
    "deps": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "crates": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id"],
            "additionalProperties": false,
            "properties": {
              "id": {"type": "string"},
              "version": {"type": "string"},
              "path": {"type": "string"},
              "package": {"type": "string"},
              "features": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    }
  }
}`

// WorkspaceSchemaJSON documents the shape of tsuba.workspace.json.
const WorkspaceSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "tsuba.workspace/v1",
  "title": "tsuba workspace configuration",
  "type": "object",
  "required": ["schema", "rustEdition", "packagesDir", "generatedDirName", "cargoTargetDir", "gpu", "runtime"],
  "additionalProperties": false,
  "properties": {
    "schema": {"type": "integer", "const": 1},
    "rustEdition": {"type": "string", "enum": ["2021", "2024"]},
    "packagesDir": {"type": "string"},
    "generatedDirName": {"type": "string"},
    "cargoTargetDir": {"type": "string"},
    "gpu": {
      "type": "object",
      "required": ["backend"],
      "additionalProperties": false,
      "properties": {
        "backend": {"type": "string", "enum": ["none", "cuda"]},
        "cuda": {"type": "string"}
      }
    },
    "runtime": {
      "type": "object",
      "required": ["kind"],
      "additionalProperties": false,
      "properties": {
        "kind": {"type": "string", "enum": ["none", "tokio"]}
      }
    }
  }
}`

// BindingsSchemaJSON documents the shape of tsuba.bindings.json (see
// internal/bindings for the loader that actually consumes it).
const BindingsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "tsuba.bindings/v1",
  "title": "tsuba bindings manifest",
  "type": "object",
  "required": ["schema", "kind", "crate", "modules"],
  "additionalProperties": false,
  "properties": {
    "schema": {"type": "integer", "const": 1},
    "kind": {"type": "string", "const": "crate"},
    "crate": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"},
        "package": {"type": "string"},
        "version": {"type": "string"},
        "path": {"type": "string"},
        "features": {"type": "array", "items": {"type": "string"}}
      }
    },
    "modules": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`
