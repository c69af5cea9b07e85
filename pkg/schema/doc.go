// Package schema describes forms declaratively. A Schema carries a title, a
// description and an ordered list of Field descriptors; field order is render
// order and field IDs key both the value map and the error map held by the
// form engine.
//
// Documents are JSON or YAML. The JSON keys mirror the descriptor names used
// by front-end form generators (`formTitle`, `fields[].validation.minLength`)
// so existing schema files can be loaded without translation. Check reports
// structural problems (duplicate IDs, choice fields without options, invalid
// patterns) before an engine is bound to the schema.
package schema
