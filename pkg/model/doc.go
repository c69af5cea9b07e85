// Package model maps field descriptors onto a closed set of control kinds and
// defines the value shapes the form engine stores per field.
//
// ControlFor dispatches on the field type: "textarea", "select", "radio" and
// "checkbox" get dedicated controls; every other type string becomes a
// TextLike control whose InputType is the type verbatim, so future or custom
// input kinds ("tel", "color", "datetime-local") pass straight through to the
// presentation layer.
package model
