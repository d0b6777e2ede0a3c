// Package spec defines the SpecJSON widget specification model and its
// validator. A WidgetSpec is parsed from JSON, checked by Validate, and
// handed to the code generator; the validator is pure and exhaustive, so a
// UI can present the full diagnostic list after a single pass.
package spec
