package fhir_dto

import "strings"

// ReferenceKind classifies a reference for the order-building scan sites.
type ReferenceKind int

const (
	ReferenceKindOther ReferenceKind = iota
	ReferenceKindCoverage
	ReferenceKindQuestionnaireResponse
)

// ClassifyReference decides what a reference points at. The declared type tag
// wins; the reference-string prefix is only a fallback for untyped references.
func ClassifyReference(ref Reference) ReferenceKind {
	switch ref.Type {
	case "Coverage":
		return ReferenceKindCoverage
	case "QuestionnaireResponse":
		return ReferenceKindQuestionnaireResponse
	}
	if ref.Type != "" {
		return ReferenceKindOther
	}
	switch {
	case strings.HasPrefix(ref.Reference, "Coverage"):
		return ReferenceKindCoverage
	case strings.HasPrefix(ref.Reference, "QuestionnaireResponse"):
		return ReferenceKindQuestionnaireResponse
	}
	return ReferenceKindOther
}

// SplitReference breaks a literal "Type/id" reference into its parts.
func SplitReference(ref string) (resourceType, id string, ok bool) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
