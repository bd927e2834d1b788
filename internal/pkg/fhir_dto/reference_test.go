package fhir_dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReference(t *testing.T) {
	t.Run("Type tag wins over reference string", func(t *testing.T) {
		ref := Reference{Reference: "QuestionnaireResponse/qr-1", Type: "Coverage"}
		assert.Equal(t, ReferenceKindCoverage, ClassifyReference(ref))
	})

	t.Run("Explicit other type is never prefix-matched", func(t *testing.T) {
		ref := Reference{Reference: "Coverage/cov-1", Type: "Organization"}
		assert.Equal(t, ReferenceKindOther, ClassifyReference(ref))
	})

	t.Run("Prefix fallback for untyped coverage reference", func(t *testing.T) {
		ref := Reference{Reference: "Coverage/cov-1"}
		assert.Equal(t, ReferenceKindCoverage, ClassifyReference(ref))
	})

	t.Run("Prefix fallback for untyped questionnaire response reference", func(t *testing.T) {
		ref := Reference{Reference: "QuestionnaireResponse/qr-1"}
		assert.Equal(t, ReferenceKindQuestionnaireResponse, ClassifyReference(ref))
	})

	t.Run("Unrelated untyped reference", func(t *testing.T) {
		ref := Reference{Reference: "Organization/org-1"}
		assert.Equal(t, ReferenceKindOther, ClassifyReference(ref))
	})
}

func TestSplitReference(t *testing.T) {
	t.Run("Valid literal reference", func(t *testing.T) {
		resourceType, id, ok := SplitReference("Patient/pat-1")
		assert.True(t, ok)
		assert.Equal(t, "Patient", resourceType)
		assert.Equal(t, "pat-1", id)
	})

	t.Run("Id containing a slash keeps the remainder", func(t *testing.T) {
		resourceType, id, ok := SplitReference("Patient/pat/history")
		assert.True(t, ok)
		assert.Equal(t, "Patient", resourceType)
		assert.Equal(t, "pat/history", id)
	})

	t.Run("Missing separator", func(t *testing.T) {
		_, _, ok := SplitReference("Patient")
		assert.False(t, ok)
	})

	t.Run("Empty parts", func(t *testing.T) {
		_, _, ok := SplitReference("/pat-1")
		assert.False(t, ok)

		_, _, ok = SplitReference("Patient/")
		assert.False(t, ok)
	})
}

func TestEntryResourceTypeOf(t *testing.T) {
	t.Run("Known resource type", func(t *testing.T) {
		entry := Entry{Resource: []byte(`{"resourceType":"Observation","id":"obs-1"}`)}
		assert.Equal(t, "Observation", entry.ResourceTypeOf())
	})

	t.Run("Invalid JSON yields empty string", func(t *testing.T) {
		entry := Entry{Resource: []byte(`{not json`)}
		assert.Equal(t, "", entry.ResourceTypeOf())
	})
}
