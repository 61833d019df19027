package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestVocab_NormalizeAndValidate(t *testing.T) {
	v := &Vocab{
		Word:     "  serendipity ",
		Meaning:  " happy accident",
		Examples: []string{" found it by serendipity ", "", "   "},
	}
	v.Normalize()

	assert.Equal(t, "serendipity", v.Word)
	assert.Equal(t, "happy accident", v.Meaning)
	assert.Equal(t, []string{"found it by serendipity"}, v.Examples)
	assert.NoError(t, v.Validate())

	blank := &Vocab{Word: "   "}
	assert.ErrorIs(t, blank.Validate(), ErrWordRequired)
}

func TestVocabPatch_Validate(t *testing.T) {
	assert.ErrorIs(t, (&VocabPatch{}).Validate(), ErrEmptyPatch)
	assert.ErrorIs(t, (&VocabPatch{Word: strPtr(" ")}).Validate(), ErrWordRequired)
	assert.NoError(t, (&VocabPatch{Meaning: strPtr("")}).Validate())
}

func TestValidate_RejectsNUL(t *testing.T) {
	assert.ErrorIs(t, (&Vocab{Word: "a\x00b"}).Validate(), ErrNULCharacter)
	assert.ErrorIs(t, (&Vocab{Word: "ok", Examples: []string{"bad\x00"}}).Validate(), ErrNULCharacter)

	examples := []string{"fine", "\x00"}
	assert.ErrorIs(t, (&VocabPatch{Examples: &examples}).Validate(), ErrNULCharacter)
	assert.ErrorIs(t, (&VocabPatch{Meaning: strPtr("x\x00")}).Validate(), ErrNULCharacter)
}

func TestVocabPatch_Apply(t *testing.T) {
	v := &Vocab{Word: "cat", Meaning: "animal", Examples: []string{"the cat sat"}}
	examples := []string{"a cat", " "}
	p := &VocabPatch{Meaning: strPtr(" small feline "), Examples: &examples}

	p.Normalize()
	p.Apply(v)

	assert.Equal(t, "cat", v.Word)
	assert.Equal(t, "small feline", v.Meaning)
	assert.Equal(t, []string{"a cat"}, v.Examples)

	// the applied slice is a copy
	(*p.Examples)[0] = "changed"
	assert.Equal(t, "a cat", v.Examples[0])
}
