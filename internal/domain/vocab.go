package domain

import (
	"strings"
	"time"
)

// Vocab is a single vocabulary entry stored as a document.
type Vocab struct {
	ID            string
	Word          string
	Meaning       string
	PartOfSpeech  string
	Pronunciation string
	Examples      []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Normalize trims surrounding whitespace and drops blank examples.
func (v *Vocab) Normalize() {
	v.Word = strings.TrimSpace(v.Word)
	v.Meaning = strings.TrimSpace(v.Meaning)
	v.PartOfSpeech = strings.TrimSpace(v.PartOfSpeech)
	v.Pronunciation = strings.TrimSpace(v.Pronunciation)
	v.Examples = compactExamples(v.Examples)
}

// Validate checks the fields a stored vocab must always have.
func (v *Vocab) Validate() error {
	if strings.TrimSpace(v.Word) == "" {
		return ErrWordRequired
	}
	if containsNUL(v.Word, v.Meaning, v.PartOfSpeech, v.Pronunciation) || containsNUL(v.Examples...) {
		return ErrNULCharacter
	}
	return nil
}

// VocabPatch holds the fields of an update; nil fields are left untouched.
type VocabPatch struct {
	Word          *string
	Meaning       *string
	PartOfSpeech  *string
	Pronunciation *string
	Examples      *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p *VocabPatch) IsEmpty() bool {
	return p.Word == nil && p.Meaning == nil && p.PartOfSpeech == nil &&
		p.Pronunciation == nil && p.Examples == nil
}

// Normalize trims string fields in place.
func (p *VocabPatch) Normalize() {
	for _, f := range []*string{p.Word, p.Meaning, p.PartOfSpeech, p.Pronunciation} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if p.Examples != nil {
		examples := compactExamples(*p.Examples)
		p.Examples = &examples
	}
}

// Validate rejects patches that would leave the vocab without a word.
func (p *VocabPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Word != nil && strings.TrimSpace(*p.Word) == "" {
		return ErrWordRequired
	}
	for _, f := range []*string{p.Word, p.Meaning, p.PartOfSpeech, p.Pronunciation} {
		if f != nil && containsNUL(*f) {
			return ErrNULCharacter
		}
	}
	if p.Examples != nil && containsNUL(*p.Examples...) {
		return ErrNULCharacter
	}
	return nil
}

// Apply merges the patch into v.
func (p *VocabPatch) Apply(v *Vocab) {
	if p.Word != nil {
		v.Word = *p.Word
	}
	if p.Meaning != nil {
		v.Meaning = *p.Meaning
	}
	if p.PartOfSpeech != nil {
		v.PartOfSpeech = *p.PartOfSpeech
	}
	if p.Pronunciation != nil {
		v.Pronunciation = *p.Pronunciation
	}
	if p.Examples != nil {
		v.Examples = append([]string(nil), (*p.Examples)...)
	}
}

func compactExamples(examples []string) []string {
	out := make([]string, 0, len(examples))
	for _, e := range examples {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// containsNUL reports whether any value holds U+0000, which Postgres text and
// jsonb cannot store.
func containsNUL(values ...string) bool {
	for _, v := range values {
		if strings.IndexByte(v, 0) >= 0 {
			return true
		}
	}
	return false
}
