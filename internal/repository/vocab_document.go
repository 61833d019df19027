package repository

import (
	"encoding/json"
	"fmt"

	"github.com/tbtran/vocabd/internal/domain"
)

// vocabDocument is the JSONB shape stored in vocabs.doc.
type vocabDocument struct {
	Word          string   `json:"word"`
	Meaning       string   `json:"meaning"`
	PartOfSpeech  string   `json:"part_of_speech"`
	Pronunciation string   `json:"pronunciation"`
	Examples      []string `json:"examples"`
}

// vocabPatchDocument is merged into vocabs.doc with the jsonb || operator,
// so only present keys overwrite stored ones.
type vocabPatchDocument struct {
	Word          *string   `json:"word,omitempty"`
	Meaning       *string   `json:"meaning,omitempty"`
	PartOfSpeech  *string   `json:"part_of_speech,omitempty"`
	Pronunciation *string   `json:"pronunciation,omitempty"`
	Examples      *[]string `json:"examples,omitempty"`
}

func encodeVocab(v *domain.Vocab) ([]byte, error) {
	examples := v.Examples
	if examples == nil {
		examples = []string{}
	}
	doc, err := json.Marshal(vocabDocument{
		Word:          v.Word,
		Meaning:       v.Meaning,
		PartOfSpeech:  v.PartOfSpeech,
		Pronunciation: v.Pronunciation,
		Examples:      examples,
	})
	if err != nil {
		return nil, fmt.Errorf("encode vocab document: %w", err)
	}
	return doc, nil
}

func encodePatch(p *domain.VocabPatch) ([]byte, error) {
	doc, err := json.Marshal(vocabPatchDocument{
		Word:          p.Word,
		Meaning:       p.Meaning,
		PartOfSpeech:  p.PartOfSpeech,
		Pronunciation: p.Pronunciation,
		Examples:      p.Examples,
	})
	if err != nil {
		return nil, fmt.Errorf("encode vocab patch: %w", err)
	}
	return doc, nil
}

func decodeVocab(raw []byte, v *domain.Vocab) error {
	var doc vocabDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode vocab document %s: %w", v.ID, err)
	}
	v.Word = doc.Word
	v.Meaning = doc.Meaning
	v.PartOfSpeech = doc.PartOfSpeech
	v.Pronunciation = doc.Pronunciation
	v.Examples = doc.Examples
	if v.Examples == nil {
		v.Examples = []string{}
	}
	return nil
}
