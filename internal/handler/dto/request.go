package dto

import (
	"encoding/json"

	"github.com/tbtran/vocabd/internal/domain"
)

// StringList accepts either a JSON array of strings or a single string,
// so form posts with one example decode the same as JSON arrays.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// CreateVocabRequest represents the request body for POST /vocabs.
type CreateVocabRequest struct {
	Word          string     `json:"word"`
	Meaning       string     `json:"meaning"`
	PartOfSpeech  string     `json:"part_of_speech"`
	Pronunciation string     `json:"pronunciation"`
	Examples      StringList `json:"examples"`
}

// UpdateVocabRequest represents the request body for PUT /vocabs/{vocabId}.
// Absent fields keep their stored values.
type UpdateVocabRequest struct {
	Word          *string     `json:"word"`
	Meaning       *string     `json:"meaning"`
	PartOfSpeech  *string     `json:"part_of_speech"`
	Pronunciation *string     `json:"pronunciation"`
	Examples      *StringList `json:"examples"`
}

// ToPatch converts the request into a domain.VocabPatch.
func (r UpdateVocabRequest) ToPatch() *domain.VocabPatch {
	patch := &domain.VocabPatch{
		Word:          r.Word,
		Meaning:       r.Meaning,
		PartOfSpeech:  r.PartOfSpeech,
		Pronunciation: r.Pronunciation,
	}
	if r.Examples != nil {
		examples := []string(*r.Examples)
		patch.Examples = &examples
	}
	return patch
}
