package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRecordValidate(t *testing.T) {
	valid := ScoreRecord{PlayerName: "Anna", QuestionSet: "Musik", Score: 0}
	assert.NoError(t, valid.Validate())

	cases := map[string]ScoreRecord{
		"empty name":     {PlayerName: "", QuestionSet: "Musik", Score: 10},
		"name too long":  {PlayerName: strings.Repeat("x", MaxPlayerNameLength+1), QuestionSet: "Musik", Score: 10},
		"empty set":      {PlayerName: "Anna", QuestionSet: "", Score: 10},
		"negative score": {PlayerName: "Anna", QuestionSet: "Musik", Score: -1},
	}
	for name, record := range cases {
		assert.ErrorIs(t, record.Validate(), ErrInvalidScore, name)
	}

	atLimit := ScoreRecord{PlayerName: strings.Repeat("x", MaxPlayerNameLength), QuestionSet: "Musik", Score: 10}
	assert.NoError(t, atLimit.Validate())
}
