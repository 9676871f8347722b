package question

import "testing"

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name    string
		qType   QuestionType
		correct string
		answer  string
		want    bool
	}{
		{"single choice exact match", TypeSingleChoice, "Paris", "Paris", true},
		{"single choice mismatch", TypeSingleChoice, "Paris", "London", false},
		{"single choice is case sensitive", TypeSingleChoice, "Paris", "paris", false},
		{"true/false match", TypeTrueFalse, "true", "true", true},
		{"true/false mismatch", TypeTrueFalse, "true", "false", false},
		{"short answer ignores case", TypeShortAnswer, "Photosynthesis", "photosynthesis", true},
		{"short answer ignores whitespace", TypeShortAnswer, "Photosynthesis", "  Photosynthesis ", true},
		{"short answer mismatch", TypeShortAnswer, "Photosynthesis", "respiration", false},
		{"multi select same order", TypeMultipleChoice, "a,b,c", "a,b,c", true},
		{"multi select reordered", TypeMultipleChoice, "a,b,c", "c,a,b", true},
		{"multi select with spaces", TypeMultipleChoice, "a,b,c", " c , a , b ", true},
		{"multi select missing option", TypeMultipleChoice, "a,b,c", "a,b", false},
		{"multi select extra option", TypeMultipleChoice, "a,b", "a,b,c", false},
		{"multi select duplicate is not exact", TypeMultipleChoice, "a,b", "a,a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{Type: tt.qType, CorrectAnswer: tt.correct}
			if got := CheckAnswer(q, tt.answer); got != tt.want {
				t.Errorf("CheckAnswer(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}
