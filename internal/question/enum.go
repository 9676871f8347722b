package question

type QuestionType string

const (
	TypeSingleChoice   QuestionType = "SINGLE_CHOICE"
	TypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TypeTrueFalse      QuestionType = "TRUE_FALSE"
	TypeShortAnswer    QuestionType = "SHORT_ANSWER"
)

var AllTypes = []QuestionType{
	TypeSingleChoice,
	TypeMultipleChoice,
	TypeTrueFalse,
	TypeShortAnswer,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllTypes {
		if t == v {
			return true
		}
	}
	return false
}
