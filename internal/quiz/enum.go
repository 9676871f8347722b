package quiz

type QuizStatus string

const (
	StatusDraft     QuizStatus = "DRAFT"
	StatusPublished QuizStatus = "PUBLISHED"
	StatusArchived  QuizStatus = "ARCHIVED"
)

var AllStatuses = []QuizStatus{
	StatusDraft,
	StatusPublished,
	StatusArchived,
}

func (s QuizStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}
