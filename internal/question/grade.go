package question

import "strings"

// multi-select answers travel as a comma-joined list
const answerSeparator = ","

// CheckAnswer reports whether the submitted answer is correct. Single-answer
// variants compare the exact string; multi-select compares the answer sets
// order-independently but multiset-exact; short answers ignore case and
// surrounding whitespace.
func CheckAnswer(q *Question, answer string) bool {
	switch q.Type {
	case TypeMultipleChoice:
		return multisetEqual(splitAnswer(answer), splitAnswer(q.CorrectAnswer))
	case TypeShortAnswer:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
	default:
		return answer == q.CorrectAnswer
	}
}

func splitAnswer(answer string) []string {
	parts := strings.Split(answer, answerSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func multisetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}
