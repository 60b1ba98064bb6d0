package search

// NGWord — правило запрещённых слов: Count совпадений по Method.
type NGWord struct {
	Count  int
	Method MatchMethod
	Words  []string
}

// Match считает слова правила, найденные в сообщении. Правило
// срабатывает, если их не меньше Count (Count <= 0 трактуется как 1).
func (w NGWord) Match(message string, f *Folder) bool {
	need := w.Count
	if need <= 0 {
		need = 1
	}
	msg := f.Fold(message)
	hits := 0
	for _, word := range w.Words {
		if word == "" {
			continue
		}
		if w.Method.Match(msg, f.Fold(word)) {
			hits++
			if hits >= need {
				return true
			}
		}
	}
	return false
}

// MatchNGWords возвращает первое сработавшее правило.
func MatchNGWords(rules []NGWord, message string, f *Folder) (NGWord, bool) {
	for _, r := range rules {
		if r.Match(message, f) {
			return r, true
		}
	}
	return NGWord{}, false
}
