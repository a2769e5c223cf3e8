package token

var keywords = map[string]Kind{
	"todo": KwTodo,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: только lowercase версии распознаются.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}
