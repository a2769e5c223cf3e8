package lexer

// isSpace reports ASCII whitespace: space, \t, \n, \f, \r.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isWordByte(b byte) bool {
	return isAlpha(b) || b == '_'
}
