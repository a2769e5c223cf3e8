package driver

import (
	"mynd/internal/lexer"
	"mynd/internal/source"
	"mynd/internal/token"
)

type TokenizeResult struct {
	File   *source.File
	Tokens []token.Token
}

// Tokenize загружает файл и собирает все токены до EOF включительно.
func Tokenize(path string) (*TokenizeResult, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return &TokenizeResult{
		File:   file,
		Tokens: lexer.New(file).All(),
	}, nil
}
