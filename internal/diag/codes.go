package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксические
	SynExtraText       Code = 1001
	SynUnexpectedEOF   Code = 1002
	SynUnexpectedToken Code = 1003

	// Синхронизация с хранилищем
	StoreFailure Code = 2001
	StoreNotNFC  Code = 2002

	// Ввод-вывод
	IOLoadFile Code = 3001
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	SynExtraText:       "Dangling text",
	SynUnexpectedEOF:   "Unexpected end of file",
	SynUnexpectedToken: "Unexpected token",
	StoreFailure:       "Store failure",
	StoreNotNFC:        "Message is not NFC normalized",
	IOLoadFile:         "Failed to load file",
}

func (c Code) ID() string {
	if c == UnknownCode {
		return "TODO0000"
	}
	return fmt.Sprintf("TODO%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
