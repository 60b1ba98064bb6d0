package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Converter переводит текст в другую запись (например, кандзи → хирагана).
type Converter interface {
	Convert(s string) string
}

// Folder — нормализация текста перед сравнением.
type Folder struct {
	CaseInsensitive bool
	Kanji           Converter
}

func NewFolder(caseInsensitive bool, kanji Converter) *Folder {
	return &Folder{CaseInsensitive: caseInsensitive, Kanji: kanji}
}

// Fold применяется и к запросу, и к кандидату. nil Folder ничего не меняет.
func (f *Folder) Fold(s string) string {
	if f == nil {
		return s
	}
	if f.CaseInsensitive {
		s = kataToHira(width.Fold.String(casefold(s)))
	}
	if f.Kanji != nil {
		s = f.Kanji.Convert(s)
	}
	return s
}

// cases.Caser хранит состояние, поэтому новый на каждый вызов.
func casefold(s string) string { return cases.Fold().String(s) }

func kataToHira(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'ァ' && r <= 'ヶ':
			return r - 0x60
		case r == 'ヽ' || r == 'ヾ':
			return r - 0x60
		}
		return r
	}, s)
}
