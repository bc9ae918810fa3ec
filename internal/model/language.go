package model

import (
	"fmt"
	"strings"
)

// Language selects the locale of generated labels.
type Language string

const (
	LanguageEN Language = "en"
	LanguageRU Language = "ru"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageEN:
		return LanguageEN, nil
	case LanguageRU:
		return LanguageRU, nil
	default:
		return "", fmt.Errorf("unknown language: %s (expected en|ru)", s)
	}
}

func (l Language) Toggle() Language {
	if l == LanguageRU {
		return LanguageEN
	}
	return LanguageRU
}

// DefaultNodeLabel is the label given to a node created without one.
func (l Language) DefaultNodeLabel() string {
	if l == LanguageRU {
		return "Новая заметка"
	}
	return "New Node"
}

// NodeLabel is the generic label of the n-th (1-based) generated node.
func (l Language) NodeLabel(n int) string {
	if l == LanguageRU {
		return fmt.Sprintf("Заметка %d", n)
	}
	return fmt.Sprintf("Node %d", n)
}

func (l Language) BranchLabel() string {
	if l == LanguageRU {
		return "Новая ветка"
	}
	return "New Branch"
}
