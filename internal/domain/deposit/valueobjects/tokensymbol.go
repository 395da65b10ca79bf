package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TokenSymbol is the ticker of the deposited asset, stored upper-cased.
type TokenSymbol string

const maxSymbolLength = 32

var upper = cases.Upper(language.Und)

func NewTokenSymbol(s string) (TokenSymbol, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("token symbol is required")
	}
	if len(trimmed) > maxSymbolLength {
		return "", fmt.Errorf("token symbol must be at most %d characters", maxSymbolLength)
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", fmt.Errorf("token symbol must not contain whitespace")
	}
	return TokenSymbol(upper.String(trimmed)), nil
}

func (t TokenSymbol) String() string {
	return string(t)
}
