package ee

import (
	"fmt"
	"strings"

	"github.com/openterra/tilegate/internal/model"
)

// ExpressionPrefix marks an identifier as an inline expression rather than a
// catalog reference.
const ExpressionPrefix = "ee."

func IsExpression(identifier string) bool {
	return strings.HasPrefix(identifier, ExpressionPrefix)
}

// ParseExpression evaluates a constrained inline expression into a handle.
// Exactly one constructor call with a single string-literal argument is
// accepted: ee.Image("..."), ee.ImageCollection("..."),
// ee.FeatureCollection("..."). Free-form expressions are rejected so that
// callers cannot run arbitrary code against the backend.
func ParseExpression(expression string) (Handle, error) {
	s := strings.TrimSpace(expression)

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("%w: expected a constructor call, got %q", model.ErrInvalidExpression, expression)
	}

	ctor := strings.TrimSpace(s[:open])
	arg := strings.TrimSpace(s[open+1 : len(s)-1])

	assetID, err := parseStringLiteral(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s constructor: %v", model.ErrInvalidExpression, ctor, err)
	}

	switch ctor {
	case "ee.Image":
		return NewImage(assetID), nil
	case "ee.ImageCollection":
		return NewImageCollection(assetID), nil
	case "ee.FeatureCollection":
		return NewFeatureTable(assetID), nil
	default:
		return nil, fmt.Errorf("%w: unsupported constructor %q", model.ErrInvalidExpression, ctor)
	}
}

func parseStringLiteral(s string) (string, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("expected a quoted asset id")
	}
	quote := s[0]
	if quote != '"' && quote != '\'' {
		return "", fmt.Errorf("expected a quoted asset id")
	}
	if s[len(s)-1] != quote {
		return "", fmt.Errorf("unterminated string literal")
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return "", fmt.Errorf("asset id must not be empty")
	}
	if strings.IndexByte(inner, quote) >= 0 {
		return "", fmt.Errorf("expected a single string literal")
	}
	return inner, nil
}
