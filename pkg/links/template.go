package links

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTemplate is returned for hrefs with unbalanced, nested or empty URI template expressions.
var ErrMalformedTemplate = errors.New("malformed URI template")

// IsTemplated reports whether href contains at least one URI template expression, such as `{id}` or `{?name,page}`.
func IsTemplated(href string) (bool, error) {
	templated := false
	open := -1
	for i, char := range href {
		switch char {
		case '{':
			if open >= 0 {
				return false, fmt.Errorf("%w: nested '{' at %d in %q", ErrMalformedTemplate, i, href)
			}
			open = i
		case '}':
			if open < 0 {
				return false, fmt.Errorf("%w: unexpected '}' at %d in %q", ErrMalformedTemplate, i, href)
			}
			if strings.TrimLeft(href[open+1:i], "+#./;?&") == "" {
				return false, fmt.Errorf("%w: empty expression at %d in %q", ErrMalformedTemplate, open, href)
			}
			open = -1
			templated = true
		}
	}

	if open >= 0 {
		return false, fmt.Errorf("%w: unclosed '{' at %d in %q", ErrMalformedTemplate, open, href)
	}

	return templated, nil
}

// NewLink creates a link for href, marking it templated if href has template expressions.
func NewLink(href string) (Link, error) {
	templated, err := IsTemplated(href)
	if err != nil {
		return Link{}, err
	}

	return Link{
		Href:      href,
		Templated: templated,
	}, nil
}
