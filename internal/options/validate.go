// Package options holds checks shared by the functional-option entry points
// of parser and generator.
package options

import (
	"strings"

	"github.com/erraggy/kvapi/kverrors"
)

// Source is one way of supplying input, named by the option that sets it.
type Source struct {
	Option string
	Set    bool
}

// RequireOneSource reports a *kverrors.ConfigError unless exactly one of
// sources is set. pkg prefixes the message.
func RequireOneSource(pkg string, sources ...Source) error {
	var set, all []string
	for _, s := range sources {
		all = append(all, s.Option)
		if s.Set {
			set = append(set, s.Option)
		}
	}
	switch len(set) {
	case 1:
		return nil
	case 0:
		return &kverrors.ConfigError{
			Option:  "input source",
			Message: pkg + ": must specify an input source (use " + orList(all) + ")",
		}
	default:
		return &kverrors.ConfigError{
			Option:  "input source",
			Value:   strings.Join(set, ", "),
			Message: pkg + ": must specify exactly one input source",
		}
	}
}

func orList(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
