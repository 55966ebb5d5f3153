package mock

import "github.com/fwojciec/ficfetch"

var _ ficfetch.Converter = (*Converter)(nil)

// Converter is a mock implementation of ficfetch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
