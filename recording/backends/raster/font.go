package raster

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var goRegular struct {
	once sync.Once
	font *opentype.Font
	err  error
}

// parsedGoRegular parses the embedded Go Regular font once.
func parsedGoRegular() (*opentype.Font, error) {
	goRegular.once.Do(func() {
		goRegular.font, goRegular.err = opentype.Parse(goregular.TTF)
		if goRegular.err != nil {
			goRegular.err = fmt.Errorf("raster: parse Go Regular: %w", goRegular.err)
		}
	})
	return goRegular.font, goRegular.err
}
