package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Rupiah is an amount in whole rupiah, the smallest unit used by the platform.
type Rupiah int64

var idPrinter = message.NewPrinter(language.Indonesian)

// String formats the amount the way the app displays it, e.g. "Rp 100.000".
func (r Rupiah) String() string {
	if r < 0 {
		return idPrinter.Sprintf("-Rp %d", int64(-r))
	}
	return idPrinter.Sprintf("Rp %d", int64(r))
}
