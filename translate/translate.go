// Package translate formats user-facing z80step messages for the host locale.
//
// All diagnostics shown by the stepper (decode failures, unknown instructions,
// runtime status lines) are built from en-US Sprintf() formats and passed
// through a message.Printer chosen from the host's preferred locales.
package translate

import (
	"errors"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("z80step: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Error creates a sentinel error whose text is translated once, at creation.
func Error(key message.Reference, args ...any) error {
	return errors.New(From(key, args...))
}
