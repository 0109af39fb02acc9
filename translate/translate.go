// Package translate formats user-visible messages for the current locale.
package translate

import (
	"log"
	"os"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// LANG_ENV overrides the locale detected from the host.
const LANG_ENV = "Y86_LANG"

var printer *message.Printer

func init() {
	var locales []string
	if lang := os.Getenv(LANG_ENV); len(lang) != 0 {
		locales = []string{lang}
	} else {
		var err error
		locales, err = locale.GetLocales()
		if err != nil {
			log.Printf("y86: locale: %v", err)
		}
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
