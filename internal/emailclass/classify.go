// Package emailclass classifies candidate email addresses found during site
// crawls.
package emailclass

import (
	"strings"

	"github.com/adrockmkt/lead-scraper-maps/internal/catalog"
)

// Kind is the classification of a candidate email address.
type Kind string

const (
	// KindGeneric marks consumer webmail addresses (gmail, hotmail, ...).
	KindGeneric Kind = "generic"
	// KindFunctional marks role addresses such as vendas@ or suporte@.
	KindFunctional Kind = "functional"
	// KindCorporate marks everything else: a named address on a company
	// domain.
	KindCorporate Kind = "corporate"
)

// Classify maps an email address to its kind. The domain check runs before the
// keyword check, so vendas@gmail.com is generic, not functional. Pure and
// total: any string gets a classification.
func Classify(email string) Kind {
	email = strings.ToLower(email)

	domain := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}

	if catalog.IsGenericDomain(domain) {
		return KindGeneric
	}
	if catalog.HasFunctionalKeyword(email) {
		return KindFunctional
	}
	return KindCorporate
}
