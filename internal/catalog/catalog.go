// Package catalog holds the fixed lookup tables that drive a scraping run:
// target niches, localities, email classification tables and the scoring
// rubric. The tables are loaded once at process start and never mutated.
package catalog

import "strings"

// Primary search scope.
const (
	PrimaryCity = "Curitiba"
	State       = "PR"
	Country     = "BR"
)

// AdditionalCities are metro-area cities searched without neighborhood scoping.
var AdditionalCities = []string{
	"Campo Largo",
	"Pinhais",
	"Fazenda Rio Grande",
	"São José dos Pinhais",
}

// HighTicketNiches are the service categories that seed search queries.
// Problem-to-solution niches with high ticket and strong search dependency.
var HighTicketNiches = []string{
	"dedetizadora",
	"desentupidora",
	"guincho",
	"assistência técnica ar condicionado",
	"instalação ar condicionado",
	"manutenção ar condicionado",
	"impermeabilização",
	"reforma especializada",
	"reparo de telhado",
	"hidráulica predial",
	"elétrica predial",
}

// CuritibaNeighborhoods cluster the primary-city searches. The list may grow.
var CuritibaNeighborhoods = []string{
	"Centro",
	"Batel",
	"Água Verde",
	"Bigorrilho",
	"Cabral",
	"Ahú",
	"Juvevê",
	"Alto da Glória",
	"Rebouças",
	"Portão",
	"Santa Felicidade",
	"Boa Vista",
	"Hauer",
	"Xaxim",
	"Cajuru",
	"Boqueirão",
	"Uberaba",
	"Pinheirinho",
	"Tatuquara",
	"Cidade Industrial",
}

// DetailsFields is the restricted Place Details field set (cost control).
var DetailsFields = []string{
	"name",
	"types",
	"formatted_address",
	"address_components",
	"formatted_phone_number",
	"website",
	"geometry",
}

// GenericEmailDomains are consumer webmail domains; addresses on them never
// count as corporate contacts.
var GenericEmailDomains = []string{
	"gmail.com",
	"hotmail.com",
	"outlook.com",
	"yahoo.com",
	"icloud.com",
	"live.com",
	"aol.com",
}

// FunctionalEmailKeywords mark role addresses such as sales or support desks.
var FunctionalEmailKeywords = []string{
	"contato",
	"comercial",
	"vendas",
	"atendimento",
	"suporte",
	"orcamento",
}

// ContactLinkTokens mark hyperlinks worth visiting when hunting for a contact
// page. Matched as substrings of the href, language-agnostic.
var ContactLinkTokens = []string{
	"contato",
	"contact",
	"fale",
	"about",
}

// Score rule weights (additive, 0-100).
const (
	ScoreHasWebsite        = 25
	ScoreHighTicketNiche   = 25
	ScoreHighCompetition   = 20
	ScoreCorporateEmail    = 20
	ScorePrimeNeighborhood = 10

	// CompetitionThreshold is the unique-result count above which a niche
	// batch counts as a saturated market.
	CompetitionThreshold = 10

	// QualificationThreshold is the minimum total score for a qualified lead.
	QualificationThreshold = 70
)

// CSV export streams, one per final lead status.
const (
	OutputQualified = "outputs/leads_qualificados.csv"
	OutputNoEmail   = "outputs/leads_sem_email.csv"
	OutputDiscarded = "outputs/leads_descartados.csv"
)

// IsGenericDomain reports whether domain is a consumer webmail domain.
// The comparison is case-insensitive.
func IsGenericDomain(domain string) bool {
	domain = strings.ToLower(domain)
	for _, d := range GenericEmailDomains {
		if domain == d {
			return true
		}
	}
	return false
}

// HasFunctionalKeyword reports whether the (already lowercased) address
// contains any functional-role keyword.
func HasFunctionalKeyword(email string) bool {
	for _, k := range FunctionalEmailKeywords {
		if strings.Contains(email, k) {
			return true
		}
	}
	return false
}

// InPrimeNeighborhood reports whether the formatted address mentions one of
// the primary-city neighborhoods. Substring matching can false-positive on
// unrelated text; accepted as a coarse signal.
func InPrimeNeighborhood(address string) bool {
	if address == "" {
		return false
	}
	lower := strings.ToLower(address)
	for _, n := range CuritibaNeighborhoods {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
