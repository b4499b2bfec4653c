// Package i18n holds the theme's UI strings. German is the default language;
// English is available for sites configured with language "en".
package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key is the English source text.
const (
	ReadMore      = "Read more"
	Search        = "Search"
	SearchButton  = "Search for"
	SearchLabel   = "Search for:"
	NoResults     = "No search results found"
	ResultsFound  = "%d results found for the search."
	NotFound      = "Page not found"
	NotFoundText  = "The page you were looking for could not be found."
	ServerError   = "Something went wrong"
	ServerText    = "Please try again later."
	NotReady      = "Content is still loading"
	NewerPosts    = "Newer posts"
	OlderPosts    = "Older posts"
	Categories    = "Categories"
	Category      = "Category"
	Tag           = "Tag"
	Tags          = "Tags"
	PostedOn      = "Posted on"
	BackHome      = "Back to the home page"
	SkipToContent = "Skip to content"
)

var supported = []language.Tag{language.German, language.English}

var matcher = language.NewMatcher(supported)

var cat = build()

func build() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.German))

	de := language.German
	must(b.SetString(de, ReadMore, "MEHR ERFAHREN"))
	must(b.SetString(de, Search, "SUCHE"))
	must(b.SetString(de, SearchButton, "Suchen"))
	must(b.SetString(de, SearchLabel, "Suche nach:"))
	must(b.SetString(de, NoResults, "Keine Suchergebnisse gefunden"))
	must(b.Set(de, ResultsFound, plural.Selectf(1, "%d",
		"=0", "Keine Suchergebnisse gefunden",
		"=1", "Es wurde 1 Ergebnis für die Suche gefunden.",
		"other", "Es wurden %[1]d Ergebnisse für die Suche gefunden.",
	)))
	must(b.SetString(de, NotFound, "Seite nicht gefunden"))
	must(b.SetString(de, NotFoundText, "Die gesuchte Seite konnte nicht gefunden werden."))
	must(b.SetString(de, ServerError, "Etwas ist schiefgelaufen"))
	must(b.SetString(de, ServerText, "Bitte versuche es später noch einmal."))
	must(b.SetString(de, NotReady, "Der Inhalt wird noch geladen"))
	must(b.SetString(de, NewerPosts, "Neuere Beiträge"))
	must(b.SetString(de, OlderPosts, "Ältere Beiträge"))
	must(b.SetString(de, Categories, "Kategorien"))
	must(b.SetString(de, Category, "Kategorie"))
	must(b.SetString(de, Tag, "Schlagwort"))
	must(b.SetString(de, Tags, "Schlagwörter"))
	must(b.SetString(de, PostedOn, "Veröffentlicht am"))
	must(b.SetString(de, BackHome, "Zurück zur Startseite"))
	must(b.SetString(de, SkipToContent, "Zum Inhalt springen"))

	en := language.English
	must(b.SetString(en, ReadMore, "READ MORE"))
	must(b.SetString(en, Search, "SEARCH"))
	must(b.Set(en, ResultsFound, plural.Selectf(1, "%d",
		"=0", "No search results found",
		"=1", "1 result was found for the search.",
		"other", "%[1]d results were found for the search.",
	)))
	for _, key := range []string{
		SearchButton, SearchLabel, NoResults, NotFound, NotFoundText, ServerError,
		ServerText, NotReady, NewerPosts, OlderPosts, Categories, Category, Tag, Tags, PostedOn,
		BackHome, SkipToContent,
	} {
		must(b.SetString(en, key, key))
	}
	return b
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Match returns the supported language closest to lang. Unknown or empty
// values fall back to German.
func Match(lang string) language.Tag {
	t, err := language.Parse(lang)
	if err != nil {
		return supported[0]
	}
	_, i, conf := matcher.Match(t)
	if conf == language.No {
		return supported[0]
	}
	return supported[i]
}

// Printer returns a message printer for lang.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Match(lang), message.Catalog(cat))
}
