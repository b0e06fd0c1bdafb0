// Package i18n holds the chat message catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	KitGiven           = "KitGiven"
	KitGiftGiven       = "KitGiftGiven"
	KitGiftGiver       = "KitGiftGiver"
	KitGiftGiverReward = "KitGiftGiver_Reward"
	UnknownPlayer      = "UnknownPlayer"
)

var supported = []language.Tag{language.English, language.BrazilianPortuguese}

var catalogue = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, KitGiven, "A '%[1]s' kit was added to your account!")
	set(language.English, KitGiftGiven, "%[1]s just gifted you a '%[2]s' kit, wow!")
	set(language.English, KitGiftGiver, "You just gifted %[1]s a '%[2]s' kit!")
	set(language.English, KitGiftGiverReward, "You just gifted %[1]s a '%[2]s' kit! Please take this %[3]s for your generosity <3")
	set(language.English, UnknownPlayer, "An unknown player")

	set(language.BrazilianPortuguese, KitGiven, "Um kit '%[1]s' foi adicionado à sua conta!")
	set(language.BrazilianPortuguese, KitGiftGiven, "%[1]s acabou de te presentear com um kit '%[2]s', uau!")
	set(language.BrazilianPortuguese, KitGiftGiver, "Você acabou de presentear %[1]s com um kit '%[2]s'!")
	set(language.BrazilianPortuguese, KitGiftGiverReward, "Você acabou de presentear %[1]s com um kit '%[2]s'! Aceite estes %[3]s pela sua generosidade <3")
	set(language.BrazilianPortuguese, UnknownPlayer, "Um jogador desconhecido")

	return b
}

var matcher = language.NewMatcher(supported)

// Printer returns a printer for the closest supported language to lang.
// Unknown or empty tags fall back to English.
func Printer(lang string) *message.Printer {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}
	return message.NewPrinter(tag, message.Catalog(catalogue))
}

// Sprintf renders key in lang.
func Sprintf(lang, key string, args ...any) string {
	return Printer(lang).Sprintf(key, args...)
}
