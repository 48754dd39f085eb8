package moderation

// forbiddenWords is the compiled-in list of profanity and spam keywords
// matched case-insensitively as substrings of sanitized comment content.
// Covers the three portal locales.
var forbiddenWords = []string{
	// en
	"spam",
	"casino",
	"viagra",
	"lottery",
	"free money",
	"click here",
	"crypto giveaway",
	// ru
	"казино",
	"спам",
	"ставки на спорт",
	"быстрый заработок",
	"реклама услуг",
	// uz
	"qimor",
	"tez pul",
	"reklama xizmat",
	"pul ishlash",
}
