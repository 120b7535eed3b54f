package wordlist

// DefaultWords is the built-in blocklist for the word-based gate. Entries
// are matched after lowercasing and diacritic folding. Deployments with
// stricter requirements should supply their own list via WithWords or use
// the moderation endpoint instead.
var DefaultWords = []string{
	// English
	"fuck",
	"fucking",
	"motherfucker",
	"shit",
	"bullshit",
	"cunt",
	"bitch",
	"asshole",
	"bastard",
	"wanker",
	"bollocks",
	"slut",
	"whore",
	"douchebag",

	// Romanian
	"prost",
	"proastă",
	"tâmpit",
	"tâmpită",
	"idiot",
	"idioată",
	"cretin",
	"cretină",
	"căcat",
	"rahat",
	"fut",
	"fute",
	"muie",
	"pula",
	"pizda",
}
