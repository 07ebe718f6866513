package caption

// LabelUnknown is the fallback quality and language label.
const LabelUnknown = "Unknown"

// qualityLabels is scanned in order; the first case-insensitive substring hit
// wins. Aliases fold to a canonical label so "4K" and "2160p" share a variant
// slot.
var qualityLabels = []struct {
	match     string
	canonical string
}{
	{"2160p", "2160p"},
	{"4k", "2160p"},
	{"1080p", "1080p"},
	{"720p", "720p"},
	{"480p", "480p"},
	{"360p", "360p"},
}

// languageWords maps caption tokens to canonical language labels. Regional
// spellings fold to one label.
var languageWords = map[string]string{
	"hindi":     "Hindi",
	"bangla":    "Bangla",
	"bengali":   "Bangla",
	"english":   "English",
	"tamil":     "Tamil",
	"telugu":    "Telugu",
	"malayalam": "Malayalam",
	"kannada":   "Kannada",
}

// stopTokens terminate the no-year title scan. Quality labels, language
// names, and common release jargon all mark the end of a title.
var stopTokens = map[string]struct{}{
	"web-dl":     {},
	"webdl":      {},
	"webrip":     {},
	"web":        {},
	"hdrip":      {},
	"bluray":     {},
	"blu-ray":    {},
	"brrip":      {},
	"dvdrip":     {},
	"camrip":     {},
	"hdtc":       {},
	"hdts":       {},
	"dual":       {},
	"audio":      {},
	"x264":       {},
	"x265":       {},
	"hevc":       {},
	"aac":        {},
	"esub":       {},
	"esubs":      {},
	"sub":        {},
	"subs":       {},
	"uncut":      {},
	"extended":   {},
	"remastered": {},
}

func init() {
	for _, q := range qualityLabels {
		stopTokens[q.match] = struct{}{}
	}
	for word := range languageWords {
		stopTokens[word] = struct{}{}
	}
}
