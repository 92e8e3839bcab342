package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// legacyCodePages are the single-byte candidates tried when a file is not
// valid UTF-8. Czech statement exports ship in either of these.
var legacyCodePages = []*charmap.Charmap{charmap.Windows1250, charmap.ISO8859_2}

// DecodeBest decodes a byte buffer of unknown encoding. Each candidate
// decoding is scored by its replacement-character count and the lowest
// score wins; UTF-8 is preferred on ties. If the winner still carries the
// signature of UTF-8 text that was round-tripped through a single-byte code
// page, the fixed repair table is applied.
func DecodeBest(data []byte) string {
	best := decodeUTF8(data)
	bestScore := artifactScore(best)

	for _, cm := range legacyCodePages {
		if bestScore == 0 {
			break
		}
		s, err := cm.NewDecoder().String(string(data))
		if err != nil {
			continue
		}
		if score := artifactScore(s); score < bestScore {
			best, bestScore = s, score
		}
	}

	if looksDoubleEncoded(best) {
		best = mojibakeRepairs.Replace(best)
	}
	return best
}

func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

func artifactScore(s string) int {
	return strings.Count(s, "�")
}

// looksDoubleEncoded detects the corruption signature of UTF-8 Czech text
// decoded once as windows-1250: the lead bytes of two-byte sequences come
// out as Ă, Ä or Ĺ, letters that do not occur in real Czech words.
func looksDoubleEncoded(s string) bool {
	return strings.Contains(s, "Ă") || strings.Contains(s, "Ä") || strings.Contains(s, "Ĺ")
}

// mojibakeRepairs maps the windows-1250 rendering of UTF-8 byte pairs for
// Czech letters back to the letters themselves.
var mojibakeRepairs = strings.NewReplacer(
	"Ăˇ", "á",
	"Ă©", "é",
	"Ă­", "í",
	"Ăł", "ó",
	"Ăş", "ú",
	"Ă˝", "ý",
	"ÄŤ", "č",
	"ÄŹ", "ď",
	"Äť", "ě",
	"Ĺ™", "ř",
	"Ĺˇ", "š",
	"ĹĄ", "ť",
	"ĹŻ", "ů",
	"Ĺľ", "ž",
	"Ĺ ", "Š",
	"ÄŚ", "Č",
	"Ĺ˝", "Ž",
	"Ă", "Á",
	"Ă‰", "É",
	"Ăť", "Ý",
)
