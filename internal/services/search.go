package services

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Serbian Cyrillic letters whose Latin form unidecode spells differently
// from the Serbian alphabet.
var serbianFold = strings.NewReplacer(
	"ђ", "d", "ћ", "c", "ч", "c", "џ", "dz", "ж", "z", "ш", "s",
	"љ", "lj", "њ", "nj", "ј", "j", "х", "h", "ц", "c",
)

// normalizeForSearch folds Cyrillic and Latin Serbian text to lowercase
// ASCII so either script matches the other.
func normalizeForSearch(text string) string {
	folded := unidecode.Unidecode(serbianFold.Replace(strings.ToLower(text)))
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
