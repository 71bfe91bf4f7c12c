package translit

// ToHiragana converts katakana runes to hiragana, leaving everything else
// untouched. Kana join keys are normalized this way so katakana-only and
// hiragana-only spellings of the same word land on one key.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
