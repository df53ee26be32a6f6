package locale

// Reaction type identifiers as used by the backend.
const (
	ReactionRelatable = "relatable"
	ReactionHot       = "hot"
	ReactionFeltThis  = "feltThis"
	ReactionCurious   = "curious"
	ReactionSad       = "sad"
	ReactionTooMuch   = "tooMuch"
)

// ReactionTypes lists the six reactions in display order.
var ReactionTypes = []string{
	ReactionRelatable,
	ReactionHot,
	ReactionFeltThis,
	ReactionCurious,
	ReactionSad,
	ReactionTooMuch,
}

// ReactionEmoji maps a reaction type to its emoji.
var ReactionEmoji = map[string]string{
	ReactionRelatable: "😳",
	ReactionHot:       "🔥",
	ReactionFeltThis:  "🤍",
	ReactionCurious:   "🤔",
	ReactionSad:       "😢",
	ReactionTooMuch:   "🙈",
}

var reactionLabels = map[string]map[Language]string{
	ReactionRelatable: {English: "Relatable", Hindi: "रिलेटेबल", Punjabi: "ਸੰਬੰਧਤ"},
	ReactionHot:       {English: "Hot", Hindi: "हॉट", Punjabi: "ਹੌਟ"},
	ReactionFeltThis:  {English: "Felt this", Hindi: "महसूस किया", Punjabi: "ਮਹਿਸੂਸ ਕੀਤਾ"},
	ReactionCurious:   {English: "Curious", Hindi: "उत्सुक", Punjabi: "ਉਤਸੁਕ"},
	ReactionSad:       {English: "Sad", Hindi: "दुखी", Punjabi: "ਉਦਾਸ"},
	ReactionTooMuch:   {English: "Intense", Hindi: "तीव्र", Punjabi: "ਤੀਬਰ"},
}

// IsReactionType reports whether t is one of the six reactions.
func IsReactionType(t string) bool {
	_, ok := reactionLabels[t]
	return ok
}

// ReactionLabel returns the label for reaction t in lang, falling back to
// English and then to t itself.
func ReactionLabel(lang Language, t string) string {
	labels, ok := reactionLabels[t]
	if !ok {
		return t
	}
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[English]
}

// Hint kinds returned by NormalityHint.
const (
	HintNone       = ""
	HintManyRelate = "many-relate"
	HintUncommon   = "uncommon"
	HintMixed      = "mixed"
)

// minHintReactions is the total below which no hint is shown.
const minHintReactions = 5

var hintLabels = map[string]map[Language]string{
	HintManyRelate: {English: "✓ Many relate", Hindi: "✓ बहुत लोग रिलेट करते हैं", Punjabi: "✓ ਬਹੁਤ ਲੋਕ ਸੰਬੰਧਤ ਹਨ"},
	HintUncommon:   {English: "⚠ Uncommon", Hindi: "⚠ असामान्य", Punjabi: "⚠ ਅਸਾਧਾਰਨ"},
	HintMixed:      {English: "≈ Mixed reactions", Hindi: "≈ मिश्रित प्रतिक्रियाएं", Punjabi: "≈ ਮਿਲੀ-ਜੁਲੀ ਪ੍ਰਤੀਕ੍ਰਿਆ"},
}

// NormalityHint classifies a reaction distribution. counts is keyed by
// reaction type.
func NormalityHint(counts map[string]int) string {
	total := 0
	for _, t := range ReactionTypes {
		if c := counts[t]; c > 0 {
			total += c
		}
	}
	if total < minHintReactions {
		return HintNone
	}

	ratio := func(t string) float64 {
		return float64(counts[t]) / float64(total)
	}
	switch {
	case ratio(ReactionRelatable) > 0.5:
		return HintManyRelate
	case ratio(ReactionTooMuch) > 0.3:
		return HintUncommon
	default:
		return HintMixed
	}
}

// HintLabel renders a hint kind in lang.
func HintLabel(lang Language, hint string) string {
	labels, ok := hintLabels[hint]
	if !ok {
		return ""
	}
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[English]
}
