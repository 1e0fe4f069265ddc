package sentiment

// lexicon maps tokens to valence on the VADER scale (-4.0 to +4.0).
//
// This is a small embedded subset tuned for companion conversations, not a
// full sentiment lexicon. Unknown tokens count as neutral.
var lexicon = map[string]float64{
	// Positive
	"good":       1.9,
	"great":      3.1,
	"awesome":    3.1,
	"amazing":    2.8,
	"excellent":  2.7,
	"fantastic":  2.6,
	"wonderful":  2.7,
	"nice":       1.8,
	"love":       3.2,
	"loved":      2.9,
	"like":       1.5,
	"liked":      1.6,
	"likes":      1.6,
	"enjoy":      2.2,
	"enjoyed":    2.3,
	"happy":      2.7,
	"happier":    2.6,
	"happiness":  2.7,
	"glad":       2.0,
	"joy":        2.8,
	"excited":    2.3,
	"exciting":   2.2,
	"fun":        2.3,
	"calm":       1.3,
	"calmer":     1.4,
	"relaxed":    1.8,
	"relieved":   1.9,
	"hopeful":    1.9,
	"hope":       1.9,
	"proud":      2.2,
	"better":     1.9,
	"best":       3.2,
	"win":        2.8,
	"won":        2.7,
	"thanks":     1.9,
	"thank":      1.5,
	"grateful":   2.3,
	"beautiful":  2.9,
	"smile":      1.6,
	"laughed":    2.2,
	"laugh":      2.2,
	"sweet":      2.0,
	"kind":       2.4,
	"friend":     2.2,
	"friends":    2.1,
	"progress":   1.6,
	"improved":   1.9,
	"improving":  1.7,
	"energized":  1.9,
	"motivated":  1.9,
	"peaceful":   2.2,
	"safe":       1.8,
	"supported":  1.8,
	"comforted":  1.9,
	"rested":     1.5,
	"okay":       0.9,
	"ok":         0.9,
	"fine":       0.8,
	"yay":        2.4,

	// Negative
	"bad":        -2.5,
	"terrible":   -2.1,
	"horrible":   -2.5,
	"awful":      -2.0,
	"worst":      -3.1,
	"worse":      -2.1,
	"sad":        -2.1,
	"sadder":     -2.2,
	"sadness":    -2.1,
	"unhappy":    -1.8,
	"depressed":  -2.2,
	"depressing": -1.9,
	"anxious":    -1.9,
	"anxiety":    -1.9,
	"worried":    -1.9,
	"worry":      -1.9,
	"stressed":   -1.8,
	"stress":     -1.8,
	"stressful":  -1.8,
	"tired":      -1.4,
	"exhausted":  -1.9,
	"drained":    -1.7,
	"lonely":     -2.1,
	"alone":      -1.0,
	"hurt":       -2.4,
	"hurts":      -2.3,
	"pain":       -2.3,
	"painful":    -2.2,
	"cry":        -2.0,
	"crying":     -2.1,
	"cried":      -2.1,
	"angry":      -2.3,
	"anger":      -2.2,
	"mad":        -2.2,
	"hate":       -2.7,
	"hated":      -2.6,
	"scared":     -2.2,
	"afraid":     -2.2,
	"fear":       -2.2,
	"hopeless":   -2.6,
	"helpless":   -2.2,
	"worthless":  -2.7,
	"useless":    -1.9,
	"empty":      -1.4,
	"numb":       -1.5,
	"lost":       -1.3,
	"failed":     -2.1,
	"failure":    -2.3,
	"fail":       -2.0,
	"miserable":  -2.6,
	"struggling": -1.8,
	"struggle":   -1.7,
	"overwhelmed": -1.8,
	"heavy":      -1.1,
	"dark":       -1.2,
	"sick":       -1.7,
	"ill":        -1.6,
	"broke":      -1.4,
	"broken":     -1.9,
	"lousy":      -2.0,
	"upset":      -1.8,
	"die":        -2.9,
	"dying":      -2.7,
	"death":      -2.7,
	"suicide":    -3.2,
	"no":         -1.2,
	"nothing":    -1.1,
	"nobody":     -1.3,
}

// boosters are intensifiers that raise or dampen the valence of the token
// that follows them.
var boosters = map[string]float64{
	"very":       boosterStep,
	"really":     boosterStep,
	"extremely":  boosterStep,
	"incredibly": boosterStep,
	"so":         boosterStep,
	"totally":    boosterStep,
	"absolutely": boosterStep,
	"deeply":     boosterStep,
	"slightly":   -boosterStep,
	"somewhat":   -boosterStep,
	"kinda":      -boosterStep,
	"barely":     -boosterStep,
	"bit":        -boosterStep,
}

// negations flip the valence of a nearby scored token.
var negations = map[string]struct{}{
	"not":     {},
	"no":      {},
	"never":   {},
	"none":    {},
	"cant":    {},
	"cannot":  {},
	"dont":    {},
	"doesnt":  {},
	"didnt":   {},
	"wont":    {},
	"isnt":    {},
	"arent":   {},
	"wasnt":   {},
	"werent":  {},
	"couldnt": {},
	"wouldnt": {},
	"aint":    {},
	"without": {},
	"hardly":  {},
}
