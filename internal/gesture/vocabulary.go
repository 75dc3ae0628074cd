package gesture

// Vocabulary lists every gesture token the recognizer can emit.
var Vocabulary = []string{
	"left",
	"right",
	"up",
	"down",
	"down then right",
	"left then up",
	"right then up",
	"right then down",
	"up then left",
	"up then right",
	"down then left",
	"left then down",
	"up then down",
	"down then up",
	"left then right",
	"right then left",
	"right then right",
}

// closeTabFamily holds the tokens that close the current tab by default.
// They are destructive, so they get a stricter threshold and a length guard.
var closeTabFamily = map[string]bool{
	"down then right": true,
	"left then right": true,
}

// canonicalCycles are the two-direction patterns a zigzag can collapse to.
var canonicalCycles = [][2]Direction{
	{Left, Right},
	{Right, Left},
	{Up, Down},
	{Down, Up},
}

var vocabularySet = func() map[string]bool {
	set := make(map[string]bool, len(Vocabulary))
	for _, token := range Vocabulary {
		set[token] = true
	}
	return set
}()

// IsValid reports whether token is in the vocabulary.
func IsValid(token string) bool {
	return vocabularySet[token]
}

// IsCloseTab reports whether token belongs to the close-tab family.
func IsCloseTab(token string) bool {
	return closeTabFamily[token]
}

func isCanonicalCycle(a, b Direction) bool {
	for _, c := range canonicalCycles {
		if c[0] == a && c[1] == b {
			return true
		}
	}
	return false
}

func isUpDown(dirs []Direction) bool {
	return len(dirs) == 2 &&
		((dirs[0] == Up && dirs[1] == Down) || (dirs[0] == Down && dirs[1] == Up))
}

// containsCloseTab reports whether any adjacent pair in dirs is a close-tab pattern.
func containsCloseTab(dirs []Direction) bool {
	for i := 1; i < len(dirs); i++ {
		if IsCloseTab(JoinToken(dirs[i-1 : i+1])) {
			return true
		}
	}
	return false
}
