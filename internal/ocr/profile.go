package ocr

// Profile is a named recognition configuration governing the engine's
// text-layout assumption. Profiles are tried in order; the first one
// producing non-empty output wins.
type Profile struct {
	// Name identifies the profile in config files and logs.
	Name string

	// PSM is the tesseract page segmentation mode the profile maps to.
	PSM int
}

var (
	// ProfileBlock assumes a uniform block of text (psm 6).
	ProfileBlock = Profile{Name: "block", PSM: 6}

	// ProfileLine assumes a single line of text (psm 7).
	ProfileLine = Profile{Name: "line", PSM: 7}

	// ProfileWord assumes a single word (psm 8).
	ProfileWord = Profile{Name: "word", PSM: 8}
)

// DefaultProfiles returns the standard fallback order: block, then line,
// then word. Layout assumptions materially affect accuracy on arbitrary
// images, so all three are tried rather than classifying layout first.
func DefaultProfiles() []Profile {
	return []Profile{ProfileBlock, ProfileLine, ProfileWord}
}

// ProfilesByName resolves config profile names into profiles, preserving
// order and skipping unknown names. Empty input yields the default order.
func ProfilesByName(names []string) []Profile {
	if len(names) == 0 {
		return DefaultProfiles()
	}

	known := map[string]Profile{
		ProfileBlock.Name: ProfileBlock,
		ProfileLine.Name:  ProfileLine,
		ProfileWord.Name:  ProfileWord,
	}

	var profiles []Profile
	for _, n := range names {
		if p, ok := known[n]; ok {
			profiles = append(profiles, p)
		}
	}
	if len(profiles) == 0 {
		return DefaultProfiles()
	}
	return profiles
}
