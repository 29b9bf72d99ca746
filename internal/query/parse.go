package query

import "strings"

// keyAliases maps the shorthand used in typed queries to criteria keys.
var keyAliases = map[string]string{
	"t":            KeyTitle,
	"title":        KeyTitle,
	"s":            KeyStatus,
	"stat":         KeyStatus,
	"status":       KeyStatus,
	"tier":         KeyTier,
	"p":            KeyPriority,
	"prio":         KeyPriority,
	"priority":     KeyPriority,
	"c":            KeyCreator,
	"creator":      KeyCreator,
	"collab":       KeyCollaborator,
	"collaborator": KeyCollaborator,
	"l":            KeyLabel,
	"label":        KeyLabel,
}

// Parse turns a typed query such as "c=alice s=!Done reactor" into Criteria.
// Tokens are whitespace separated. key=value tokens with an unknown key are
// dropped; a bare word becomes the title criterion, the last one winning.
func Parse(raw string) Criteria {
	c := Criteria{}
	for _, tok := range strings.Fields(raw) {
		key, val, ok := strings.Cut(tok, "=")
		if !ok {
			c[KeyTitle] = tok
			continue
		}
		if canonical, known := keyAliases[strings.ToLower(key)]; known {
			c[canonical] = val
		}
	}
	return c
}

// IsPageRequest reports whether raw is a bare page number, which re-uses a
// cached result instead of starting a new search.
func IsPageRequest(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	return strings.Trim(raw, "0123456789") == ""
}
