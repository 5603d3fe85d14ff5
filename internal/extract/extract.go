// Package extract implements the ordered rule cascade that pulls a red-packet
// password out of post text.
package extract

import (
	"regexp"
	"strings"
)

// token is the character class a password may consist of: ASCII letters,
// digits, underscore, and CJK ideographs. RE2 has no lookahead, so each rule
// captures a maximal run over this class; the run stops at the first rune
// outside it (or end of text), which bounds the capture against trailing
// punctuation and URL tails.
const token = `[a-z0-9_\x{4e00}-\x{9fa5}]`

// Rule pairs a descriptive name with a compiled pattern whose first capture
// group is the password candidate.
type Rule struct {
	Name string
	re   *regexp.Regexp
}

// rules are tried strictly in order; the first rule whose capture survives the
// denylist wins and no later rule is consulted.
var rules = []Rule{
	{"keyword colon", regexp.MustCompile(`(?:口令是|口令|password)\s*:\s*(` + token + `+)`)},
	{"alipay colon", regexp.MustCompile(`支付宝\s*:\s*(` + token + `+)`)},
	{"bracketed", regexp.MustCompile(`(?:口令|密码)\s*[「（【]\s*(` + token + `+)\s*[」）】]`)},
	{"phrase colon", regexp.MustCompile(`口令红包.*?\s*:\s*(` + token + `+)`)},
	{"keyword digits", regexp.MustCompile(`支付宝口令红包\s*([0-9]{6,})`)},
	{"bare long number", regexp.MustCompile(`^\s*([0-9]{8,})\s*$`)},
}

// denylist holds generic words that look like captures but mean "already
// sent", "DM me", or just "red packet" itself.
var denylist = map[string]struct{}{
	"红包": {},
	"私信": {},
	"已发": {},
}

// Password scans text with the rule cascade and returns the extracted
// password. The second return is false when no rule produced an acceptable
// capture. A denylisted capture disqualifies only the rule that produced it;
// evaluation continues with the next rule.
func Password(text string) (string, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(text, "：", ":"))

	for _, r := range rules {
		m := r.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if _, banned := denylist[candidate]; banned {
			continue
		}
		return candidate, true
	}
	return "", false
}
