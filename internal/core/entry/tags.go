package entry

import "fmt"

// Ungrounded tags tokens that belong to no alignment group.
const Ungrounded = "ungrounded"

// TaggedToken is a token annotated with the group it belongs to. Group is -1
// for ungrounded tokens.
type TaggedToken struct {
	Text  string `json:"text"`
	Tag   string `json:"tag"`
	Group int    `json:"group"`
}

// GroupTag returns the tag for the index-th mapping pair of line.
func GroupTag(line string, index int) string {
	return fmt.Sprintf("group-%s-%d", line, index)
}

// Tag derives per-token group tags for the source and target streams of one
// target language from its stored mapping. A token claimed by several pairs
// keeps the first one.
func Tag(line string, source []string, target Target) (src, tgt []TaggedToken) {
	src = untagged(source)
	tgt = untagged(target.Tokens)

	for i, p := range target.Mapping {
		tag := GroupTag(line, i)
		claim(src, p.A, tag, i)
		claim(tgt, p.B, tag, i)
	}
	return src, tgt
}

func untagged(texts []string) []TaggedToken {
	out := make([]TaggedToken, len(texts))
	for i, t := range texts {
		out[i] = TaggedToken{Text: t, Tag: Ungrounded, Group: -1}
	}
	return out
}

func claim(toks []TaggedToken, g Group, tag string, group int) {
	for _, idx := range g {
		if idx < 0 || idx >= len(toks) || toks[idx].Group >= 0 {
			continue
		}
		toks[idx].Tag = tag
		toks[idx].Group = group
	}
}
