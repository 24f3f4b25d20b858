package metadata

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"food-shorts-pipeline/types"
)

const (
	maxTitleChars       = 100
	maxDescriptionChars = 4500
	maxKeywords         = 40
)

// ParseError is returned when every parsing strategy has been exhausted.
// It carries each strategy's failure and the raw model response so a bad
// generation can be diagnosed from the logs alone.
type ParseError struct {
	Causes []error
	Raw    string
}

func (e *ParseError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("all metadata parsing strategies failed: %s\nraw metadata:\n%s",
		strings.Join(msgs, "; "), e.Raw)
}

var fenceRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// Parse extracts {title, description, keywords} from a model response that
// wraps the metadata in a ```json ... ``` fence. Three strategies are tried
// in decreasing order of strictness:
//  1. parse the fenced block as-is
//  2. collapse whitespace and escape stray interior quotes, then reparse
//  3. pull the fields out individually with regexes
func Parse(raw string) (*types.VideoMetadata, error) {
	text := strings.TrimSpace(raw)

	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, &ParseError{
			Causes: []error{fmt.Errorf("no ```json code block found")},
			Raw:    raw,
		}
	}
	jsonStr := strings.TrimSpace(m[1])

	meta, strictErr := parseStrict(jsonStr)
	if strictErr == nil {
		return normalize(meta), nil
	}

	meta, repairErr := parseRepaired(jsonStr)
	if repairErr == nil {
		return normalize(meta), nil
	}

	meta, manualErr := parseManual(jsonStr)
	if manualErr == nil {
		return normalize(meta), nil
	}

	return nil, &ParseError{
		Causes: []error{
			fmt.Errorf("strict: %w", strictErr),
			fmt.Errorf("repair: %w", repairErr),
			fmt.Errorf("manual: %w", manualErr),
		},
		Raw: raw,
	}
}

// rawMetadata defers keyword decoding: models sometimes return the array as
// a single string instead of a JSON list
type rawMetadata struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Keywords    json.RawMessage `json:"keywords"`
}

func parseStrict(jsonStr string) (*types.VideoMetadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, err
	}
	keywords, err := decodeKeywords(raw.Keywords)
	if err != nil {
		return nil, err
	}
	return &types.VideoMetadata{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Keywords:    keywords,
	}, nil
}

// decodeKeywords accepts a JSON list, a string holding a list literal, or a
// comma-separated string
func decodeKeywords(msg json.RawMessage) ([]string, error) {
	if len(msg) == 0 {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(msg, &list); err == nil {
		return cleanKeywordStrings(list), nil
	}

	var single string
	if err := json.Unmarshal(msg, &single); err != nil {
		return nil, fmt.Errorf("keywords is neither a list nor a string")
	}
	single = strings.TrimSpace(single)

	if strings.HasPrefix(single, "[") {
		if err := json.Unmarshal([]byte(single), &list); err == nil {
			return cleanKeywordStrings(list), nil
		}
		// single-quoted list literal: drop the brackets and comma-split;
		// cleanKeywordStrings strips the per-item quotes
		single = strings.Trim(single, "[]")
	}
	return cleanKeywordStrings(strings.Split(single, ",")), nil
}

func cleanKeywordStrings(in []string) []string {
	var out []string
	for _, k := range in {
		k = strings.TrimSpace(k)
		k = strings.Trim(k, `"'`)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

var (
	newlineRunRe = regexp.MustCompile(`\s*\n\s*`)
	wsRunRe      = regexp.MustCompile(`\s+`)
)

// parseRepaired collapses all whitespace to single spaces, escapes interior
// quotes the model forgot to escape, and retries the strict parse
func parseRepaired(jsonStr string) (*types.VideoMetadata, error) {
	clean := newlineRunRe.ReplaceAllString(jsonStr, " ")
	clean = wsRunRe.ReplaceAllString(clean, " ")
	clean = escapeUnescapedQuotes(clean)
	return parseStrict(clean)
}

// escapeUnescapedQuotes walks the text tracking whether we are inside a
// string span. A quote inside a span is taken as the closing quote only when
// the next non-space character could follow a string in JSON (: , } ] or
// another quote); otherwise it is an unescaped interior quote and gets
// escaped. Already-escaped quotes are left intact.
func escapeUnescapedQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '"' {
			b.WriteByte(c)
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			b.WriteByte(c)
			continue
		}
		if !inString {
			inString = true
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j >= len(s) || s[j] == ':' || s[j] == ',' || s[j] == '}' || s[j] == ']' || s[j] == '"' {
			inString = false
			b.WriteByte(c)
		} else {
			b.WriteString(`\"`)
		}
	}
	return b.String()
}

var (
	titleRe       = regexp.MustCompile(`"title":\s*"([^"]*(?:\\"[^"]*)*)"`)
	descriptionRe = regexp.MustCompile(`"description":\s*"([^"]*(?:\\"[^"]*)*)"`)
	keywordsRe    = regexp.MustCompile(`(?s)"keywords":\s*\[(.*?)\]`)
	quotedItemRe  = regexp.MustCompile(`"([^"]*)"`)
)

// parseManual is the last resort: independent regex extraction of each field
// directly from the fenced text. An absent keywords array yields an empty
// list; absent title and description mean there is nothing to salvage.
func parseManual(jsonStr string) (*types.VideoMetadata, error) {
	var title, description string

	if m := titleRe.FindStringSubmatch(jsonStr); m != nil {
		title = strings.ReplaceAll(m[1], `\"`, `"`)
	}
	if m := descriptionRe.FindStringSubmatch(jsonStr); m != nil {
		description = strings.ReplaceAll(m[1], `\"`, `"`)
		description = strings.ReplaceAll(description, `\n`, "\n")
	}
	if title == "" && description == "" {
		return nil, fmt.Errorf("no title or description field found")
	}

	var keywords []string
	if m := keywordsRe.FindStringSubmatch(jsonStr); m != nil {
		for _, item := range quotedItemRe.FindAllStringSubmatch(m[1], -1) {
			if k := strings.TrimSpace(item[1]); k != "" {
				keywords = append(keywords, k)
			}
		}
	}

	log.Printf("[metadata] Manual extraction succeeded: %d keywords found", len(keywords))
	return &types.VideoMetadata{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Keywords:    keywords,
	}, nil
}

// normalize enforces YouTube limits regardless of which strategy produced
// the metadata
func normalize(meta *types.VideoMetadata) *types.VideoMetadata {
	if cut, ok := truncateRunes(meta.Description, maxDescriptionChars); ok {
		meta.Description = cut
		log.Printf("[metadata] Description truncated to %d characters", maxDescriptionChars)
	}
	if cut, ok := truncateRunes(meta.Title, maxTitleChars); ok {
		meta.Title = cut
		log.Printf("[metadata] Title truncated to %d characters: %s", maxTitleChars, meta.Title)
	}
	if n := len(meta.Keywords); n < 30 || n > 50 {
		log.Printf("[metadata] Warning: keywords count is %d, expected 30-50", n)
	}
	if len(meta.Keywords) > maxKeywords {
		meta.Keywords = meta.Keywords[:maxKeywords]
		log.Printf("[metadata] Keywords limited to %d items", maxKeywords)
	}
	return meta
}

// truncateRunes cuts s to max characters (not bytes, so multibyte text is
// never split mid-rune), appending a truncation marker when cut
func truncateRunes(s string, max int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	return string(runes[:max-3]) + "...", true
}
