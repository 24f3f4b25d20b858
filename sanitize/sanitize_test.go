package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9 -]{3,30}$`)

func TestKeywordsCleansCharsetAndWhitespace(t *testing.T) {
	got := Keywords([]string{
		"  chocolate   cake  ",
		"#foodie!",
		"spicy-mango",
		"ASMR @ cooking",
	})
	assert.Equal(t, []string{"chocolate cake", "foodie", "spicy-mango", "ASMR cooking"}, got)
}

func TestKeywordsDropsShortAndEmpty(t *testing.T) {
	got := Keywords([]string{"", "   ", "ab", "!!", "ok?!", "ramen"})
	assert.Equal(t, []string{"ramen"}, got)
}

func TestKeywordsDedupesCaseInsensitive(t *testing.T) {
	got := Keywords([]string{"Boba Tea", "boba tea", "BOBA TEA", "matcha"})
	assert.Equal(t, []string{"Boba Tea", "matcha"}, got)
}

func TestKeywordsTruncatesLongEntries(t *testing.T) {
	long := strings.Repeat("a", 28) + " bcd" // 32 chars, cut lands after a space
	got := Keywords([]string{long})
	assert.Len(t, got, 1)
	assert.LessOrEqual(t, len(got[0]), 30)
	assert.Equal(t, strings.Repeat("a", 28)+" b", got[0])
}

func TestKeywordsCapsAtFifteen(t *testing.T) {
	var in []string
	for i := 0; i < 40; i++ {
		in = append(in, fmt.Sprintf("keyword%02d", i))
	}
	got := Keywords(in)
	assert.Len(t, got, 15)
	// order preserved: first 15 survive
	assert.Equal(t, "keyword00", got[0])
	assert.Equal(t, "keyword14", got[14])
}

func TestKeywordsOutputAlwaysCompliant(t *testing.T) {
	in := []string{
		"tasty & fresh!!", "日本食 sushi", "a", "   spaces    everywhere   ",
		"way-too-long-keyword-that-goes-on-and-on-forever", "Fresh", "fresh",
		"", "💖 dessert", "100% natural juice",
	}
	got := Keywords(in)
	assert.LessOrEqual(t, len(got), 15)
	seen := map[string]bool{}
	for _, k := range got {
		assert.Regexp(t, tagPattern, k)
		lower := strings.ToLower(k)
		assert.False(t, seen[lower], "duplicate tag %q", k)
		seen[lower] = true
	}
}

func TestFilenameStripsAndUnderscores(t *testing.T) {
	assert.Equal(t, "Spicy_Mango_Chili_Surprise", Filename("Spicy Mango & Chili!! Surprise"))
}

func TestFilenameTruncatesToFifty(t *testing.T) {
	got := Filename(strings.Repeat("a b ", 40))
	assert.LessOrEqual(t, len(got), 50)
	assert.NotContains(t, got, " ")
}

func TestFilenameAllPunctuation(t *testing.T) {
	assert.Equal(t, "", Filename("!!!???&&&"))
}
