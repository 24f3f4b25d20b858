package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"food-shorts-pipeline/types"
)

var (
	// ErrMissingFoodItem means the model response lacked the "Food Item:" marker
	ErrMissingFoodItem = errors.New("failed to extract food item from model response")
	// ErrDuplicateFoodItem means the model proposed an item already in the history
	ErrDuplicateFoodItem = errors.New("generated food item is already used")
)

const ideaPrompt = `Suggest a unique food or drink item that has not been used before, and generate a vibrant, high-engagement 8-second short-form video idea for making that item, designed for Instagram Reels, TikTok, or YouTube Shorts. The video should follow this format:

The video features a recurring mascot character (e.g., a quirky yellow cat chef named "Zesty"), who helps prepare the item in a fun, fast-paced, and visually playful way.

Include 3 to 4 fast cuts or sequences, each no more than 2 seconds, that show key stages of the preparation: pouring, layering, mixing, topping, or serving.

Use specific camera angles (e.g., top-down, macro, slow-motion, side-shot) and sound design elements (e.g., ASMR splashes, crunches, upbeat music, or cartoon SFX like a "meow" or "boing").

Suggest lighting style (natural, warm, vibrant) and color/sensory appeal (e.g., creamy, bubbly, sizzling, melty).

End with a hero shot of the finished dish or drink being presented by the character with a cheeky action (like a wink, tail flick, or dance), plus overlay text and a catchy sound.

Make sure the video is full of energy, charm, and irresistible food visuals, all within an 8-second runtime. Output the food item first, followed by the video prompt in this structure:

Food Item: <unique food or drink item>
[0.0s–2s] → [Scene Description + Angle/Sound/Action]
[2s–4s] → [Scene Description + Angle/Sound/Action]
[4s–6s] → [Scene Description + Angle/Sound/Action]
[6s–8s] → [Final Scene + Overlay Text + Mascot Gag + Sound Effect]

Ensure the suggested food item is not in this list of previously used items: %s`

// GenerateIdea asks Gemini for a fresh food concept and scene script,
// embedding the full history of used items as exclusion context
func (c *Client) GenerateIdea(ctx context.Context, used []string) (string, error) {
	exclusions := "[]"
	if len(used) > 0 {
		exclusions = "[" + strings.Join(used, ", ") + "]"
	}
	return c.generate(ctx, fmt.Sprintf(ideaPrompt, exclusions), c.cfg.IdeaMaxTokens)
}

var foodItemRe = regexp.MustCompile(`(?is)Food Item:\s*(.+?)(?:\[0\.0s|$)`)

// ParseIdea extracts the food item and scene script from the idea response.
// The item sits between the literal "Food Item:" marker and the first
// "[0.0s" timestamp; everything from that timestamp on is the scene script.
// An absent marker or an already-used item is a hard stop, not a retry.
func ParseIdea(raw string, used []string) (*types.VideoScript, error) {
	text := strings.TrimSpace(raw)

	loc := foodItemRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, ErrMissingFoodItem
	}

	foodItem := strings.TrimSpace(text[loc[2]:loc[3]])
	if foodItem == "" {
		return nil, ErrMissingFoodItem
	}
	if lo.Contains(used, foodItem) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateFoodItem, foodItem)
	}

	return &types.VideoScript{
		FoodItem:    foodItem,
		ScenePrompt: strings.TrimSpace(text[loc[3]:]),
	}, nil
}
