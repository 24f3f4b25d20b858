package gemini

import (
	"context"
	"fmt"
)

const metadataPrompt = `Based on the following video prompt, generate comprehensive SEO-optimized YouTube video metadata for an 8-second video about making %s with a quirky mascot character named Zesty.

CRITICAL REQUIREMENTS:
- Include AT LEAST 15 hashtags in the description
- Generate EXACTLY 40 keywords for maximum SEO coverage
- Description must be engaging and include call-to-action
- Title must be under 100 characters and keyword-rich
- NO APOSTROPHES in title or description (use alternative phrasing)
- Use proper JSON escape sequences for any special characters

Provide the metadata EXCLUSIVELY as a valid JSON object within ` + "```json ... ```" + `. Do NOT include any text outside the ` + "```json ... ```" + ` block. Use this exact structure with DOUBLE QUOTES only and NO APOSTROPHES:

` + "```json" + `
{
    "title": "engaging title here without apostrophes, max 100 characters, keyword-rich",
    "description": "engaging description with AT LEAST 15 hashtags, call-to-action, max 4500 characters, NO APOSTROPHES",
    "keywords": ["keyword1", "keyword2", "keyword3", "...", "keyword40"]
}
` + "```" + `

Make sure:
- ALL quotes are DOUBLE quotes (") and NO APOSTROPHES anywhere
- Instead of "Zesty's" use "Zesty the Cat" or "Zesty Cat Chef"
- Instead of "It's" use "It is" or "This is"
- Instead of "Don't" use "Do not"
- Description includes 15+ hashtags like #FoodHacks #Cooking #Recipe #DIY #Shorts #Viral #Trending #Food #Yummy #Delicious #HomeCooking #FoodPrep #QuickRecipes #EasyRecipes #FoodVideo
- Keywords cover: food name, cooking terms, social media terms, trending food hashtags, cooking techniques, ingredients, food categories, and viral food trends
- JSON is perfectly formatted and valid with no apostrophes
- Description is engaging and includes clear call-to-action like "Try this recipe!" or "Follow for more!"

Video prompt: %s`

// GenerateMetadata asks Gemini for SEO metadata under a strict fenced-JSON
// formatting contract. The raw response goes to the metadata parser.
func (c *Client) GenerateMetadata(ctx context.Context, foodItem, scenePrompt string) (string, error) {
	prompt := fmt.Sprintf(metadataPrompt, foodItem, scenePrompt)
	return c.generate(ctx, prompt, c.cfg.MetadataMaxTokens)
}
