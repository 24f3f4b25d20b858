package types

// VideoScript pairs a generated food item with the scene-by-scene prompt
// that gets sent verbatim to the video generation model
type VideoScript struct {
	FoodItem    string `json:"food_item"`
	ScenePrompt string `json:"scene_prompt"`
}

// VideoMetadata holds all YouTube upload metadata for one video
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID        string         `json:"run_id"`
	StartedAt    string         `json:"started_at"`
	CompletedAt  string         `json:"completed_at"`
	FoodItem     string         `json:"food_item"`
	ScenePrompt  string         `json:"scene_prompt"`
	MusicTrack   string         `json:"music_track"`
	Metadata     *VideoMetadata `json:"metadata"`
	VideoFile    string         `json:"video_file"`
	ComposedFile string         `json:"composed_file"`
	YouTubeID    string         `json:"youtube_id"`
	YouTubeURL   string         `json:"youtube_url"`
	Error        string         `json:"error,omitempty"`
}
