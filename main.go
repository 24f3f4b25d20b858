package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"food-shorts-pipeline/compose"
	"food-shorts-pipeline/config"
	"food-shorts-pipeline/gemini"
	"food-shorts-pipeline/history"
	"food-shorts-pipeline/metadata"
	"food-shorts-pipeline/music"
	"food-shorts-pipeline/sanitize"
	"food-shorts-pipeline/types"
	"food-shorts-pipeline/upload"
	"food-shorts-pipeline/veo"
)

func main() {
	// Load .env (local dev only)
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure the output folder exists
	if err := os.MkdirAll(cfg.Paths.Output, 0755); err != nil {
		log.Fatalf("Failed to create output folder %s: %v", cfg.Paths.Output, err)
	}

	runID := uuid.NewString()[:8]
	log.Printf("🍜 Food Shorts Pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", cfg.Paths.Output)

	ctx := context.Background()
	state := &types.PipelineState{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// Save state on exit
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(filepath.Join(cfg.Paths.Output, fmt.Sprintf("run_%s.json", runID)), state)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
			log.Printf("Generated files remain in: %s", cfg.Paths.Output)
			os.Exit(1)
		}
		log.Printf("✅ Pipeline complete! Video: %s", state.YouTubeURL)
	}()

	store := history.NewStore(cfg.Paths.HistoryFile)
	used, err := store.Load()
	if err != nil {
		state.Error = fmt.Sprintf("Load history: %v", err)
		return
	}

	textClient, err := gemini.NewClient(ctx, &cfg.Gemini)
	if err != nil {
		state.Error = fmt.Sprintf("Gemini client: %v", err)
		return
	}
	defer textClient.Close()

	// ─────────────────────────────────────────────
	// STAGE 1: Food idea + scene script
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 1: Food Idea ━━━")
	ideaText, err := textClient.GenerateIdea(ctx, used)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 1 Idea: %v", err)
		return
	}
	script, err := gemini.ParseIdea(ideaText, used)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 1 Idea: %v", err)
		return
	}
	state.FoodItem = script.FoodItem
	state.ScenePrompt = script.ScenePrompt
	log.Printf("[idea] Selected food item: %s", script.FoodItem)

	// ─────────────────────────────────────────────
	// STAGE 2: History commit
	// ─────────────────────────────────────────────
	// Persist the item before anything downstream so a later failure cannot
	// cause the same item to be reused on the next run
	if err := store.AppendIfNew(script.FoodItem); err != nil {
		state.Error = fmt.Sprintf("Stage 2 History: %v", err)
		return
	}

	// ─────────────────────────────────────────────
	// STAGE 3: Music selection
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 3: Music Selection ━━━")
	selector := music.NewSelector(cfg.Paths.MusicDir)
	musicFile, ok := selector.Pick()
	if ok {
		log.Printf("[music] Selected track: %s", filepath.Base(musicFile))
	} else {
		// Existence is deferred to the composer, which tolerates a bad path
		musicFile = cfg.Music.DefaultTrack
		log.Printf("[music] No track available — falling back to %s", musicFile)
	}
	state.MusicTrack = musicFile

	// ─────────────────────────────────────────────
	// STAGE 4: Metadata generation
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 4: Metadata ━━━")
	metaText, err := textClient.GenerateMetadata(ctx, script.FoodItem, script.ScenePrompt)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 4 Metadata: %v", err)
		return
	}
	meta, err := metadata.Parse(metaText)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 4 Metadata: %v", err)
		return
	}
	state.Metadata = meta
	log.Printf("[metadata] Title: %q (%d keywords)", meta.Title, len(meta.Keywords))

	// ─────────────────────────────────────────────
	// STAGE 5: Video generation (Veo)
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 5: Video Generation ━━━")
	baseName := sanitize.Filename(script.FoodItem)
	videoFile := filepath.Join(cfg.Paths.Output,
		fmt.Sprintf("%s_%s.mp4", baseName, uuid.NewString()[:8]))

	veoClient, err := veo.NewClient(&cfg.Veo)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 5 Video: %v", err)
		return
	}
	opName, err := veoClient.Generate(ctx, script.ScenePrompt)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 5 Video: %v", err)
		return
	}
	videoURI, err := veoClient.Await(ctx, opName)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 5 Video: %v", err)
		return
	}
	if err := veoClient.Download(ctx, videoURI, videoFile); err != nil {
		state.Error = fmt.Sprintf("Stage 5 Video: %v", err)
		return
	}
	state.VideoFile = videoFile
	log.Printf("[veo] ✅ Video generation complete. Saved to: %s", videoFile)

	// ─────────────────────────────────────────────
	// STAGE 6: Music composition
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 6: Music Composition ━━━")
	composedFile := filepath.Join(cfg.Paths.Output,
		fmt.Sprintf("%s_with_music_%s.mp4", baseName, uuid.NewString()[:8]))
	composer := compose.New(cfg.Music.Volume, cfg.Music.OriginalVolume)
	finalVideo := composer.Compose(ctx, videoFile, musicFile, composedFile)
	state.ComposedFile = finalVideo

	// ─────────────────────────────────────────────
	// STAGE 7: YouTube upload
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 7: YouTube Upload ━━━")
	uploader := upload.New(cfg)
	svc, err := uploader.Authenticate(ctx)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 7 Auth: %v", err)
		return
	}
	videoID, err := uploader.Upload(ctx, svc, finalVideo, meta)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 7 Upload: %v", err)
		return
	}
	state.YouTubeID = videoID
	state.YouTubeURL = fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
