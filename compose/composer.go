package compose

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/mowshon/moviego"
)

// Composer overlays a background music track onto a generated video. It is
// deliberately failure-tolerant: any problem during probing, mixing, or
// encoding is logged and the original video path is returned, so the
// pipeline can publish the clip without music instead of aborting.
type Composer struct {
	MusicVolume    float64 // relative level of the background track
	OriginalVolume float64 // relative level of the video's own audio
}

// New creates a Composer with the stock volume balance
func New(musicVolume, originalVolume float64) *Composer {
	return &Composer{MusicVolume: musicVolume, OriginalVolume: originalVolume}
}

// Compose writes videoPath + musicPath mixed into outPath and returns
// outPath. The music is trimmed to the video's duration and attenuated; if
// the video carries its own audio it is mixed in at OriginalVolume. The
// video stream is copied untouched, so aspect ratio and duration are
// preserved. On any failure the original videoPath is returned unchanged.
func (c *Composer) Compose(ctx context.Context, videoPath, musicPath, outPath string) string {
	if _, err := os.Stat(musicPath); err != nil {
		log.Printf("[compose] Music track unavailable: %v — using video as-is", err)
		return videoPath
	}

	if _, err := safeLoad(videoPath); err != nil {
		log.Printf("[compose] Could not load video %s: %v — using video as-is", videoPath, err)
		return videoPath
	}

	duration, err := probeDuration(videoPath)
	if err != nil {
		log.Printf("[compose] Could not probe video duration: %v — using video as-is", err)
		return videoPath
	}

	filter := c.buildFilter(duration, hasAudioStream(videoPath))

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-i", musicPath,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outPath,
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		log.Printf("[compose] ffmpeg mix failed: %v — using video as-is", err)
		return videoPath
	}
	if _, err := os.Stat(outPath); err != nil {
		log.Printf("[compose] ffmpeg produced no output: %v — using video as-is", err)
		return videoPath
	}

	log.Println("[compose] ✅ Music added — video aspect ratio preserved")
	return outPath
}

// buildFilter trims and attenuates the music, mixing in the original audio
// track when the source video has one
func (c *Composer) buildFilter(videoDuration float64, withOriginalAudio bool) string {
	if withOriginalAudio {
		return fmt.Sprintf(
			"[1:a]atrim=0:%.3f,volume=%.2f[music];"+
				"[0:a]volume=%.2f[orig];"+
				"[orig][music]amix=inputs=2:duration=first:normalize=0[aout]",
			videoDuration, c.MusicVolume, c.OriginalVolume,
		)
	}
	return fmt.Sprintf("[1:a]atrim=0:%.3f,volume=%.2f[aout]", videoDuration, c.MusicVolume)
}

// safeLoad wraps moviego.Load to catch panics from the library
func safeLoad(path string) (vid moviego.Video, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("moviego.Load panicked: %v", r)
		}
	}()
	vid, err = moviego.Load(path)
	return
}

func probeDuration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}

// hasAudioStream reports whether the video carries its own audio track
func hasAudioStream(path string) bool {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}
