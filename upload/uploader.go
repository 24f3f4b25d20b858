package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"food-shorts-pipeline/config"
	"food-shorts-pipeline/sanitize"
	"food-shorts-pipeline/types"
)

// Uploader handles YouTube authentication and video upload via Data API v3
type Uploader struct {
	cfg *config.Config
}

// New creates a new Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Authenticate returns an authorized YouTube service. Credentials come from
// the client secrets file; the access token is cached on disk, and when no
// valid cache exists the user is walked through the browser consent flow
// against a local callback server.
func (u *Uploader) Authenticate(ctx context.Context) (*youtube.Service, error) {
	secrets, err := os.ReadFile(u.cfg.Paths.ClientSecrets)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	conf, err := google.ConfigFromJSON(secrets, youtube.YoutubeScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	token, err := tokenFromFile(u.cfg.Paths.TokenCache)
	if err != nil {
		token, err = tokenFromWeb(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("oauth consent flow: %w", err)
		}
		if err := saveToken(u.cfg.Paths.TokenCache, token); err != nil {
			log.Printf("[upload] Warning: could not cache token: %v", err)
		}
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}

// Upload sanitizes the keywords, builds the snippet, and performs a
// resumable upload of the video file. Returns the platform video ID.
func (u *Uploader) Upload(ctx context.Context, svc *youtube.Service, videoPath string, meta *types.VideoMetadata) (string, error) {
	tags := sanitize.Keywords(meta.Keywords)
	log.Printf("[upload] Original keywords count: %d", len(meta.Keywords))
	log.Printf("[upload] Cleaned keywords count: %d", len(tags))

	snippet := &youtube.VideoSnippet{
		Title:       meta.Title,
		Description: meta.Description,
		CategoryId:  u.cfg.Upload.CategoryID,
	}
	// Tags only go on the request when sanitization left something usable
	if len(tags) > 0 {
		snippet.Tags = tags
	}

	video := &youtube.Video{
		Snippet: snippet,
		Status:  &youtube.VideoStatus{PrivacyStatus: u.cfg.Upload.Privacy},
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] Uploading %q (%.1f MB)", meta.Title, float64(fi.Size())/1024/1024)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	log.Printf("[upload] ✅ Video uploaded successfully! Video ID: %s", uploaded.Id)
	log.Printf("[upload] Video URL: https://www.youtube.com/watch?v=%s", uploaded.Id)
	return uploaded.Id, nil
}

// tokenFromWeb runs the installed-app consent flow: start a loopback
// listener, send the user to the consent URL, and exchange the code that
// comes back on the redirect.
func tokenFromWeb(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer listener.Close()

	conf.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	codeCh := make(chan string, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorization received — you can close this tab.")
		codeCh <- code
	})}
	go srv.Serve(listener)
	defer srv.Shutdown(context.Background())

	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	log.Printf("[upload] Open this URL in your browser to authorize the upload:\n%s", authURL)

	var code string
	select {
	case code = <-codeCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return conf.Exchange(ctx, code)
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
