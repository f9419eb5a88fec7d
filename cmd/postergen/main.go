package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"posterlab/internal/domain"
	"posterlab/internal/infra"
	"posterlab/internal/provider/kie"
	"posterlab/internal/store"
	"posterlab/internal/themes"
)

func main() {
	_ = godotenv.Load()

	var (
		titleFlag  string
		themeFlag  string
		promptFlag string
		outFlag    string
		noSaveFlag bool
	)
	flag.StringVar(&titleFlag, "title", "", "Poster title (required)")
	flag.StringVar(&themeFlag, "theme", "animals", "Vocabulary theme key")
	flag.StringVar(&promptFlag, "prompt", "", "Override the generated prompt")
	flag.StringVar(&outFlag, "out", "", "Download the poster image to this path")
	flag.BoolVar(&noSaveFlag, "no-save", false, "Skip writing a history entry")
	flag.Parse()

	title := strings.TrimSpace(titleFlag)
	if title == "" {
		fmt.Fprintln(os.Stderr, "-title is required")
		os.Exit(1)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "postergen").Logger()

	substrate, err := store.NewFileSubstrate(cfg.DataDir, cfg.DataQuotaBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open data directory: %v\n", err)
		os.Exit(1)
	}
	st := store.NewStore(store.Options{
		Substrate:  substrate,
		Logger:     &logger,
		CacheLimit: cfg.CacheLimitBytes,
	})

	credential := cfg.KieAPIKey
	if stored, ok := st.LoadCredential(); ok {
		credential = stored
	}
	if credential == "" {
		fmt.Fprintln(os.Stderr, "credential is required via KIE_API_KEY or the credential command")
		os.Exit(1)
	}

	catalog, err := themes.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load themes: %v\n", err)
		os.Exit(1)
	}
	theme, ok := catalog.Get(themeFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n", themeFlag)
		os.Exit(1)
	}

	prompt := strings.TrimSpace(promptFlag)
	if prompt == "" {
		prompt = catalog.BuildPrompt(title, theme)
	}

	client := kie.NewClient(kie.Options{
		BaseURL:      cfg.KieBaseURL,
		Model:        cfg.KieModel,
		Logger:       &logger,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PollTimeout+time.Minute)
	defer cancel()

	result := client.GenerateImage(ctx, credential, prompt, domain.JobOptions{}, func(state domain.JobState, message string) {
		fmt.Printf("[%s] %s\n", state, message)
	})
	if !result.Success {
		fmt.Fprintf(os.Stderr, "generation failed: %s\n", result.Error)
		os.Exit(1)
	}

	fmt.Printf("poster ready: %s (%.1fs)\n", result.ImageURL, float64(result.GenerationTimeMS)/1000)

	if !noSaveFlag {
		entry, saved := st.AddToHistory(domain.HistoryEntry{
			Title:        title,
			Theme:        theme.Key,
			ThemeName:    theme.Name,
			ImageURL:     result.ImageURL,
			GenerationMS: result.GenerationTimeMS,
		})
		if saved {
			fmt.Printf("saved to history as %s\n", entry.ID)
		} else {
			fmt.Fprintln(os.Stderr, "warning: history entry not saved")
		}
	}

	if outFlag != "" {
		if err := download(ctx, result.ImageURL, outFlag); err != nil {
			fmt.Fprintf(os.Stderr, "download: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("image written to %s\n", outFlag)
	}
}

func download(ctx context.Context, imageURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
