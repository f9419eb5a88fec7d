package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"posterlab/internal/infra"
	"posterlab/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		keyFlag   string
		clearFlag bool
	)
	flag.StringVar(&keyFlag, "key", "", "API credential to store (falls back to KIE_API_KEY)")
	flag.BoolVar(&clearFlag, "clear", false, "Remove the stored credential")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "credential").Logger()

	substrate, err := store.NewFileSubstrate(cfg.DataDir, cfg.DataQuotaBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open data directory: %v\n", err)
		os.Exit(1)
	}
	st := store.NewStore(store.Options{Substrate: substrate, Logger: &logger})

	if clearFlag {
		if !st.SaveCredential("") {
			fmt.Fprintln(os.Stderr, "failed to clear credential")
			os.Exit(1)
		}
		fmt.Println("credential cleared")
		return
	}

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("KIE_API_KEY"))
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "credential is required via -key or KIE_API_KEY")
		os.Exit(1)
	}

	if !st.SaveCredential(key) {
		fmt.Fprintln(os.Stderr, "failed to persist credential")
		os.Exit(1)
	}
	fmt.Println("credential stored")
}
