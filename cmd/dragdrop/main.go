package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/justyntemme/dragdrop/internal/app"
	"github.com/justyntemme/dragdrop/internal/config"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	cfgPath := flag.String("config", "", "Path to config.json or config.yaml (default ~/.config/dragdrop/config.json)")
	generate := flag.Bool("generate-config", false, "Write a fresh default config, backing up any existing one, and exit")
	flag.Parse()

	if *generate {
		backup, err := config.GenerateConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate config: %v\n", err)
			os.Exit(1)
		}
		if backup != "" {
			fmt.Printf("Existing config backed up to %s\n", backup)
		}
		fmt.Println("Default config written")
		return
	}

	// Handle OS-specific console visibility
	manageConsole(*debug)

	app.Main(*cfgPath, *debug)
}
