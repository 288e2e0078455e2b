// Command polarwatch uploads a set of favorite files to a connected Polar
// watch over its USB PFTP interface, replacing the contents of the
// favorites directory wholesale. It takes no file-open dialog; paths are
// given on the command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/gousb"

	"github.com/guiperry/polarwatch/internal/config"
	"github.com/guiperry/polarwatch/internal/discovery"
	"github.com/guiperry/polarwatch/internal/pftp"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Polar Watch favorites uploader\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file [file...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Each file becomes one favorite slot, in the order given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Println("polarwatch: no favorite files given")
		flag.Usage()
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "polarwatch: ", log.LstdFlags)

	if err := run(logger, paths); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(logger *log.Logger, paths []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	files := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, data)
	}

	ctx := gousb.NewContext()
	defer ctx.Close()

	opts := discovery.FromConfig(cfg)
	opts.Logger = logger

	session, err := discovery.FindOne(ctx, opts)
	if err != nil {
		return fmt.Errorf("connecting to watch: %w", err)
	}
	defer session.Close()

	client := pftp.New(session, logger)
	logger.Printf("uploading %d favorite(s)", len(files))
	if err := client.UploadFavorites(files); err != nil {
		return fmt.Errorf("uploading favorites: %w", err)
	}

	logger.Printf("upload complete")
	return nil
}
