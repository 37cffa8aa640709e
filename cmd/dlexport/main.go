// Command dlexport draws a YAML scene through an immediate-mode draw list
// and exports the reconstructed vector scene.
//
// Usage:
//
//	dlexport [-config export.yaml] [-o plot.svg] [-preview plot.png] scene.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/dlexport"
	"github.com/gogpu/dlexport/export"
)

func main() {
	var (
		configPath = flag.String("config", "", "export config file (YAML)")
		output     = flag.String("o", "", "output file, overrides the config")
		backend    = flag.String("backend", "", "serializer name, overrides the config")
		preview    = flag.String("preview", "", "PNG preview file, overrides the config")
		verbose    = flag.Bool("v", false, "log pipeline statistics")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scene.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	dlexport.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := export.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = export.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *preview != "" {
		cfg.Preview = *preview
	}

	doc, err := run(flag.Arg(0), cfg)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	st := doc.Stats
	log.Printf("Exported %s with %s: %d commands, %d polygons, %d text runs, %d images\n",
		cfg.Output, doc.Backend, st.Commands, st.Polygons, st.Runs, st.Images)
}

// run draws the scene and exports it the way a host application would:
// request, begin the frame, draw, end the frame.
func run(scenePath string, cfg export.Config) (*export.Document, error) {
	scene, err := LoadScene(scenePath)
	if err != nil {
		return nil, err
	}
	dl, atlas, textures, err := scene.Build()
	if err != nil {
		return nil, err
	}

	exp := export.New(
		export.WithConfig(cfg),
		export.WithAtlas(atlas),
		export.WithTextures(textures),
	)

	const surface = "scene"
	exp.Request(surface)
	exp.BeginFrame(surface)
	return exp.EndFrame(surface, dl)
}
