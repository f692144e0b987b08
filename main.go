package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/stevecastle/parallax/appconfig"
	"github.com/stevecastle/parallax/depthnet"
	"github.com/stevecastle/parallax/ffmpeg"
	"github.com/stevecastle/parallax/framestore"
	"github.com/stevecastle/parallax/pipeline"
	"github.com/stevecastle/parallax/progress"
	"github.com/stevecastle/parallax/runlog"
)

func main() {
	in := flag.String("in", "", "source video to convert")
	out := flag.String("out", "", "destination for the side-by-side video (default: workspace out.mp4)")
	fps := flag.Int("fps", 0, "target frame rate (1-30, 0 uses config)")
	maxWidth := flag.Int("max-width", 0, "maximum frame width in pixels (240-1920, 0 uses config)")
	strength := flag.Int("strength", 0, "disparity strength in pixels (1-40, 0 uses config)")
	maxFrames := flag.Int("max-frames", 0, "maximum frames to process (1-9999, 0 uses config)")
	modelPath := flag.String("model", "", "path to the depth model (.onnx)")
	ortLib := flag.String("ort-lib", "", "path to the onnxruntime shared library")
	ffmpegPath := flag.String("ffmpeg", "", "path to the ffmpeg binary (default: search PATH)")
	workDir := flag.String("work-dir", "", "workspace directory for intermediate frames")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	listRuns := flag.Int("runs", 0, "list the N most recent runs and exit")
	flag.Parse()

	cfg, cfgPath, err := appconfig.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("config loaded from %s", cfgPath)

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	history, err := runlog.New(db)
	if err != nil {
		log.Fatalf("run history: %v", err)
	}

	if *listRuns > 0 {
		printRuns(history, *listRuns)
		return
	}
	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: parallax -in <video> [-out <video>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Flag overrides on top of the stored config
	if *ffmpegPath != "" {
		cfg.FFmpegPath = *ffmpegPath
	}
	if *modelPath != "" {
		cfg.DepthModel.ModelPath = *modelPath
	}
	if *ortLib != "" {
		cfg.DepthModel.ORTSharedLibraryPath = *ortLib
	}
	if *workDir != "" {
		cfg.WorkDir = *workDir
	}
	runCfg := pipeline.Config{
		TargetFPS:           cfg.Pipeline.TargetFps,
		MaxFrameWidth:       cfg.Pipeline.MaxFrameWidth,
		DisparityStrengthPx: cfg.Pipeline.DisparityStrengthPx,
		MaxFrames:           cfg.Pipeline.MaxFrames,
	}
	if *fps > 0 {
		runCfg.TargetFPS = *fps
	}
	if *maxWidth > 0 {
		runCfg.MaxFrameWidth = *maxWidth
	}
	if *strength > 0 {
		runCfg.DisparityStrengthPx = *strength
	}
	if *maxFrames > 0 {
		runCfg.MaxFrames = *maxFrames
	}

	depthOpts := depthnet.DefaultOptions()
	depthOpts.ModelPath = cfg.DepthModel.ModelPath
	depthOpts.ORTSharedLibraryPath = cfg.DepthModel.ORTSharedLibraryPath
	if cfg.DepthModel.Backend != "" {
		depthOpts.Backend = cfg.DepthModel.Backend
	}
	if nc, err := depthnet.LoadNetworkConfig(cfg.DepthModel.ConfigPath); err == nil {
		nc.ApplyToOptions(&depthOpts)
	} else if !os.IsNotExist(err) {
		log.Printf("model config: %v", err)
	}

	codec := &ffmpeg.Engine{PathOverride: cfg.FFmpegPath}
	depth := depthnet.New(depthOpts)
	defer depth.Close()
	store := framestore.New(cfg.WorkDir)

	broker := progress.NewBroker()
	events, cancelSub := broker.Subscribe()
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		for ev := range events {
			if *quiet {
				continue
			}
			switch ev.Type {
			case "progress":
				fmt.Fprintf(os.Stderr, "\rprogress %s", ev.Msg)
			case "status":
				fmt.Fprintf(os.Stderr, "\n%s\n", ev.Msg)
			default:
				log.Printf("%s", ev.Msg)
			}
		}
	}()

	orch := pipeline.New(pipeline.Options{
		Codec:   codec,
		Depth:   depth,
		Store:   store,
		Sink:    progress.Sink{Broker: broker},
		History: history,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := orch.Run(ctx, *in, runCfg)
	cancelSub()
	<-printerDone
	if err != nil {
		log.Fatalf("conversion failed: %v", err)
	}

	dest := *out
	if dest == "" {
		dest = result.OutputPath
	} else if err := os.WriteFile(dest, result.Video, 0644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("run %s complete: %d frames, output %s", result.RunID, result.FramesProcessed, dest)
}

func printRuns(history *runlog.Store, limit int) {
	runs, err := history.List(limit)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-10s  %s  %s", r.CreatedAt.Format("2006-01-02 15:04:05"), r.State, r.ID, r.Source)
		if r.Error != "" {
			line += "  (" + r.Error + ")"
		}
		fmt.Println(line)
	}
}
