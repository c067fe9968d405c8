// Command meetstream runs the meeting transcription service: audio uploads,
// concurrent transcription and diarization, summarization, and SSE delivery
// of the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsenselab/meetstream/internal/api"
	"github.com/skillsenselab/meetstream/internal/config"
	"github.com/skillsenselab/meetstream/internal/inference"
	"github.com/skillsenselab/meetstream/internal/inference/fixture"
	"github.com/skillsenselab/meetstream/internal/inference/llmsum"
	"github.com/skillsenselab/meetstream/internal/inference/pyannote"
	"github.com/skillsenselab/meetstream/internal/inference/whisper"
	"github.com/skillsenselab/meetstream/internal/logger"
	"github.com/skillsenselab/meetstream/internal/processing"
	"github.com/skillsenselab/meetstream/internal/storage"
	"github.com/skillsenselab/meetstream/internal/store"
	"github.com/skillsenselab/meetstream/internal/stream"
	"github.com/skillsenselab/meetstream/internal/transcript"

	// Register storage backends.
	_ "github.com/skillsenselab/meetstream/internal/storage/local"
	_ "github.com/skillsenselab/meetstream/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "meetstream: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "path to config.yml")
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	var opts []config.Option
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return err
	}

	log := logger.New(&cfg.Logger, cfg.Base.Name)
	logger.SetGlobalLogger(log)

	db, err := store.Open(cfg.Store, log)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	audio, err := storage.New(cfg.Storage, log)
	if err != nil {
		return err
	}

	clients, err := buildClients(cfg.Inference)
	if err != nil {
		return err
	}

	meetings := store.NewMeetingRepository(db)
	fragments := store.NewFragmentRepository(db)
	coordinator := store.NewCoordinator(db, log)
	processor := processing.NewProcessor(clients, log)
	service := transcript.NewService(processor, meetings, coordinator, audio, log)
	controller := stream.NewController(cfg.Stream.HeartbeatInterval, cfg.Stream.IdleTimeout, log)

	meetingHandler := api.NewMeetingHandler(meetings, fragments, audio, service, clients, controller, cfg.Server.MaxUploadBytes, log)
	healthHandler := api.NewHealthHandler(db, clients)

	engine := api.NewRouter(log, meetingHandler, healthHandler)
	server := api.NewServer(cfg.Server, engine, log)

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-stop:
		log.Info("signal received, shutting down", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	return <-errc
}

// buildClients selects the inference backends: real HTTP services or canned
// fixtures for local development.
func buildClients(cfg config.Inference) (inference.Clients, error) {
	if cfg.Mode == config.InferenceModeFixture {
		return fixture.NewClients(cfg.Fixture), nil
	}

	summarizer, err := llmsum.NewSummarizer(cfg.LLM)
	if err != nil {
		return inference.Clients{}, err
	}
	return inference.Clients{
		Transcriber: whisper.NewClient(cfg.Whisper),
		Diarizer:    pyannote.NewClient(cfg.Pyannote),
		Summarizer:  summarizer,
	}, nil
}
