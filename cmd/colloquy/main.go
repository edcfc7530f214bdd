// Copyright 2026 Lucerna Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lucerna/colloquy"
	"github.com/lucerna/colloquy/ai"
	"github.com/lucerna/colloquy/ingest"
	"github.com/lucerna/colloquy/retrieval"
	"github.com/lucerna/colloquy/server"
)

func main() {
	app := &cli.App{
		Name:   "colloquy",
		Usage:  "Meeting transcript assistant with retrieval-grounded answers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a raw transcript file",
				Action:    ingestCommand,
				ArgsUsage: "<transcript-file>",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Transcript title",
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Store the text verbatim without LLM structuring",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a stored transcript",
				Action:    askCommand,
				ArgsUsage: "<transcript-id> <question>",
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "context-only",
						Usage: "Print the retrieved context instead of generating an answer",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Report each retrieval stage",
					},
				),
			},
			{
				Name:   "list",
				Usage:  "List stored transcripts",
				Action: listCommand,
				Flags:  commonFlags(),
			},
			{
				Name:      "delete",
				Usage:     "Delete a stored transcript",
				Action:    deleteCommand,
				ArgsUsage: "<transcript-id>",
				Flags:     commonFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generative model name",
			Value: "qwen2.5:3b",
		},
	}
}

func newAssistant(c *cli.Context) (*colloquy.Assistant, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return colloquy.NewAssistant(c.String("db"), colloquy.WithAIConfig(aiConfig))
}

func serveCommand(c *cli.Context) error {
	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	pipeline, err := assistant.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	answerer, err := assistant.NewAnswerer()
	if err != nil {
		return err
	}

	srv, err := server.NewServer(c.String("addr"), assistant.Repository(), pipeline, answerer)
	if err != nil {
		return err
	}

	// Shut down gracefully on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("error shutting down server", "err", err)
		}
	}()

	return srv.Start()
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one transcript file argument")
	}

	raw, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read transcript file: %w", err)
	}

	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	pipeline, err := assistant.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	transcript, err := pipeline.Ingest(c.Context, string(raw), &ingest.IngestOptions{
		Title:           c.String("title"),
		SkipStructuring: c.Bool("raw"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Ingested transcript %s (%d bytes)\n", transcript.Id, len(transcript.Contents))
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected transcript id and question arguments")
	}
	id := c.Args().Get(0)
	question := c.Args().Get(1)

	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	answerer, err := assistant.NewAnswerer()
	if err != nil {
		return err
	}

	var monitor retrieval.RetrievalMonitor
	if c.Bool("verbose") {
		monitor = &retrieval.LoggingMonitor{}
	}

	if c.Bool("context-only") {
		context, err := answerer.Context(c.Context, id, question)
		if err != nil {
			return err
		}
		if context == "" {
			fmt.Println("No relevant context found.")
			return nil
		}
		fmt.Println(context)
		return nil
	}

	answer, err := answerer.AskWithMonitor(c.Context, id, question, monitor)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	return nil
}

func listCommand(c *cli.Context) error {
	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	transcripts, err := assistant.Repository().ListTranscripts(c.Context, 0)
	if err != nil {
		return err
	}

	if len(transcripts) == 0 {
		fmt.Println("No transcripts stored.")
		return nil
	}

	for _, t := range transcripts {
		title := t.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s  %s\n", t.Id, t.InsertedAt.Format(time.RFC3339), title)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one transcript id argument")
	}

	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	id := c.Args().Get(0)
	if err := assistant.Repository().DeleteTranscript(c.Context, id); err != nil {
		return err
	}
	assistant.Cache().Remove(id)

	fmt.Printf("Deleted transcript %s\n", id)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
