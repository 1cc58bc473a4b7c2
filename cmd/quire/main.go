// Copyright 2025 Poiesic Systems
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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/quire"
	"github.com/poiesic/quire/ai"
	"github.com/poiesic/quire/domain"
	"github.com/poiesic/quire/index"
	"github.com/poiesic/quire/storage/surreal"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "quire",
		Usage: "Research notebooks over a graph document store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "SurrealDB endpoint (overrides SURREAL_URL)",
			},
			&cli.StringFlag{
				Name:  "namespace",
				Usage: "SurrealDB namespace (overrides SURREAL_NAMESPACE)",
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "SurrealDB database (overrides SURREAL_DATABASE)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "notebooks",
				Usage: "Manage notebooks",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all notebooks",
						Action: notebooksListCommand,
					},
					{
						Name:   "create",
						Usage:  "Create a notebook",
						Action: notebooksCreateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "name",
								Aliases:  []string{"n"},
								Usage:    "Notebook name",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "Notebook description",
							},
						},
					},
				},
			},
			{
				Name:  "sources",
				Usage: "Manage sources",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Add a source to a notebook",
						Action: sourcesAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "notebook",
								Usage:    "Notebook record id",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "title",
								Usage: "Source title",
							},
							&cli.StringFlag{
								Name:  "url",
								Usage: "Source URL",
							},
							&cli.StringFlag{
								Name:  "file",
								Usage: "Read source text from a file",
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List the sources in a notebook",
						Action: sourcesListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "notebook",
								Usage:    "Notebook record id",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:  "notes",
				Usage: "Manage notes",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Add a note to a notebook",
						Action: notesAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "notebook",
								Usage:    "Notebook record id",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "source",
								Usage: "Source record id the note refers to",
							},
							&cli.StringFlag{
								Name:     "content",
								Aliases:  []string{"c"},
								Usage:    "Note text",
								Required: true,
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List the notes in a notebook",
						Action: notesListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "notebook",
								Usage:    "Notebook record id",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:  "settings",
				Usage: "Inspect and change stored settings",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show the stored settings",
						Action: settingsShowCommand,
					},
					{
						Name:      "set",
						Usage:     "Set a settings field, e.g. quire settings set default_model gpt-4o",
						Action:    settingsSetCommand,
						ArgsUsage: "<field> <value>",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Bring the vector index up to date",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding workers",
						Value: 0,
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Chat inside a notebook",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "notebook",
						Usage:    "Notebook record id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Resume an existing chat session by record id",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model name (defaults to the configured model)",
					},
				},
			},
		},
	}
}

func openApp(c *cli.Context) (*quire.App, error) {
	return quire.Open(storeConfig(c))
}

// storeConfig starts from the environment and lets the global flags
// override it.
func storeConfig(c *cli.Context) surreal.Config {
	config := surreal.ConfigFromEnv()
	if url := c.String("url"); url != "" {
		config.URL = url
	}
	if ns := c.String("namespace"); ns != "" {
		config.Namespace = ns
	}
	if db := c.String("database"); db != "" {
		config.Database = db
	}
	return config
}

func notebooksListCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	notebooks, err := domain.All[domain.Notebook](ctx, app.Catalog(), "created DESC")
	if err != nil {
		return fmt.Errorf("listing notebooks: %w", err)
	}

	for _, nb := range notebooks {
		sources, err := nb.Sources(ctx, app.Catalog())
		if err != nil {
			// Keep listing; counts are cosmetic.
			slog.Warn("counting sources failed", "notebook", nb.RecordID(), "error", err)
		}
		notes, err := nb.Notes(ctx, app.Catalog())
		if err != nil {
			slog.Warn("counting notes failed", "notebook", nb.RecordID(), "error", err)
		}
		fmt.Printf("%s\t%s\t(%d sources, %d notes)\n", nb.RecordID(), nb.Name, len(sources), len(notes))
	}
	return nil
}

func notebooksCreateCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	nb := &domain.Notebook{
		Name:        c.String("name"),
		Description: c.String("description"),
	}
	if err := app.Catalog().Save(ctx, nb); err != nil {
		return fmt.Errorf("creating notebook: %w", err)
	}

	fmt.Println(nb.RecordID())
	return nil
}

func sourcesAddCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	nb, err := domain.Get[domain.Notebook](ctx, app.Catalog(), c.String("notebook"))
	if err != nil {
		return err
	}

	src := &domain.Source{
		Title: c.String("title"),
		URL:   c.String("url"),
	}
	if path := c.String("file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		src.Content = string(raw)
		src.FullText = string(raw)
		src.IsProcessed = true
	}

	if err := nb.AddSource(ctx, app.Catalog(), src); err != nil {
		return fmt.Errorf("adding source: %w", err)
	}

	fmt.Println(src.RecordID())
	return nil
}

func sourcesListCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	nb, err := domain.Get[domain.Notebook](ctx, app.Catalog(), c.String("notebook"))
	if err != nil {
		return err
	}

	sources, err := nb.Sources(ctx, app.Catalog())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}
	for _, src := range sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		fmt.Printf("%s\t%s\n", src.RecordID(), title)
	}
	return nil
}

func notesAddCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	nb, err := domain.Get[domain.Notebook](ctx, app.Catalog(), c.String("notebook"))
	if err != nil {
		return err
	}

	note := &domain.Note{
		Content:    c.String("content"),
		NotebookID: nb.RecordID(),
		SourceID:   c.String("source"),
	}
	if err := app.Catalog().Save(ctx, note); err != nil {
		return fmt.Errorf("creating note: %w", err)
	}

	fmt.Println(note.RecordID())
	return nil
}

func notesListCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	nb, err := domain.Get[domain.Notebook](ctx, app.Catalog(), c.String("notebook"))
	if err != nil {
		return err
	}

	notes, err := nb.Notes(ctx, app.Catalog())
	if err != nil {
		return fmt.Errorf("listing notes: %w", err)
	}
	for _, note := range notes {
		fmt.Printf("%s\t%s\n", note.RecordID(), firstLine(note.Content))
	}
	return nil
}

func settingsShowCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	settings, err := app.Settings(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("default_model\t%s\n", settings.DefaultModel)
	fmt.Printf("default_temperature\t%g\n", settings.DefaultTemperature)
	fmt.Printf("max_tokens\t%d\n", settings.MaxTokens)
	fmt.Printf("embedding_model\t%s\n", settings.EmbeddingModel)
	for _, provider := range []string{
		domain.ProviderOpenAI, domain.ProviderAnthropic, domain.ProviderGemini, domain.ProviderMistral,
	} {
		state := "unset"
		if _, ok := settings.APIKey(provider); ok {
			state = "configured"
		}
		fmt.Printf("%s_api_key\t%s\n", provider, state)
	}
	return nil
}

func settingsSetCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: quire settings set <field> <value>")
	}
	field, value := c.Args().Get(0), c.Args().Get(1)

	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	settings, err := app.Settings(ctx)
	if err != nil {
		return err
	}
	if err := applySetting(settings, field, value); err != nil {
		return err
	}
	return app.Catalog().SaveRecord(ctx, settings)
}

func applySetting(settings *domain.Settings, field, value string) error {
	switch field {
	case "openai_api_key":
		settings.OpenAIAPIKey = value
	case "anthropic_api_key":
		settings.AnthropicAPIKey = value
	case "gemini_api_key":
		settings.GeminiAPIKey = value
	case "mistral_api_key":
		settings.MistralAPIKey = value
	case "default_model":
		settings.DefaultModel = value
	case "embedding_model":
		settings.EmbeddingModel = value
	case "default_temperature":
		temp, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", value, err)
		}
		settings.DefaultTemperature = temp
	case "max_tokens":
		tokens, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_tokens %q: %w", value, err)
		}
		settings.MaxTokens = tokens
	default:
		return fmt.Errorf("unknown settings field %q", field)
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	var opts []index.Option
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, index.WithPoolSize(workers))
	}

	indexer, err := app.NewIndexer(ctx, opts...)
	if err != nil {
		return err
	}
	defer indexer.Release()

	report, err := indexer.Run(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "indexed %d, unchanged %d, skipped %d, failed %d\n",
		report.Indexed, report.Unchanged, report.Skipped, report.Failed)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := openApp(c)
	if err != nil {
		return err
	}

	nb, err := domain.Get[domain.Notebook](ctx, app.Catalog(), c.String("notebook"))
	if err != nil {
		return err
	}

	registry, err := app.Models(ctx)
	if err != nil {
		return err
	}

	session := &domain.ChatSession{NotebookID: nb.RecordID(), ModelName: c.String("model")}
	if id := c.String("session"); id != "" {
		session, err = domain.Get[domain.ChatSession](ctx, app.Catalog(), id)
		if err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintf(os.Stderr, "chatting in %s, empty line to quit\n", nb.Name)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		session.AddMessage(domain.RoleUser, line)
		messages, err := withNotebookContext(ctx, app, session)
		if err != nil {
			return err
		}

		var opts *ai.CompleteOptions
		if session.ModelName != "" {
			opts = &ai.CompleteOptions{Model: session.ModelName}
		}
		reply, err := registry.Complete(ctx, messages, opts)
		if err != nil {
			return fmt.Errorf("completion failed: %w", err)
		}

		session.AddMessage(domain.RoleAssistant, reply)
		fmt.Println(reply)

		if err := app.Catalog().Save(ctx, session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}
	return scanner.Err()
}

// withNotebookContext prefixes the conversation with a system message
// built from the notebook's recent notes.
func withNotebookContext(ctx context.Context, app *quire.App, session *domain.ChatSession) ([]domain.ChatMessage, error) {
	notes, err := session.ContextNotes(ctx, app.Catalog(), 10)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("You are a research assistant. Recent notes from this notebook:\n")
	for _, note := range notes {
		sb.WriteString("- ")
		sb.WriteString(firstLine(note.Content))
		sb.WriteString("\n")
	}

	out := make([]domain.ChatMessage, 0, len(session.Messages)+1)
	out = append(out, domain.ChatMessage{Role: domain.RoleSystem, Content: sb.String()})
	out = append(out, session.Messages...)
	return out, nil
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
