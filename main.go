package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"scj_seminar_admin/config"
	"scj_seminar_admin/extractor"
	"scj_seminar_admin/parser"
	"scj_seminar_admin/publisher"
	"scj_seminar_admin/richtext"
	"scj_seminar_admin/server"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	serve := flag.Bool("serve", false, "start the admin web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides ADMIN_ADDR)")
	pdfPath := flag.String("pdf", "", "analyze a flyer PDF and print the parsed fields")
	mdPath := flag.String("md", "", "publish a news entry from a markdown file")
	title := flag.String("title", "", "entry title (with --md)")
	date := flag.String("date", "", "seminar date YYYY-MM-DD (with --md, optional)")
	venue := flag.String("venue", "", "venue text (with --md, optional)")
	category := flag.String("category", "", "category お知らせ|イベント|レポート|その他 (with --md, optional)")
	tags := flag.String("tags", "", "comma-separated tags (with --md, optional)")
	flag.BoolVar(&verbose, "v", false, "enable info logs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web server mode
	if *serve {
		if err := cfg.ValidatePublish(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fields, err := buildParser(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		pub, err := publisher.New(cfg, nil, verbose, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		srv, err := server.New(extractor.NewPDFExtractor(), fields, pub, cfg.DeployHookURL, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		log.Printf("Starting admin server on %s", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// One-shot analyze mode
	if *pdfPath != "" {
		fields, err := buildParser(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		data, err := os.ReadFile(*pdfPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		text, err := extractor.NewPDFExtractor().Extract(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		parsed, err := fields.Parse(context.Background(), text)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(parsed, "", "  ")
		fmt.Println(string(out))
		return
	}

	// One-shot markdown publish mode
	if *mdPath == "" || *title == "" {
		fmt.Fprintln(os.Stderr, "--serve, --pdf, or both --md and --title are required")
		os.Exit(1)
	}
	if err := cfg.ValidatePublish(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	src, err := os.ReadFile(*mdPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pub, err := publisher.New(cfg, nil, verbose, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sub := publisher.Submission{
		Title:    *title,
		Date:     *date,
		Venue:    *venue,
		Category: *category,
		Tags:     splitTags(*tags),
	}

	ctx := context.Background()
	log.Printf("[cli] publishing title=%q md=%s", sub.Title, *mdPath)
	entryID, err := pub.PublishDocument(ctx, sub, richtext.FromMarkdown(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	publisher.TriggerDeploy(ctx, nil, cfg.DeployHookURL, log.Default())

	log.Printf("[cli] publish done entry_id=%s", entryID)
	fmt.Println(entryID)
}

// buildParser returns the model-backed parser when a credential is
// configured and the heuristic one otherwise.
func buildParser(cfg config.Config) (parser.FieldParser, error) {
	if cfg.LLM.Provider == "mock" {
		return parser.NewLLMParser(parser.MockLLM{})
	}
	if cfg.LLM.APIKey == "" {
		log.Println("no LLM api key configured; using heuristic field parser")
		return parser.NewHeuristicParser(), nil
	}
	switch cfg.LLM.Provider {
	case "openai":
		llm, err := parser.NewOpenAILLMFromConfig(&parser.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return parser.NewLLMParser(llm)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint; base URL required.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires LLM_BASE_URL")
		}
		llm, err := parser.NewOpenAILLMFromConfig(&parser.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return parser.NewLLMParser(llm)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
