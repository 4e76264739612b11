// debugpanel demo server - shows the per-request debug collector wired
// into a small HTTP application.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/debugpanel/debugpanel/pkg/collector"
	"github.com/debugpanel/debugpanel/pkg/config"
	"github.com/debugpanel/debugpanel/pkg/logging"
	"github.com/debugpanel/debugpanel/pkg/middleware"
	"github.com/debugpanel/debugpanel/pkg/snapshot"
	"github.com/debugpanel/debugpanel/pkg/vcs"
)

// Version is set via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "debugpanel",
		Short:         "Demo server for the per-request debug panel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	return root
}

func serveCmd() *cobra.Command {
	var configPath string
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the demo server with the collector wired in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFromFile(configPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if cfg.AppVersion == "" {
				cfg.AppVersion = Version
			}

			logger := logging.New(logging.Config{
				Level:  logging.ParseLevel(cfg.LogLevel),
				Format: logging.ParseFormat(cfg.LogFormat),
			})
			head := vcs.Head(cfg.GitDir, cfg.ViewURLTemplate)

			mux := http.NewServeMux()
			mux.HandleFunc("/", demoPage)
			mux.HandleFunc("/api", apiHandler(cfg.AppVersion, head))

			handler := middleware.New(mux, middleware.Options{
				Enabled:           cfg.Enabled,
				AlwaysShowText:    cfg.AlwaysShowText,
				AlwaysShowComment: cfg.AlwaysShowComment,
				AppVersion:        cfg.AppVersion,
				VCS:               head,
				Logger:            logger,
			})

			logger.Info("demo server listening",
				"addr", cfg.Listen,
				"debugEnabled", cfg.Enabled)
			return http.ListenAndServe(cfg.Listen, handler)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "bind address (overrides config)")
	return cmd
}

// demoPage exercises every collection surface so the panel has
// something to show.
func demoPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector.FromContext(ctx)

	c.Log("serving demo page", "main.demoPage")
	c.CaptureLine("Entering demoPage")
	c.CaptureLine("  resolving user preferences")
	c.CaptureLine("  rendering body")

	h := c.StartQuery("SELECT title, body FROM articles WHERE id = 1", "main.demoPage", false)
	_ = legacyTitle(ctx)
	c.FinishQuery(h)

	c.CaptureLine("Exiting demoPage")
	if exe, err := os.Executable(); err == nil {
		c.RecordInclude(exe)
	}
	c.Warn("article cache miss, rendered from source", 0)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>debugpanel demo</title></head>
<body>
<h1>debugpanel demo</h1>
<p>This page was served through the debug middleware. Enable the panel
in the configuration to see the collected data below.</p>
</body>
</html>
`)
}

// legacyTitle stands in for an API kept only for compatibility; it
// files a deprecation notice against whoever calls it.
func legacyTitle(ctx context.Context) string {
	collector.Deprecated(ctx, "legacyTitle", "1.2.0", "debugpanel-demo")
	return "demo article"
}

// apiHandler serves a machine-readable result with the debug snapshot
// grafted in.
func apiHandler(appVersion string, head vcs.Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := collector.FromContext(r.Context())
		c.Log("serving api result", "main.apiHandler")

		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root := doc.CreateElement("api")
		article := root.CreateElement("article")
		article.CreateAttr("id", "1")
		article.SetText(legacyTitle(r.Context()))

		snapshot.ExportToResult(c, snapshot.Env{
			AppVersion: appVersion,
			VCS:        head,
			Request:    r,
		}, root, "")

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		doc.Indent(2)
		_, _ = doc.WriteTo(w)
	}
}
