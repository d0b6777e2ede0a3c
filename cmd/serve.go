package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/config"
	"github.com/hkcm91/StickerNestV3-sub007/internal/host"
	"github.com/hkcm91/StickerNestV3-sub007/internal/protocol"
	"github.com/hkcm91/StickerNestV3-sub007/internal/registry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/runtime"
	"github.com/hkcm91/StickerNestV3-sub007/internal/telemetry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve installed widgets to remote hosts over websocket",
	Long: `Exposes the local registry over HTTP: package files for embedding, and
a websocket endpoint per widget where the remote peer speaks the host
side of the runtime protocol against an interpreted instance.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()
	printer.Banner()

	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Serve.Addr = v
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	trace, err := openTrace(&cfg)
	if err != nil {
		return err
	}
	defer trace.Close()

	cache, err := host.NewBuildCache(cfg.Serve.CacheSize, trace)
	if err != nil {
		return err
	}

	srv := &server{reg: reg, cache: cache, trace: trace, printer: printer}

	mux := http.NewServeMux()
	mux.HandleFunc("/widgets", srv.handleList)
	mux.HandleFunc("/widgets/", srv.handleFile)
	mux.HandleFunc("/session/", srv.handleSession)

	entries, err := reg.List(context.Background())
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	printer.Serving(cfg.Serve.Addr, ids)

	httpSrv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		printer.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(ctx) //nolint:errcheck
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	reg     *registry.Registry
	cache   *host.BuildCache
	trace   *telemetry.Emitter
	printer *ui.Printer
}

// handleList returns the installed widgets as JSON.
func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reg.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	type item struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Version  string `json:"version"`
		Category string `json:"category"`
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		items = append(items, item{ID: e.ID, Name: e.Name, Version: e.Version, Category: string(e.Category)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items) //nolint:errcheck
}

// handleFile serves one generated file from an installed package:
// /widgets/{id}/{path}.
func (s *server) handleFile(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/widgets/")
	id, file, ok := strings.Cut(rest, "/")
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}
	if file == "" {
		file = "index.html"
	}

	pkg, err := s.reg.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrNotInstalled) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Packages installed under an older template revision are regenerated
	// with the current emitters; the cache absorbs repeat requests.
	if pkg.TemplateVersion != codegen.TemplateVersion {
		fresh, _, err := s.cache.Build(pkg.Spec, codegen.Options{IncludeComments: true})
		if err == nil {
			pkg = fresh
		}
	}

	for _, f := range pkg.Files {
		if f.Path == file {
			w.Header().Set("Content-Type", contentType(f))
			fmt.Fprint(w, f.Content) //nolint:errcheck
			return
		}
	}
	http.NotFound(w, r)
}

// handleSession upgrades to websocket and runs an interpreted instance with
// the remote peer as host: /session/{id}.
func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/session/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	pkg, err := s.reg.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrNotInstalled) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := protocol.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := protocol.NewWSChannel(conn)
	inst := runtime.New(pkg.Spec, ch)
	if err := inst.Start(); err != nil {
		ch.Close()
		return
	}

	s.trace.Emit(telemetry.Event{Kind: telemetry.KindSessionStart, WidgetID: id, SessionID: r.RemoteAddr}) //nolint:errcheck
	go func() {
		<-inst.Done()
		s.trace.Emit(telemetry.Event{Kind: telemetry.KindSessionEnd, WidgetID: id, SessionID: r.RemoteAddr}) //nolint:errcheck
	}()
}

// contentType maps generated files to media types by their role.
func contentType(f codegen.File) string {
	switch f.Type {
	case codegen.FileManifest:
		return "application/json"
	case codegen.FileEntry:
		return "text/html; charset=utf-8"
	case codegen.FileStyles:
		return "text/css; charset=utf-8"
	default:
		return "text/javascript; charset=utf-8"
	}
}
