package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/spf13/cobra"

	"github.com/formsentry/formsentry/api"
	"github.com/formsentry/formsentry/check"
	"github.com/formsentry/formsentry/internal/config"
	"github.com/formsentry/formsentry/session"
)

const (
	hideClassName    = "fs-hide"
	timerSessionKey  = "form[stamp]"
	fieldSessionKey  = "form[field]"
	dynamicValue     = "1"
	demoPageTemplate = `<!DOCTYPE html>
<html>
<head>
<title>FormSentry demo</title>
<style>%s</style>
</head>
<body>
<form method="post" action="/submit">
  <label>Name <input type="text" name="name"></label>
  <label>Message <textarea name="message" rows="5"></textarea></label>
  %s
  %s
  <button type="submit">Send</button>
</form>
</body>
</html>
`
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the demo form server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		var provider api.Provider
		if cfg.DataDir != "" {
			if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}
			db, err := session.OpenBoltDB(filepath.Join(cfg.DataDir, "sessions.db"), nil)
			if err != nil {
				return fmt.Errorf("opening session storage: %w", err)
			}
			defer db.Close()
			provider = api.NewBoltProvider(db)
		} else {
			provider = api.NewMemoryProvider()
		}

		factories := []api.CheckFactory{
			func(sess *session.Accessor, src check.Source) check.Check {
				return check.NewHoneypot(src, cfg.HoneypotField, http.MethodPost)
			},
			func(sess *session.Accessor, src check.Source) check.Check {
				return check.NewSessionFormTimer(sess, src, timerSessionKey,
					check.WithMinRequestTime(cfg.MinFormSeconds))
			},
			func(sess *session.Accessor, src check.Source) check.Check {
				return check.NewDynamicField(sess, src, fieldSessionKey, dynamicValue)
			},
		}

		a := api.New(provider, api.WithLogger(logger), api.WithChecks(factories...))

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			sess := a.Session(w, r)
			src := check.NewFormSource(r)

			honeypot := check.NewHoneypot(src, cfg.HoneypotField, http.MethodPost)
			check.NewSessionFormTimer(sess, src, timerSessionKey,
				check.WithMinRequestTime(cfg.MinFormSeconds))
			dynamic := check.NewDynamicField(sess, src, fieldSessionKey, dynamicValue)

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, demoPageTemplate,
				honeypot.BuildCSS(hideClassName),
				honeypot.BuildFormField(true, hideClassName),
				dynamic.BuildHiddenFieldHTML(false, ""))
		})

		r.With(a.Guard).Post("/submit", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<!DOCTYPE html><html><body><p>Thanks for your submission.</p></body></html>"))
		})

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		logger.Info("server started", "port", cfg.Port, "data_dir", cfg.DataDir)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
