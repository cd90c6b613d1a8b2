// Package main implements a mock storefront for local development. It serves
// Amazon- and Flipkart-shaped product pages from HTML templates so the scrape
// pipeline can be exercised without hitting real sites. The site domain is
// embedded in the URL path (e.g. /amazon.in/dp/B0TEST) so the registry's
// substring dispatch routes mock URLs to the right strategy.
package main

import (
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type productPage struct {
	Name    string
	Price   string
	InStock bool
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureDir := flag.String("fixtures", "tools/mock-server/testdata", "directory holding page templates")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tmpl, err := loadTemplates(*fixtureDir)
	if err != nil {
		logger.Error("failed to load templates", "dir", *fixtureDir, "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock storefront", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, tmpl)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadTemplates(dir string) (*template.Template, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(dir, "amazon.html.tmpl"),
		filepath.Join(dir, "flipkart.html.tmpl"),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func newMux(logger *slog.Logger, tmpl *template.Template) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /amazon.in/dp/{asin}", pageHandler(logger, tmpl, "amazon.html.tmpl", func(r *http.Request) string {
		return "Mock Product " + r.PathValue("asin")
	}))
	mux.HandleFunc("GET /flipkart.com/{slug}/p/{itemID}", pageHandler(logger, tmpl, "flipkart.html.tmpl", func(r *http.Request) string {
		return "Mock Product " + r.PathValue("itemID")
	}))
	return mux
}

// pageHandler renders one store's product page. The price and stock state
// come from query parameters so a watcher can simulate price drops and
// out-of-stock transitions without editing fixtures:
//
//	curl 'localhost:8089/amazon.in/dp/B0TEST?price=2,199.00&stock=out'
func pageHandler(
	logger *slog.Logger,
	tmpl *template.Template,
	name string,
	defaultName func(*http.Request) string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := productPage{
			Name:    r.URL.Query().Get("name"),
			Price:   r.URL.Query().Get("price"),
			InStock: r.URL.Query().Get("stock") != "out",
		}
		if page.Name == "" {
			page.Name = defaultName(r)
		}
		if page.Price == "" {
			page.Price = "2,499.00"
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, name, page); err != nil {
			logger.Error("rendering page", "template", name, "error", err)
		}
		logger.Info("served page", "template", name, "name", page.Name, "price", page.Price, "in_stock", page.InStock)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}
