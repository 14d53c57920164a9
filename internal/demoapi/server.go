// Package demoapi serves a small fixture catalog over HTTP in the same shape
// as the public products API, for offline use and tests.
package demoapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/catalog"
)

//go:embed fixtures/products.json
var fixtureJSON []byte

const (
	defaultPageLimit = 30
	shutdownTimeout  = 5 * time.Second
)

// Handler serves the fixture catalog.
type Handler struct {
	products []catalog.Item
	byID     map[int]catalog.Item
	log      logrus.FieldLogger
}

// Fixtures returns the embedded products in server order.
func Fixtures() ([]catalog.Item, error) {
	var items []catalog.Item
	if err := json.Unmarshal(fixtureJSON, &items); err != nil {
		return nil, errors.Wrap(err, "decode fixtures")
	}
	return items, nil
}

// Router builds the HTTP handler for products.
func Router(products []catalog.Item, log logrus.FieldLogger) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{products: products, byID: make(map[int]catalog.Item, len(products)), log: log}
	for _, p := range products {
		h.byID[p.ID] = p
	}

	r := mux.NewRouter()
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusNotFound, message{Message: "Not found"})
	})
	return logMiddleware(log, r)
}

// Serve runs the fixture API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, log logrus.FieldLogger) error {
	products, err := Fixtures()
	if err != nil {
		return err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(products, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "products": len(products)}).Info("demo api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("demo api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

type message struct {
	Message string `json:"message"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultPageLimit)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, message{Message: err.Error()})
		return
	}
	skip, err := intParam(r, "skip", 0)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, message{Message: err.Error()})
		return
	}

	total := len(h.products)
	start := min(skip, total)
	end := total
	if limit > 0 {
		end = min(start+limit, total)
	}
	page := catalog.CatalogPage{
		Products: append([]catalog.Item{}, h.products[start:end]...),
		Total:    total,
		Skip:     start,
		Limit:    end - start,
	}
	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, message{Message: "Product with id '" + raw + "' not found"})
		return
	}
	item, ok := h.byID[id]
	if !ok {
		h.writeJSON(w, http.StatusNotFound, message{Message: "Product with id '" + raw + "' not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		h.log.WithError(err).Error("write response")
	}
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func logMiddleware(log logrus.FieldLogger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(logrus.Fields{
			"method":     r.Method,
			"url":        r.URL.String(),
			"remoteAddr": r.RemoteAddr,
			"requestId":  r.Header.Get("X-Request-ID"),
		}).Info("demo api request")
		h.ServeHTTP(w, r)
	})
}
