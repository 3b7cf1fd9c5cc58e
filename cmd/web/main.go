package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"calorie-predictor/internal/app"
	"calorie-predictor/internal/client"
	"calorie-predictor/internal/form"
	"calorie-predictor/internal/httputil"
	"calorie-predictor/internal/predict"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("web listening", "addr", srv.Addr, "provider", deps.Config.PredictorProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("web server stopped", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)

	r.Get("/", indexHandler(deps))
	r.Post("/", submitHandler(deps))
	r.Post("/reset", resetHandler(deps))
	r.Get("/healthz", httputil.HealthHandler)
	r.Group(func(r chi.Router) {
		r.Use(httputil.CORS(deps.Config.AllowedOrigins))
		r.Options("/api/predict", func(w http.ResponseWriter, r *http.Request) {})
		r.Post("/api/predict", apiPredictHandler(deps))
	})
	return r
}

func indexHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(deps, w, http.StatusOK, newPage(form.Values{}))
	}
}

func submitHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.Fail(deps.Log, w, "invalid form", err, http.StatusBadRequest)
			return
		}
		values := formValues(r.PostForm.Get)
		pg := newPage(values)

		predictor, err := app.NewPredictor(deps.Config, deps.Log, r.Host)
		if err != nil {
			httputil.Fail(deps.Log, w, "predictor unavailable", err, http.StatusInternalServerError)
			return
		}

		status := http.StatusOK
		if client.New(predictor, values, pg, deps.Log).Submit(r.Context()) == client.OutcomeInvalid {
			status = http.StatusUnprocessableEntity
		}
		render(deps, w, status, pg)
	}
}

func resetHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.Fail(deps.Log, w, "invalid form", err, http.StatusBadRequest)
			return
		}
		pg := newPage(formValues(r.PostForm.Get))
		client.New(nil, form.Values{}, pg, deps.Log).Reset()
		render(deps, w, http.StatusOK, pg)
	}
}

// apiPredictHandler is the same-origin rewrite to the resolved backend. In stub
// mode there is no backend, so the synthetic estimate is answered directly.
func apiPredictHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Config.PredictorProvider != "http" {
			stubPredict(deps, w, r)
			return
		}
		proxy, err := httputil.NewRewriteProxy(deps.Config.ResolvePredictURL(r.Host), deps.Log)
		if err != nil {
			httputil.Fail(deps.Log, w, "prediction backend misconfigured", err, http.StatusInternalServerError)
			return
		}
		proxy.ServeHTTP(w, r)
	}
}

func stubPredict(deps app.Deps, w http.ResponseWriter, r *http.Request) {
	var payload predict.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
		return
	}
	predictor, err := app.NewPredictor(deps.Config, deps.Log, r.Host)
	if err != nil {
		httputil.Fail(deps.Log, w, "predictor unavailable", err, http.StatusInternalServerError)
		return
	}
	res, err := predictor.Predict(r.Context(), payload, nil)
	if err != nil {
		httputil.Fail(deps.Log, w, "prediction failed", err, http.StatusInternalServerError)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func render(deps app.Deps, w http.ResponseWriter, status int, pg *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, pg); err != nil {
		deps.Log.Error("render failed", "err", err)
	}
}
