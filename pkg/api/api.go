package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"censorship/pkg/censor"
	"censorship/pkg/models"
	"censorship/pkg/text"
)

const maxBodySize = 1 << 20

type API struct {
	ServiceName string

	r      *mux.Router
	kw     *kafka.Writer
	censor *censor.Censor
	text   *text.Filter
}

// New builds the API around c. tf is only used for statistics and may be nil.
func New(name string, c *censor.Censor, tf *text.Filter, kafkaWriter *kafka.Writer) (*API, error) {
	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		kw:          kafkaWriter,
		censor:      c,
		text:        tf,
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}

	api.r.HandleFunc("/censor", api.censorHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/stats", api.statsHandler).Methods(http.MethodGet)
}

func (api *API) censorHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req models.CensorRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[censorHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if (req.Content == nil) == (req.Elements == nil) {
		http.Error(w, "exactly one of content or elements is required", http.StatusBadRequest)
		log.Warnf("[censorHandler][%s] request must carry exactly one of content or elements", sID)
		return
	}

	var resp models.CensorResponse
	if req.Content != nil {
		out, err := api.censor.TransformString(r.Context(), *req.Content, req.Session)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Errorf("[censorHandler][%s] failed to censor content: %v", sID, err)
			return
		}
		resp.Content = &out
	} else {
		out, err := api.censor.Transform(r.Context(), req.Elements, req.Session)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Errorf("[censorHandler][%s] failed to censor elements: %v", sID, err)
			return
		}
		resp.Elements = out
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("[censorHandler][%s] failed to encode response: %v", sID, err)
	}
}

func (api *API) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats := models.Stats{
		Entries:  api.censor.Len(),
		Patterns: []models.PatternStatus{},
	}

	if api.text != nil {
		ts := api.text.Snapshot().Stats()
		stats.Words = ts.Words
		stats.Cached = ts.Cached
		for _, d := range ts.Patterns {
			ps := models.PatternStatus{Pattern: d.Pattern}
			if d.Err != nil {
				ps.Error = d.Err.Error()
			}
			stats.Patterns = append(stats.Patterns, ps)
		}
	}

	json.NewEncoder(w).Encode(stats)
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
