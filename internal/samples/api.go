package samples

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// DefaultAddr is where the demonstration API listens by default.
const DefaultAddr = "localhost:36146"

// GetItemList is one entry of the sample list.
type GetItemList struct {
	Name string `json:"Name"`
}

// GetItem is a single sample.
type GetItem struct {
	Id   int    `json:"Id"`
	Name string `json:"Name"`
}

// PostItem is the body of a create request.
type PostItem struct {
	Name string `json:"Name,omitempty"`
}

// PutItem is the body of an update request.
type PutItem struct {
	Name string `json:"Name,omitempty"`
}

// NewAPIHandler returns the demonstration Samples API used as a call target by the sample
// tests. It keeps no state.
func NewAPIHandler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/v1/Samples", corsOptions("GET, POST")).Methods(http.MethodOptions)
	router.HandleFunc("/v1/Samples/{id}", corsOptions("GET, PUT, DELETE")).Methods(http.MethodOptions)

	router.HandleFunc("/v1/Samples", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []GetItemList{{Name: "Name1"}, {Name: "Name2"}})
	}).Methods(http.MethodGet)

	router.HandleFunc("/v1/Samples/{id}", withID(func(w http.ResponseWriter, r *http.Request, id int) {
		writeJSON(w, http.StatusOK, GetItem{Id: id, Name: "Name1"})
	})).Methods(http.MethodGet)

	router.HandleFunc("/v1/Samples", func(w http.ResponseWriter, r *http.Request) {
		var item PostItem
		if err := decodeBody(r, &item); err != nil {
			http.Error(w, "invalid sample", http.StatusBadRequest)
			return
		}
		w.Header().Set("Location", "http://"+r.Host+"/v1/samples/1")
		writeJSON(w, http.StatusCreated, GetItem{Id: 1, Name: "Name1"})
	}).Methods(http.MethodPost)

	router.HandleFunc("/v1/Samples/{id}", withID(func(w http.ResponseWriter, r *http.Request, id int) {
		var item PutItem
		if err := decodeBody(r, &item); err != nil {
			http.Error(w, "invalid sample", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, GetItem{Id: id, Name: "Name1"})
	})).Methods(http.MethodPut)

	router.HandleFunc("/v1/Samples/{id}", withID(func(w http.ResponseWriter, r *http.Request, id int) {
		w.WriteHeader(http.StatusOK)
	})).Methods(http.MethodDelete)

	return router
}

func corsOptions(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusOK)
	}
}

func withID(next func(http.ResponseWriter, *http.Request, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "id must be an integer", http.StatusBadRequest)
			return
		}
		next(w, r, id)
	}
}

// decodeBody decodes a JSON request body into v. An empty body leaves v at its zero value.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
