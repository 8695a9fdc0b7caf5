package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type entity interface {
	GetID() string
	SetID(id string)
	Matches(search string) bool
}

type page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// collection is an in-memory CRUD resource.
type collection[T entity] struct {
	mu     sync.Mutex
	name   string
	items  map[string]T
	nextID int
}

func newCollection[T entity](name string, seed []T) *collection[T] {
	c := &collection[T]{name: name, items: make(map[string]T)}
	for _, item := range seed {
		c.add(item)
	}
	return c
}

func (c *collection[T]) add(item T) T {
	c.nextID++
	item.SetID(strconv.Itoa(c.nextID))
	c.items[item.GetID()] = item
	return item
}

func (c *collection[T]) routes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+base, c.list)
	mux.HandleFunc("GET "+base+"/{id}", c.get)
	mux.HandleFunc("POST "+base, c.create)
	mux.HandleFunc("PUT "+base+"/{id}", c.update)
	mux.HandleFunc("DELETE "+base+"/{id}", c.delete)
}

func (c *collection[T]) list(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	all := make([]T, 0, len(c.items))
	search := r.URL.Query().Get("search")
	for _, item := range c.items {
		if search == "" || item.Matches(search) {
			all = append(all, item)
		}
	}
	c.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		a, _ := strconv.Atoi(all[i].GetID())
		b, _ := strconv.Atoi(all[j].GetID())
		return a < b
	})
	writeJSON(w, http.StatusOK, paginate(all, r))
}

func (c *collection[T]) get(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	item, ok := c.items[r.PathValue("id")]
	c.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, c.name+" not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *collection[T]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	c.mu.Lock()
	item = c.add(item)
	c.mu.Unlock()
	writeJSON(w, http.StatusCreated, item)
}

func (c *collection[T]) update(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	id := r.PathValue("id")

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		writeError(w, http.StatusNotFound, c.name+" not found")
		return
	}
	item.SetID(id)
	c.items[id] = item
	writeJSON(w, http.StatusOK, item)
}

func (c *collection[T]) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		writeError(w, http.StatusNotFound, c.name+" not found")
		return
	}
	delete(c.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func paginate[T any](all []T, r *http.Request) page[T] {
	pageNo, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}
	if pageNo < 0 {
		pageNo = 0
	}

	start := min(pageNo*size, len(all))
	end := min(start+size, len(all))
	return page[T]{
		Content:       all[start:end],
		TotalElements: int64(len(all)),
		TotalPages:    (len(all) + size - 1) / size,
		Number:        pageNo,
		Size:          size,
	}
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg, "error": fmt.Sprint(http.StatusText(status))})
}
