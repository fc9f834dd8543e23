package handlers

import (
	"net/http"

	"github.com/booksbridge/books-bridge/internal/upstream"
)

type resourceInfo struct {
	Resource   string `json:"resource"`
	Strategy   string `json:"strategy"`
	Identifier string `json:"identifier"`
	DateFilter bool   `json:"date_filter"`
}

// ResourcesHandler lists the registered resource types and how to call
// them.
func ResourcesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var out []resourceInfo
		for _, name := range upstream.Resources() {
			desc, err := upstream.Lookup(name)
			if err != nil {
				continue
			}
			out = append(out, resourceInfo{
				Resource:   desc.Resource,
				Strategy:   string(desc.Mode),
				Identifier: string(desc.Identifier),
				DateFilter: desc.AllowDateFilter,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"resources": out})
	}
}
