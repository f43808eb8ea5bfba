package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/recommend"
)

type LibraryHandler struct {
	catalog *catalog.Catalog
}

func NewLibraryHandler(cat *catalog.Catalog) *LibraryHandler {
	return &LibraryHandler{catalog: cat}
}

// Books lists the library, optionally filtered by ?category= and ?q=.
func (h *LibraryHandler) Books(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	books := make([]models.Book, 0)
	for _, b := range h.catalog.Books() {
		if category != "" && !strings.EqualFold(b.Category, category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(b.Title+" "+b.Author+" "+b.Description), q) {
			continue
		}
		books = append(books, b)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"books": books})
}

func (h *LibraryHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit := recommend.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"limit": "Must be between 1 and 50"}, r))
			return
		}
		limit = n
	}

	bookID := r.URL.Query().Get("book_id")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"book_id": bookID,
		"books":   recommend.Recommend(h.catalog.Books(), bookID, limit),
	})
}
