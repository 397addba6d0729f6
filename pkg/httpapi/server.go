package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"grocerease/pkg/assistant"
	"grocerease/pkg/inventory"
	"grocerease/pkg/logging"
	"grocerease/pkg/shopping"
)

// DefaultSampleSize is how many random items a floor map load puts on the list.
const DefaultSampleSize = 10

const requestTimeout = 3 * time.Second

// Server wires HTTP endpoints to the read-only catalog and the session service.
type Server struct {
	catalog    *inventory.Catalog
	sessions   *shopping.Service
	assistant  *assistant.Assistant
	validate   *validator.Validate
	logger     *logrus.Logger
	sampleSize int

	document []byte
	etag     string
}

// New encodes the catalog once so every /api/catalog response is a byte copy with a stable ETag.
func New(catalog *inventory.Catalog, sessions *shopping.Service, bot *assistant.Assistant, sampleSize int, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if bot == nil {
		bot = assistant.New(catalog)
	}
	payload, err := json.Marshal(inventory.Document{Items: catalog.Items(), FaceColors: catalog.FaceColors()})
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return &Server{
		catalog:    catalog,
		sessions:   sessions,
		assistant:  bot,
		validate:   validator.New(),
		logger:     logger,
		sampleSize: sampleSize,
		document:   payload,
		etag:       fmt.Sprintf("\"%016x\"", xxhash.Sum64(payload)),
	}, nil
}

// Handler exposes the router. Unknown paths answer 404 and known paths with the
// wrong method answer 405, both as JSON errors.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.respondError(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.respondError(w, "method "+req.Method+" not allowed", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/api/catalog", s.getCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/items", s.searchItems).Methods(http.MethodGet)
	r.HandleFunc("/api/items/random", s.randomItems).Methods(http.MethodGet)
	r.HandleFunc("/api/items/by-name/{name}", s.itemByName).Methods(http.MethodGet)
	r.HandleFunc("/api/items/{id}", s.itemByID).Methods(http.MethodGet)
	r.HandleFunc("/api/faces", s.listFaces).Methods(http.MethodGet)
	r.HandleFunc("/api/faces/{faceID}/items", s.faceItems).Methods(http.MethodGet)
	r.HandleFunc("/api/faces/{faceID}/color", s.faceColor).Methods(http.MethodGet)

	r.HandleFunc("/api/sessions", s.openSession).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}", s.closeSession).Methods(http.MethodDelete)
	r.HandleFunc("/api/sessions/{id}/list", s.getList).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}/list", s.addToList).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/list/{itemID}", s.removeFromList).Methods(http.MethodDelete)
	r.HandleFunc("/api/sessions/{id}/floormap", s.floorMap).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}/messages", s.getMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}/messages", s.sendMessage).Methods(http.MethodPost)
	return r
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", s.etag)
	if r.Header.Get("If-None-Match") == s.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.document)
}

func (s *Server) searchItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items := s.catalog.SearchItems(query)
	s.logger.WithFields(logrus.Fields{"query": query, "results": len(items)}).Debug("catalog search served")
	s.respond(w, http.StatusOK, itemsResponse(items))
}

func (s *Server) randomItems(w http.ResponseWriter, r *http.Request) {
	count := s.sampleSize
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, "count must be a non-negative integer", http.StatusBadRequest)
			return
		}
		count = n
	}
	s.respond(w, http.StatusOK, itemsResponse(s.catalog.RandomItems(count)))
}

func (s *Server) itemByID(w http.ResponseWriter, r *http.Request) {
	item, err := s.catalog.ItemByID(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, "itemByID", err)
		return
	}
	s.respond(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) itemByName(w http.ResponseWriter, r *http.Request) {
	item, err := s.catalog.ItemByName(mux.Vars(r)["name"])
	if err != nil {
		s.fail(w, "itemByName", err)
		return
	}
	s.respond(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) listFaces(w http.ResponseWriter, _ *http.Request) {
	summary := inventory.Summarize(s.catalog.Items())
	faces := make([]faceResponse, 0, len(summary.PerFace))
	for _, fc := range summary.PerFace {
		faces = append(faces, faceResponse{FaceID: fc.FaceID, Color: s.catalog.FaceColor(fc.FaceID), Items: fc.Items})
	}
	s.respond(w, http.StatusOK, faces)
}

func (s *Server) faceItems(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, itemsResponse(s.catalog.ItemsByFace(mux.Vars(r)["faceID"])))
}

func (s *Server) faceColor(w http.ResponseWriter, r *http.Request) {
	face := mux.Vars(r)["faceID"]
	s.respond(w, http.StatusOK, faceResponse{FaceID: face, Color: s.catalog.FaceColor(face), Items: len(s.catalog.ItemsByFace(face))})
}

type openSessionPayload struct {
	Username string `json:"username" validate:"required,max=64"`
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var payload openSessionPayload
	if !s.decode(w, r, &payload) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := s.sessions.Open(ctx, payload.Username)
	if err != nil {
		s.fail(w, "openSession", err)
		return
	}
	s.logger.WithFields(logrus.Fields{"session": session.ID, "username": session.Username}).Info("shopping session opened")
	s.respond(w, http.StatusCreated, toSessionResponse(session))
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := s.sessions.Close(ctx, id); err != nil {
		s.fail(w, "closeSession", err)
		return
	}
	s.logger.WithField("session", id).Info("shopping session closed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		s.fail(w, "getList", err)
		return
	}
	s.respond(w, http.StatusOK, s.toListResponse(session))
}

type addPayload struct {
	ItemID   string `json:"item_id" validate:"required_without=Name"`
	Name     string `json:"name" validate:"required_without=ItemID"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

func (s *Server) addToList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	var payload addPayload
	if !s.decode(w, r, &payload) {
		return
	}

	var (
		item inventory.Item
		err  error
	)
	if payload.ItemID != "" {
		item, err = s.catalog.ItemByID(payload.ItemID)
	} else {
		item, err = s.catalog.ItemByName(payload.Name)
	}
	if err != nil {
		s.fail(w, "addToList", err)
		return
	}
	quantity := payload.Quantity
	if quantity == 0 {
		quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	session, err := s.sessions.Add(ctx, id, shopping.EntryFor(item, quantity))
	if err != nil {
		s.fail(w, "addToList", err)
		return
	}
	s.logger.WithFields(logrus.Fields{"session": id, "item": item.ID, "quantity": quantity}).Info("item added to shopping list")
	s.respond(w, http.StatusOK, s.toListResponse(session))
}

func (s *Server) removeFromList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	itemID := mux.Vars(r)["itemID"]
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := s.sessions.Remove(ctx, id, itemID)
	if err != nil {
		s.fail(w, "removeFromList", err)
		return
	}
	s.logger.WithFields(logrus.Fields{"session": id, "item": itemID}).Info("item removed from shopping list")
	s.respond(w, http.StatusOK, s.toListResponse(session))
}

// floorMap replaces the shopper's list with a fresh random sample on every load.
func (s *Server) floorMap(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	sample := s.catalog.RandomItems(s.sampleSize)
	entries := make([]shopping.Entry, 0, len(sample))
	for _, item := range sample {
		entries = append(entries, shopping.EntryFor(item, 1))
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	session, err := s.sessions.Replace(ctx, id, entries)
	if err != nil {
		s.fail(w, "floorMap", err)
		return
	}
	s.respond(w, http.StatusOK, floorMapResponse{
		FaceColors: s.catalog.FaceColors(),
		List:       s.toListResponse(session),
	})
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		s.fail(w, "getMessages", err)
		return
	}
	s.respond(w, http.StatusOK, session.History)
}

type messagePayload struct {
	Message string `json:"message" validate:"required,max=500"`
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	var payload messagePayload
	if !s.decode(w, r, &payload) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		s.fail(w, "sendMessage", err)
		return
	}
	reply := s.assistant.Respond(payload.Message, session.List)
	entries := make([]shopping.Entry, 0, len(reply.Added))
	for _, item := range reply.Added {
		entries = append(entries, shopping.EntryFor(item, 1))
	}
	now := time.Now().UTC()
	session, err = s.sessions.Converse(ctx, id, entries,
		shopping.Message{Sender: shopping.SenderUser, Text: payload.Message, At: now},
		shopping.Message{Sender: shopping.SenderBot, Text: reply.Text, At: now},
	)
	if err != nil {
		s.fail(w, "sendMessage", err)
		return
	}
	s.logger.WithFields(logrus.Fields{"session": id, "rule": reply.Rule, "added": len(reply.Added)}).Info("chat message answered")
	s.respond(w, http.StatusOK, chatResponse{Reply: reply, List: s.toListResponse(session)})
}

// sessionID rejects ids that cannot have been issued by the session service.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		s.respondError(w, shopping.ErrSessionNotFound.Error(), http.StatusNotFound)
		return "", false
	}
	return id, true
}

// decode reads a JSON body and runs struct validation on it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.WithError(err).Warn("request rejected: unable to decode payload")
		s.respondError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make(map[string]string, len(invalid))
			for _, fe := range invalid {
				fields[fe.Field()] = fe.Tag()
			}
			s.respond(w, http.StatusBadRequest, map[string]any{"error": "invalid payload", "fields": fields})
			return false
		}
		s.respondError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// fail maps domain errors to status codes and logs the rest.
func (s *Server) fail(w http.ResponseWriter, funcName string, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound), errors.Is(err, shopping.ErrSessionNotFound), errors.Is(err, shopping.ErrEntryNotFound):
		s.respondError(w, err.Error(), http.StatusNotFound)
	case shopping.IsValidation(err):
		s.respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		logging.LogError(s.logger, "httpapi", funcName, "request timed out", nil, err)
		s.respondError(w, err.Error(), http.StatusGatewayTimeout)
	default:
		logging.LogError(s.logger, "httpapi", funcName, "request failed", nil, err)
		s.respondError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Warn("unable to write response")
	}
}

// respondError keeps JSON formatting consistent across endpoints.
func (s *Server) respondError(w http.ResponseWriter, message string, status int) {
	s.respond(w, status, map[string]string{"error": message})
}

type itemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Barcode     string  `json:"barcode"`
	FaceID      string  `json:"face_id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	ImageURL    string  `json:"image_url"`
}

func toItemResponse(item inventory.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Barcode:     item.Barcode,
		FaceID:      item.FaceID,
		Description: item.Description,
		Price:       item.Price.InexactFloat64(),
		Unit:        string(item.Unit),
		Category:    string(item.Category),
		Brand:       item.Brand,
		ImageURL:    item.ImageURL,
	}
}

func itemsResponse(items []inventory.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

type faceResponse struct {
	FaceID string `json:"face_id"`
	Color  string `json:"color"`
	Items  int    `json:"items"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toSessionResponse(session shopping.Session) sessionResponse {
	return sessionResponse{ID: session.ID, Username: session.Username, CreatedAt: session.CreatedAt}
}

type entryResponse struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	FaceID   string  `json:"face_id"`
	Color    string  `json:"color"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
	Quantity int     `json:"quantity"`
}

type listResponse struct {
	SessionID string          `json:"session_id"`
	Items     []entryResponse `json:"items"`
	Total     string          `json:"total"`
}

func (s *Server) toListResponse(session shopping.Session) listResponse {
	entries := make([]entryResponse, 0, len(session.List))
	for _, e := range session.List {
		entries = append(entries, entryResponse{
			ItemID:   e.ItemID,
			Name:     e.Name,
			FaceID:   e.FaceID,
			Color:    s.catalog.FaceColor(e.FaceID),
			Price:    e.Price.InexactFloat64(),
			Unit:     string(e.Unit),
			Quantity: e.Quantity,
		})
	}
	return listResponse{SessionID: session.ID, Items: entries, Total: session.Total().Round(2).StringFixed(2)}
}

type floorMapResponse struct {
	FaceColors map[string]string `json:"face_colors"`
	List       listResponse      `json:"list"`
}

type chatResponse struct {
	Reply assistant.Reply `json:"reply"`
	List  listResponse    `json:"list"`
}
